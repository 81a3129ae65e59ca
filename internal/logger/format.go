package logger

import (
	"fmt"

	"github.com/Geun-Oh/lxsink/internal/record"
)

// Placeholder marks where Log substitutes the next argument. A doubled
// placeholder writes one literal '%'.
const Placeholder = '%'

// Log writes format with each placeholder replaced by the next argument.
//
//	l.Log("Integer:% String:% Double:%\n", 5, "hi", 2.5)
//	l.Log("100%%\n")
//
// The placeholder count must equal len(args). A mismatch is a programming
// error: nothing is enqueued and the fatal handler is called with
// "extra arguments provided to Log" or "missing arguments to Log".
//
// Numeric arguments become typed records and are formatted on the
// background thread. byte is a character and rune is an int32. Strings,
// byte slices, bools, errors and fmt.Stringers are written as characters.
// Any other type goes through fmt.Sprint, which allocates.
func (l *Logger) Log(format string, args ...any) {
	switch n := countPlaceholders(format); {
	case n < len(args):
		l.fatal("extra arguments provided to Log")
		return
	case n > len(args):
		l.fatal("missing arguments to Log")
		return
	}
	if !l.accepting(1) {
		return
	}

	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == Placeholder {
			if i+1 < len(format) && format[i+1] == Placeholder {
				i++
			} else {
				l.pushArg(args[next])
				next++
				continue
			}
		}
		l.put(record.NewChar(c))
	}
}

// countPlaceholders scans format the same way Log does.
func countPlaceholders(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != Placeholder {
			continue
		}
		if i+1 < len(format) && format[i+1] == Placeholder {
			i++
			continue
		}
		n++
	}
	return n
}

func (l *Logger) pushArg(arg any) {
	switch v := arg.(type) {
	case byte:
		l.put(record.NewChar(v))
	case int8:
		l.put(record.NewInt32(int32(v)))
	case int16:
		l.put(record.NewInt32(int32(v)))
	case int32:
		l.put(record.NewInt32(v))
	case int:
		l.put(record.NewInt(v))
	case int64:
		l.put(record.NewInt64(v))
	case uint16:
		l.put(record.NewUint32(uint32(v)))
	case uint32:
		l.put(record.NewUint32(v))
	case uint:
		l.put(record.NewUint(v))
	case uint64:
		l.put(record.NewUint64(v))
	case float32:
		l.put(record.NewFloat32(v))
	case float64:
		l.put(record.NewFloat64(v))
	case string:
		l.putString(v)
	case []byte:
		for _, c := range v {
			l.put(record.NewChar(c))
		}
	case bool:
		if v {
			l.putString("true")
		} else {
			l.putString("false")
		}
	case error:
		l.putString(v.Error())
	case fmt.Stringer:
		l.putString(v.String())
	default:
		l.putString(fmt.Sprint(v))
	}
}

func (l *Logger) putString(s string) {
	for i := 0; i < len(s); i++ {
		l.put(record.NewChar(s[i]))
	}
}
