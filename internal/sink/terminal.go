package sink

import (
	"bufio"
	"io"
	"os"
)

// TerminalWriter writes log bytes to a terminal stream. Close flushes but
// leaves the stream open, since it is usually stdout or stderr.
type TerminalWriter struct {
	buf  *bufio.Writer
	name string
}

// NewTerminalWriter creates a writer over w, defaulting to os.Stdout.
func NewTerminalWriter(w io.Writer) *TerminalWriter {
	name := "terminal"
	if w == nil {
		w = os.Stdout
	}
	if f, ok := w.(*os.File); ok {
		name = "terminal:" + f.Name()
	}
	return &TerminalWriter{buf: bufio.NewWriter(w), name: name}
}

func (s *TerminalWriter) Write(p []byte) (int, error) { return s.buf.Write(p) }

// Flush writes buffered output to the stream.
func (s *TerminalWriter) Flush() error { return s.buf.Flush() }

// Close flushes buffered output.
func (s *TerminalWriter) Close() error { return s.buf.Flush() }

// Name returns the writer identifier.
func (s *TerminalWriter) Name() string { return s.name }
