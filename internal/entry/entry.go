// Package entry defines the input line type read by sources and filtered
// before it reaches the async sink.
package entry

import (
	"time"
)

// LogEntry is one line read from a source.
type LogEntry struct {
	Timestamp time.Time
	Stream    string // stdout, stderr, stdin, file
	Source    string // source identifier (file name, command)
	Message   string
	Seq       uint64 // per-source sequence number, starting at 1
}
