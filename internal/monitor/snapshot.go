package monitor

import (
	"fmt"
	"time"
)

// Snapshot is a point-in-time copy of the sink's counters.
type Snapshot struct {
	Name        string
	Lines       uint64
	Matched     uint64
	Enqueued    uint64 // records accepted by the ring
	Overwritten uint64 // records lost to ring overflow
	Rejected    uint64 // records refused after shutdown began
	Written     uint64 // records handed to the writer
	Bytes       uint64
	Flushes     uint64
	WriteErrors uint64
	Depth       int // unread records at snapshot time
	Capacity    int
	Elapsed     time.Duration
}

// Source is anything that can report a Snapshot.
type Source interface {
	Snapshot() Snapshot
}

// WriteRate returns records written per second.
func (s Snapshot) WriteRate() float64 {
	secs := s.Elapsed.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.Written) / secs
}

// Summary returns a formatted summary string.
func (s Snapshot) Summary() string {
	matchRate := float64(0)
	if s.Lines > 0 {
		matchRate = float64(s.Matched) / float64(s.Lines) * 100
	}
	return fmt.Sprintf(
		"Sink:          %s\n"+
			"Lines:         %d (matched %d, %.1f%%)\n"+
			"Records:       %d enqueued, %d written, %d overwritten, %d rejected\n"+
			"Bytes:         %d in %d flushes (%d errors)\n"+
			"Ring:          %d/%d\n"+
			"Duration:      %s\n"+
			"Throughput:    %.0f records/s",
		s.Name,
		s.Lines, s.Matched, matchRate,
		s.Enqueued, s.Written, s.Overwritten, s.Rejected,
		s.Bytes, s.Flushes, s.WriteErrors,
		s.Depth, s.Capacity,
		s.Elapsed.Round(time.Millisecond),
		s.WriteRate(),
	)
}
