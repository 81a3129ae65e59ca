// Package monitor collects runtime statistics for the async log sink.
package monitor

import (
	"sync/atomic"
	"time"
)

// Stats holds counters updated by the pipeline and the logger's background
// thread. All updates are single atomic adds; nothing here locks.
type Stats struct {
	lines       atomic.Uint64
	matched     atomic.Uint64
	rejected    atomic.Uint64
	written     atomic.Uint64
	bytes       atomic.Uint64
	flushes     atomic.Uint64
	writeErrors atomic.Uint64
	startTime   time.Time
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
	}
}

// RecordLine counts one input line read by the pipeline.
func (s *Stats) RecordLine() { s.lines.Add(1) }

// RecordMatch counts one input line that passed the filters.
func (s *Stats) RecordMatch() { s.matched.Add(1) }

// RecordReject counts a record refused because the logger was shutting down.
func (s *Stats) RecordReject() { s.rejected.Add(1) }

// RecordWrite counts one record of n bytes handed to the writer.
func (s *Stats) RecordWrite(n int) {
	s.written.Add(1)
	s.bytes.Add(uint64(n))
}

// RecordFlush counts a writer flush.
func (s *Stats) RecordFlush() { s.flushes.Add(1) }

// RecordWriteError counts a failed write or flush.
func (s *Stats) RecordWriteError() { s.writeErrors.Add(1) }

func (s *Stats) Lines() uint64       { return s.lines.Load() }
func (s *Stats) Matched() uint64     { return s.matched.Load() }
func (s *Stats) Rejected() uint64    { return s.rejected.Load() }
func (s *Stats) Written() uint64     { return s.written.Load() }
func (s *Stats) Bytes() uint64       { return s.bytes.Load() }
func (s *Stats) Flushes() uint64     { return s.flushes.Load() }
func (s *Stats) WriteErrors() uint64 { return s.writeErrors.Load() }

// Elapsed returns the time since the stats were created.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}
