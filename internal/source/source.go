// Package source reads input lines that are fed into the async sink.
package source

import (
	"bufio"
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/Geun-Oh/lxsink/internal/entry"
)

const (
	chanSize     = 256
	maxLineBytes = 1024 * 1024
)

// Source emits LogEntry values on a channel. Implementations close the
// channel when the input is exhausted or ctx is cancelled.
type Source interface {
	Start(ctx context.Context) (<-chan entry.LogEntry, error)
	Name() string
}

// scanner turns a reader into entries stamped with a shared sequence.
type scanner struct {
	name string
	seq  *atomic.Uint64
}

// scan reads r line by line into ch until EOF, a read error or ctx is done.
// It reports whether ctx ended the scan.
func (s scanner) scan(ctx context.Context, stream string, r io.Reader, ch chan<- entry.LogEntry) (cancelled bool) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		e := entry.LogEntry{
			Timestamp: time.Now(),
			Stream:    stream,
			Source:    s.name,
			Message:   sc.Text(),
			Seq:       s.seq.Add(1),
		}
		select {
		case ch <- e:
		case <-ctx.Done():
			return true
		}
	}
	return false
}
