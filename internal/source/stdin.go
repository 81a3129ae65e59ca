package source

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/Geun-Oh/lxsink/internal/entry"
)

// ReaderSource reads lines from an io.Reader, os.Stdin by default.
type ReaderSource struct {
	r    io.Reader
	name string
	seq  atomic.Uint64
}

// NewStdinSource creates a source that reads from stdin.
func NewStdinSource() *ReaderSource {
	return NewReaderSource(os.Stdin, "stdin")
}

// NewReaderSource creates a source over r.
func NewReaderSource(r io.Reader, name string) *ReaderSource {
	return &ReaderSource{r: r, name: name}
}

// Name returns the source identifier.
func (s *ReaderSource) Name() string { return s.name }

// Start reads until EOF.
func (s *ReaderSource) Start(ctx context.Context) (<-chan entry.LogEntry, error) {
	ch := make(chan entry.LogEntry, chanSize)
	go func() {
		defer close(ch)
		scanner{name: s.name, seq: &s.seq}.scan(ctx, s.name, s.r, ch)
	}()
	return ch, nil
}
