package source

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/Geun-Oh/lxsink/internal/entry"
)

const followInterval = 100 * time.Millisecond

// FileSource reads lines from a file, optionally following appends.
type FileSource struct {
	path   string
	follow bool
	seq    atomic.Uint64
}

// NewFileSource creates a source that reads path. With follow it keeps
// polling for new lines until ctx is cancelled.
func NewFileSource(path string, follow bool) *FileSource {
	return &FileSource{path: path, follow: follow}
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Start opens the file and streams its lines.
func (s *FileSource) Start(ctx context.Context) (<-chan entry.LogEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", s.path, err)
	}

	ch := make(chan entry.LogEntry, chanSize)
	sc := scanner{name: s.Name(), seq: &s.seq}
	go func() {
		defer close(ch)
		defer f.Close()
		for {
			if sc.scan(ctx, "file", f, ch) || !s.follow {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(followInterval):
			}
		}
	}()
	return ch, nil
}
