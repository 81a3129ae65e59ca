// Package sink defines the Writer that the async logger drains into.
package sink

import (
	"io"
)

// Writer receives formatted log bytes from the logger's background thread.
// The logger never calls a Writer concurrently with itself, so
// implementations need no locking of their own.
type Writer interface {
	io.Writer

	// Flush pushes any buffered bytes to the underlying destination.
	Flush() error

	// Close flushes and releases the destination.
	Close() error

	// Name returns a human-readable identifier for this writer.
	Name() string
}

type nopCloser struct {
	w    io.Writer
	name string
}

// NopCloser wraps w as a Writer whose Flush and Close do nothing.
func NopCloser(w io.Writer, name string) Writer {
	return &nopCloser{w: w, name: name}
}

func (n *nopCloser) Write(p []byte) (int, error) { return n.w.Write(p) }
func (n *nopCloser) Flush() error                { return nil }
func (n *nopCloser) Close() error                { return nil }
func (n *nopCloser) Name() string                { return n.name }
