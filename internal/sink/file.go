package sink

import (
	"bufio"
	"fmt"
	"os"
)

const fileBufferSize = 64 * 1024

// FileWriter writes log bytes to a file through a write buffer.
type FileWriter struct {
	file *os.File
	buf  *bufio.Writer
}

// NewFileWriter opens path for appending, creating it if needed. If truncate
// is true any existing content is discarded.
func NewFileWriter(path string, truncate bool) (*FileWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return &FileWriter{
		file: f,
		buf:  bufio.NewWriterSize(f, fileBufferSize),
	}, nil
}

// Write buffers p.
func (w *FileWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Flush writes buffered bytes to the file. It does not fsync; Close does.
func (w *FileWriter) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", w.file.Name(), err)
	}
	return nil
}

// Close flushes, syncs and closes the file.
func (w *FileWriter) Close() error {
	if err := w.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("sync %s: %w", w.file.Name(), err)
	}
	return w.file.Close()
}

// Name returns the writer identifier.
func (w *FileWriter) Name() string {
	return "file:" + w.file.Name()
}
