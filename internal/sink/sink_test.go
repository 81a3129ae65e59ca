package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriterBuffersUntilFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	w, err := NewFileWriter(path, false)
	require.NoError(t, err)

	_, err = w.Write([]byte("hello "))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data, "bytes should stay buffered before Flush")

	require.NoError(t, w.Flush())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello ", string(data))

	_, err = w.Write([]byte("world\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(data))
	assert.Equal(t, "file:"+path, w.Name())
}

func TestFileWriterAppendAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))

	w, err := NewFileWriter(path, false)
	require.NoError(t, err)
	_, _ = w.Write([]byte("new\n"))
	require.NoError(t, w.Close())
	data, _ := os.ReadFile(path)
	assert.Equal(t, "old\nnew\n", string(data))

	w, err = NewFileWriter(path, true)
	require.NoError(t, err)
	_, _ = w.Write([]byte("fresh\n"))
	require.NoError(t, w.Close())
	data, _ = os.ReadFile(path)
	assert.Equal(t, "fresh\n", string(data))
}

func TestFileWriterBadPath(t *testing.T) {
	_, err := NewFileWriter(filepath.Join(t.TempDir(), "missing", "out.log"), false)
	assert.Error(t, err)
}

func TestTerminalWriter(t *testing.T) {
	var out bytes.Buffer
	w := NewTerminalWriter(&out)
	_, err := w.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Zero(t, out.Len())
	require.NoError(t, w.Close())
	assert.Equal(t, "line\n", out.String())
	assert.Equal(t, "terminal", w.Name())
}

func TestNopCloser(t *testing.T) {
	var out bytes.Buffer
	w := NopCloser(&out, "mem")
	_, err := w.Write([]byte("x"))
	require.NoError(t, err)
	assert.NoError(t, w.Flush())
	assert.NoError(t, w.Close())
	assert.Equal(t, "x", out.String())
	assert.Equal(t, "mem", w.Name())
}
