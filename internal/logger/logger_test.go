package logger

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geun-Oh/lxsink/internal/monitor"
	"github.com/Geun-Oh/lxsink/internal/record"
	"github.com/Geun-Oh/lxsink/internal/ring"
	"github.com/Geun-Oh/lxsink/internal/sink"
)

// memWriter keeps every Write call separately. It is only touched by the
// logger's background thread until Close returns.
type memWriter struct {
	chunks  []string
	flushes int
	closed  bool
	delay   time.Duration
	failOn  string
}

func (m *memWriter) Write(p []byte) (int, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.failOn != "" && string(p) == m.failOn {
		return 0, errors.New("disk full")
	}
	m.chunks = append(m.chunks, string(p))
	return len(p), nil
}

func (m *memWriter) Flush() error { m.flushes++; return nil }
func (m *memWriter) Close() error { m.closed = true; return nil }
func (m *memWriter) Name() string { return "mem" }
func (m *memWriter) String() string {
	return strings.Join(m.chunks, "")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func panicFatal(msg string) { panic(msg) }

func newTestLogger(t *testing.T, w sink.Writer, opts ...Option) *Logger {
	t.Helper()
	base := []Option{
		WithCapacity(1024),
		WithPollInterval(time.Millisecond),
		WithDrainInterval(time.Millisecond),
		WithLogger(quietLogger()),
		WithFatalHandler(panicFatal),
	}
	l, err := New(w, append(base, opts...)...)
	require.NoError(t, err)
	return l
}

// idleLogger has a ring but no background thread, so tests can inspect the
// exact records a call produced.
func idleLogger(capacity int) *Logger {
	return &Logger{
		name:  "idle",
		ch:    ring.New[record.Record](capacity),
		stats: monitor.NewStats(),
		fatal: panicFatal,
		log:   quietLogger(),
	}
}

func drainRecords(l *Logger) []record.Record {
	var out []record.Record
	for r := l.ch.TryPeek(); r != nil; r = l.ch.TryPeek() {
		out = append(out, *r)
		l.ch.CommitRead()
	}
	return out
}

func chars(s string) []record.Record {
	out := make([]record.Record, 0, len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, record.NewChar(s[i]))
	}
	return out
}

func concat(parts ...[]record.Record) []record.Record {
	var out []record.Record
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilWriter)

	w := &memWriter{}
	_, err = New(w, WithCapacity(0))
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = New(w, WithPollInterval(0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestLogRecordSequence(t *testing.T) {
	l := idleLogger(256)
	l.Log("Integer:% String:% Double:%", 5, "hi", 2.5)

	want := concat(
		chars("Integer:"),
		[]record.Record{record.NewInt(5)},
		chars(" String:"),
		chars("hi"),
		chars(" Double:"),
		[]record.Record{record.NewFloat64(2.5)},
	)
	assert.Equal(t, want, drainRecords(l))
}

func TestLogEscapedPlaceholder(t *testing.T) {
	l := idleLogger(16)
	l.Log("100%%")
	assert.Equal(t, chars("100%"), drainRecords(l))

	l.Log("%%%", 7)
	assert.Equal(t, concat(chars("%"), []record.Record{record.NewInt(7)}), drainRecords(l))
}

type named string

func (n named) String() string { return "<" + string(n) + ">" }

func TestLogArgumentKinds(t *testing.T) {
	tests := []struct {
		arg  any
		kind record.Kind
		want string
	}{
		{byte('c'), record.Char, "c"},
		{int8(-2), record.Int32, "-2"},
		{int16(300), record.Int32, "300"},
		{int32(-1), record.Int32, "-1"},
		{'r', record.Int32, "114"},
		{int(5), record.Int, "5"},
		{int64(2), record.Int64, "2"},
		{uint16(9), record.Uint32, "9"},
		{uint32(3), record.Uint32, "3"},
		{uint(4), record.Uint, "4"},
		{uint64(5), record.Uint64, "5"},
		{float32(0.5), record.Float32, "0.5"},
		{2.5, record.Float64, "2.5"},
		{"str", record.Char, "str"},
		{[]byte("b"), record.Char, "b"},
		{true, record.Char, "true"},
		{false, record.Char, "false"},
		{errors.New("boom"), record.Char, "boom"},
		{named("x"), record.Char, "<x>"},
	}
	for _, tt := range tests {
		l := idleLogger(16)
		l.Log("%", tt.arg)
		got := drainRecords(l)
		require.NotEmpty(t, got, "arg %#v", tt.arg)

		var text []byte
		for _, r := range got {
			assert.Equal(t, tt.kind, r.Kind(), "arg %#v", tt.arg)
			text = r.AppendTo(text)
		}
		assert.Equal(t, tt.want, string(text), "arg %#v", tt.arg)
	}
}

type point struct{ x, y int }

func TestLogFallsBackToSprint(t *testing.T) {
	l := idleLogger(64)
	l.Log("p=%", point{1, 2})
	var text []byte
	for _, r := range drainRecords(l) {
		text = r.AppendTo(text)
	}
	assert.Equal(t, "p={1 2}", string(text))
}

func TestLogArgumentMismatchIsFatal(t *testing.T) {
	l := idleLogger(16)

	assert.PanicsWithValue(t, "extra arguments provided to Log", func() { l.Log("%", 1, 2) })
	assert.PanicsWithValue(t, "extra arguments provided to Log", func() { l.Log("no placeholders", 1) })
	assert.PanicsWithValue(t, "missing arguments to Log", func() { l.Log("% %", 1) })
	assert.PanicsWithValue(t, "missing arguments to Log", func() { l.Log("trailing %") })

	assert.Zero(t, l.ch.Len(), "a rejected Log call must not enqueue anything")
}

func TestCountPlaceholders(t *testing.T) {
	tests := map[string]int{
		"":        0,
		"abc":     0,
		"%":       1,
		"%%":      0,
		"%%%":     1,
		"a%b%c":   2,
		"100%%":   0,
		"%% % %%": 1,
	}
	for format, want := range tests {
		assert.Equal(t, want, countPlaceholders(format), "format %q", format)
	}
}

func TestPushMethods(t *testing.T) {
	l := idleLogger(64)
	l.PushChar('a')
	l.PushInt32(-32)
	l.PushInt(7)
	l.PushInt64(-64)
	l.PushUint32(32)
	l.PushUint(8)
	l.PushUint64(64)
	l.PushFloat32(1.5)
	l.PushFloat64(0.25)
	l.PushString("xy")
	l.PushBytes([]byte("z"))

	var text []byte
	for _, r := range drainRecords(l) {
		text = r.AppendTo(text)
	}
	assert.Equal(t, "a-327-6432864"+"1.50.25xyz", string(text))
}

func TestOverflowKeepsNewest(t *testing.T) {
	l := idleLogger(4)
	for i := 0; i < 5; i++ {
		l.PushInt(i)
	}
	got := drainRecords(l)
	assert.Equal(t, []record.Record{record.NewInt(1), record.NewInt(2), record.NewInt(3), record.NewInt(4)}, got)
	assert.Equal(t, uint64(1), l.Snapshot().Overwritten)
}

func TestLogWritesToWriter(t *testing.T) {
	w := &memWriter{}
	l := newTestLogger(t, w)
	l.Log("Integer:% String:% Double:%\n", 5, "hi", 2.5)
	l.Log("100%%\n")
	require.NoError(t, l.Close())

	assert.Equal(t, "Integer:5 String:hi Double:2.5\n100%\n", w.String())
	assert.True(t, w.closed)
	assert.Positive(t, w.flushes)
}

func TestCloseDrainsEverything(t *testing.T) {
	const k = 1000
	w := &memWriter{}
	l := newTestLogger(t, w, WithCapacity(k))
	for i := 0; i < k; i++ {
		l.PushInt(i)
	}
	require.NoError(t, l.Close())

	require.Len(t, w.chunks, k)
	for i, c := range w.chunks {
		assert.Equal(t, strconv.Itoa(i), c)
	}
	assert.Equal(t, StateStopped, l.State())

	snap := l.Snapshot()
	assert.Equal(t, uint64(k), snap.Enqueued)
	assert.Equal(t, uint64(k), snap.Written)
	assert.Zero(t, snap.Overwritten)
	assert.Zero(t, snap.Depth)
}

func TestCloseIsIdempotent(t *testing.T) {
	w := &memWriter{}
	l := newTestLogger(t, w)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	assert.Equal(t, StateStopped, l.State())
}

func TestPushAfterCloseIsRejected(t *testing.T) {
	w := &memWriter{}
	l := newTestLogger(t, w)
	l.PushString("ok")
	require.NoError(t, l.Close())

	l.PushString("late")
	l.PushInt(1)
	l.Log("x=%", 2)

	assert.Equal(t, "ok", w.String())
	assert.Equal(t, uint64(6), l.Stats().Rejected())
	assert.Zero(t, l.Len())
}

// blockingWriter stalls every Write until release is closed.
type blockingWriter struct {
	memWriter
	release chan struct{}
}

func (b *blockingWriter) Write(p []byte) (int, error) {
	<-b.release
	return b.memWriter.Write(p)
}

func TestProducerNeverWaitsOnStalledWriter(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	l := newTestLogger(t, w, WithCapacity(16))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100_000; i++ {
			l.PushInt(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer blocked behind a stalled writer")
	}
	assert.Equal(t, 16, l.Len())
	assert.Equal(t, StateRunning, l.State())

	close(w.release)
	require.NoError(t, l.Close())

	// Only what was in the ring when the writer came back survives.
	snap := l.Snapshot()
	assert.Equal(t, uint64(16), snap.Written)
	assert.Len(t, w.chunks, 16)
	assert.Equal(t, uint64(100_000), snap.Written+snap.Overwritten)

	last := -1
	for _, c := range w.chunks {
		n, err := strconv.Atoi(c)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
}

// TestConcurrentSlowWriter runs a producer flat out against a writer that
// sleeps on every call. Run with -race.
func TestConcurrentSlowWriter(t *testing.T) {
	w := &memWriter{delay: 20 * time.Microsecond}
	l := newTestLogger(t, w, WithCapacity(128))

	var stop atomic.Bool
	produced := make(chan int)
	go func() {
		i := 0
		for ; !stop.Load(); i++ {
			l.PushInt(i)
			if c := l.Len(); c < 0 || c > 128 {
				t.Errorf("occupancy %d out of range", c)
			}
		}
		produced <- i
	}()

	time.Sleep(200 * time.Millisecond)
	stop.Store(true)
	n := <-produced
	require.NoError(t, l.Close())

	require.NotEmpty(t, w.chunks)
	last := -1
	for _, c := range w.chunks {
		v, err := strconv.Atoi(c)
		require.NoError(t, err)
		require.Greater(t, v, last, "records written out of order")
		last = v
	}
	assert.Less(t, last, n)

	snap := l.Snapshot()
	assert.Equal(t, uint64(n), snap.Written+snap.Overwritten)
}

func TestWriteErrorsAreCounted(t *testing.T) {
	var logs bytes.Buffer
	w := &memWriter{failOn: "b"}
	l, err := New(w,
		WithCapacity(64),
		WithPollInterval(time.Millisecond),
		WithDrainInterval(time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	require.NoError(t, err)

	l.PushString("abcb")
	require.NoError(t, l.Close())

	assert.Equal(t, "ac", w.String())
	assert.Equal(t, uint64(2), l.Stats().WriteErrors())
	assert.Equal(t, 1, strings.Count(logs.String(), "write failed"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "draining", StateDraining.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestDefaultFatalExits(t *testing.T) {
	if os.Getenv("LXSINK_FATAL_CHILD") == "1" {
		l, err := New(sink.NopCloser(io.Discard, "discard"), WithCapacity(8), WithLogger(quietLogger()))
		if err != nil {
			os.Exit(3)
		}
		l.Log("%", 1, 2)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestDefaultFatalExits$")
	cmd.Env = append(os.Environ(), "LXSINK_FATAL_CHILD=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func BenchmarkLog(b *testing.B) {
	l, err := New(sink.NopCloser(io.Discard, "discard"), WithLogger(quietLogger()), WithCapacity(1<<16))
	require.NoError(b, err)
	defer l.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Log("seq=% px=%\n", i, 101.25)
	}
}
