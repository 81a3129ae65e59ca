// Package logger is an asynchronous log sink. Callers push values into a
// lock-free ring and a dedicated background thread formats them and writes
// them out, so the calling goroutine never waits on I/O.
//
// The producer side (every Push method and Log) must be driven by one
// goroutine at a time. Callers that log from several goroutines must
// serialize those calls themselves.
package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Geun-Oh/lxsink/internal/monitor"
	"github.com/Geun-Oh/lxsink/internal/record"
	"github.com/Geun-Oh/lxsink/internal/ring"
	"github.com/Geun-Oh/lxsink/internal/sink"
	"github.com/Geun-Oh/lxsink/internal/thread"
)

const (
	// DefaultCapacity is the ring size in records (16 bytes each).
	DefaultCapacity = 1 << 20
	// DefaultPollInterval is how long the background thread sleeps when the
	// ring is empty.
	DefaultPollInterval = 10 * time.Millisecond
	// DefaultDrainInterval is how often Close re-checks the ring while
	// waiting for it to empty.
	DefaultDrainInterval = time.Second
)

var (
	ErrNilWriter       = errors.New("logger: writer is required")
	ErrInvalidCapacity = errors.New("logger: capacity must be > 0")
	ErrInvalidInterval = errors.New("logger: intervals must be > 0")
)

// State is the lifecycle stage of a Logger.
type State int32

const (
	StateRunning State = iota
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type options struct {
	name          string
	capacity      int
	pollInterval  time.Duration
	drainInterval time.Duration
	cpu           int
	fatal         func(msg string)
	log           *slog.Logger
	stats         *monitor.Stats
}

// Option configures a Logger.
type Option func(*options)

// WithName sets the name used in operational messages and metrics.
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithCapacity sets the ring size in records.
func WithCapacity(n int) Option { return func(o *options) { o.capacity = n } }

// WithPollInterval sets the background thread's idle sleep.
func WithPollInterval(d time.Duration) Option { return func(o *options) { o.pollInterval = d } }

// WithDrainInterval sets how often Close re-checks the ring while draining.
func WithDrainInterval(d time.Duration) Option { return func(o *options) { o.drainInterval = d } }

// WithCPU pins the background thread to cpu. Use thread.NoAffinity to leave
// it unpinned.
func WithCPU(cpu int) Option { return func(o *options) { o.cpu = cpu } }

// WithFatalHandler replaces the handler for contract violations in Log. The
// default logs the message and exits the process with status 1.
func WithFatalHandler(fn func(msg string)) Option { return func(o *options) { o.fatal = fn } }

// WithLogger sets the slog logger used for the sink's own messages.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithStats shares a Stats collector with the caller.
func WithStats(s *monitor.Stats) Option { return func(o *options) { o.stats = s } }

// Logger is the async sink. Create it with New and stop it with Close.
type Logger struct {
	name          string
	ch            *ring.Channel[record.Record]
	w             sink.Writer
	pollInterval  time.Duration
	drainInterval time.Duration
	fatal         func(msg string)
	log           *slog.Logger
	stats         *monitor.Stats

	running atomic.Bool
	closing atomic.Bool
	state   atomic.Int32
	bg      *thread.Handle

	closeOnce sync.Once
	closeErr  error

	// consumer-private
	scratch     []byte
	reportedErr bool
}

// New creates a Logger draining into w and starts its background thread.
func New(w sink.Writer, opts ...Option) (*Logger, error) {
	o := options{
		capacity:      DefaultCapacity,
		pollInterval:  DefaultPollInterval,
		drainInterval: DefaultDrainInterval,
		cpu:           thread.NoAffinity,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if w == nil {
		return nil, ErrNilWriter
	}
	if o.capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, o.capacity)
	}
	if o.pollInterval <= 0 || o.drainInterval <= 0 {
		return nil, ErrInvalidInterval
	}
	if o.name == "" {
		o.name = w.Name()
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	o.log = o.log.With("sink", o.name)
	if o.fatal == nil {
		o.fatal = exitFatal(o.log)
	}
	if o.stats == nil {
		o.stats = monitor.NewStats()
	}

	l := &Logger{
		name:          o.name,
		ch:            ring.New[record.Record](o.capacity),
		w:             w,
		pollInterval:  o.pollInterval,
		drainInterval: o.drainInterval,
		fatal:         o.fatal,
		log:           o.log,
		stats:         o.stats,
		scratch:       make([]byte, 0, 64),
	}
	l.running.Store(true)
	l.state.Store(int32(StateRunning))

	bg, err := thread.Spawn("logger/"+o.name, o.cpu, l.drain)
	if err != nil {
		return nil, fmt.Errorf("logger %s: start background thread: %w", o.name, err)
	}
	l.bg = bg
	l.log.Debug("logger started", "capacity", o.capacity, "cpu", o.cpu)
	return l, nil
}

func exitFatal(log *slog.Logger) func(string) {
	return func(msg string) {
		log.Error("fatal", "msg", msg)
		os.Exit(1)
	}
}

// put is the producer fast path shared by every Push method.
func (l *Logger) put(r record.Record) {
	*l.ch.NextWriteSlot() = r
	l.ch.CommitWrite()
}

// accepting reports whether pushes are still taken, counting n rejected
// records if not.
func (l *Logger) accepting(n int) bool {
	if !l.closing.Load() {
		return true
	}
	for i := 0; i < n; i++ {
		l.stats.RecordReject()
	}
	return false
}

// PushRecord enqueues r.
func (l *Logger) PushRecord(r record.Record) {
	if l.accepting(1) {
		l.put(r)
	}
}

func (l *Logger) PushChar(v byte)       { l.PushRecord(record.NewChar(v)) }
func (l *Logger) PushInt32(v int32)     { l.PushRecord(record.NewInt32(v)) }
func (l *Logger) PushInt(v int)         { l.PushRecord(record.NewInt(v)) }
func (l *Logger) PushInt64(v int64)     { l.PushRecord(record.NewInt64(v)) }
func (l *Logger) PushUint32(v uint32)   { l.PushRecord(record.NewUint32(v)) }
func (l *Logger) PushUint(v uint)       { l.PushRecord(record.NewUint(v)) }
func (l *Logger) PushUint64(v uint64)   { l.PushRecord(record.NewUint64(v)) }
func (l *Logger) PushFloat32(v float32) { l.PushRecord(record.NewFloat32(v)) }
func (l *Logger) PushFloat64(v float64) { l.PushRecord(record.NewFloat64(v)) }

// PushString enqueues s as one character record per byte, in order. The
// cost is one ring operation per byte, which suits short log lines.
func (l *Logger) PushString(s string) {
	if l.accepting(len(s)) {
		l.putString(s)
	}
}

// PushBytes is PushString for a byte slice.
func (l *Logger) PushBytes(b []byte) {
	if !l.accepting(len(b)) {
		return
	}
	for _, c := range b {
		l.put(record.NewChar(c))
	}
}

// Len returns the number of records waiting in the ring.
func (l *Logger) Len() int { return l.ch.Len() }

// Name returns the logger name.
func (l *Logger) Name() string { return l.name }

// State returns the current lifecycle stage.
func (l *Logger) State() State { return State(l.state.Load()) }

// Stats returns the shared counters.
func (l *Logger) Stats() *monitor.Stats { return l.stats }

// Snapshot implements monitor.Source.
func (l *Logger) Snapshot() monitor.Snapshot {
	return monitor.Snapshot{
		Name:        l.name,
		Lines:       l.stats.Lines(),
		Matched:     l.stats.Matched(),
		Enqueued:    l.ch.Committed(),
		Overwritten: l.ch.Overwritten(),
		Rejected:    l.stats.Rejected(),
		Written:     l.stats.Written(),
		Bytes:       l.stats.Bytes(),
		Flushes:     l.stats.Flushes(),
		WriteErrors: l.stats.WriteErrors(),
		Depth:       l.ch.Len(),
		Capacity:    l.ch.Cap(),
		Elapsed:     l.stats.Elapsed(),
	}
}
