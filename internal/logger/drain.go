package logger

import (
	"time"
)

// drain is the background thread body. It writes every available record,
// then flushes and sleeps for pollInterval when the ring runs dry. After
// running is cleared it makes one last pass so nothing committed before
// shutdown is left behind.
func (l *Logger) drain() {
	for l.running.Load() {
		if l.drainAvailable() == 0 {
			l.flush()
			time.Sleep(l.pollInterval)
		}
	}
	l.drainAvailable()
	l.flush()
}

// drainAvailable writes records until the ring is empty and returns how many
// it wrote.
func (l *Logger) drainAvailable() int {
	n := 0
	for r := l.ch.TryPeek(); r != nil; r = l.ch.TryPeek() {
		l.scratch = r.AppendTo(l.scratch[:0])
		l.write(l.scratch)
		l.ch.CommitRead()
		n++
	}
	return n
}

func (l *Logger) write(p []byte) {
	if _, err := l.w.Write(p); err != nil {
		l.stats.RecordWriteError()
		l.reportOnce("write failed", err)
		return
	}
	l.stats.RecordWrite(len(p))
}

func (l *Logger) flush() {
	if err := l.w.Flush(); err != nil {
		l.stats.RecordWriteError()
		l.reportOnce("flush failed", err)
		return
	}
	l.stats.RecordFlush()
}

// reportOnce logs the first writer error. Later ones are only counted.
func (l *Logger) reportOnce(msg string, err error) {
	if l.reportedErr {
		return
	}
	l.reportedErr = true
	l.log.Error(msg, "writer", l.w.Name(), "err", err)
}

// Close shuts the logger down: new pushes are rejected, the ring is drained,
// the background thread is stopped and joined, and the writer is flushed and
// closed. Records already in the ring when Close is called are all written
// before it returns. Close is safe to call more than once.
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		l.log.Info("flushing and closing logger", "pending", l.ch.Len())
		l.closing.Store(true)
		l.state.Store(int32(StateDraining))

		for l.ch.Len() > 0 {
			time.Sleep(l.drainInterval)
		}

		l.running.Store(false)
		l.bg.Join()
		l.state.Store(int32(StateStopped))

		// The background thread has exited, so the writer is ours now.
		if err := l.w.Close(); err != nil {
			l.closeErr = err
			l.log.Error("close writer failed", "writer", l.w.Name(), "err", err)
			return
		}
		l.log.Info("logger exiting", "written", l.stats.Written(), "overwritten", l.ch.Overwritten())
	})
	return l.closeErr
}
