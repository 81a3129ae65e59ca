// Package thread runs long-lived background bodies on dedicated OS threads,
// optionally pinned to one CPU.
package thread

import (
	"fmt"
	"runtime"
)

// NoAffinity leaves the thread free to run on any CPU.
const NoAffinity = -1

// Handle refers to a spawned thread.
type Handle struct {
	name string
	cpu  int
	done chan struct{}
}

// Spawn starts fn on a goroutine locked to its own OS thread. If cpu is not
// NoAffinity the thread is pinned to that CPU first. Spawn returns once the
// thread is running; if pinning fails fn never runs and the error is
// returned.
func Spawn(name string, cpu int, fn func()) (*Handle, error) {
	h := &Handle{
		name: name,
		cpu:  cpu,
		done: make(chan struct{}),
	}
	started := make(chan error, 1)

	go func() {
		defer close(h.done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if cpu != NoAffinity {
			if err := setAffinity(cpu); err != nil {
				started <- err
				return
			}
		}
		started <- nil
		fn()
	}()

	if err := <-started; err != nil {
		<-h.done
		return nil, fmt.Errorf("thread %s: pin to cpu %d: %w", name, cpu, err)
	}
	return h, nil
}

// Join blocks until the thread body returns. It is safe to call more than
// once and from several goroutines.
func (h *Handle) Join() {
	<-h.done
}

// Done is closed when the thread body returns.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Name returns the name given at Spawn.
func (h *Handle) Name() string { return h.name }

// CPU returns the pinned CPU, or NoAffinity.
func (h *Handle) CPU() int { return h.cpu }
