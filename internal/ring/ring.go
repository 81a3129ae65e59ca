// Package ring provides the lock-free hand-off channel between a log producer
// and the background writer.
package ring

import (
	"sync/atomic"
)

// claimed marks the oldest slot as being read by the consumer. It is kept in
// the low bit of head so the claim and the read cursor move together.
const claimed = 1

// Channel is a fixed-capacity circular buffer for exactly one producer and one
// consumer. When full, committing a new value evicts the oldest unread one;
// the producer never blocks and never fails.
//
// Cursors are monotonically increasing sequence numbers. Slot i holds the
// value with sequence s where s%capacity == i. Occupancy is tail-head and
// always stays within [0, capacity].
type Channel[T any] struct {
	slots    []T
	capacity uint64

	_ [56]byte
	// tail is the next sequence to publish. Written by the producer only.
	tail atomic.Uint64
	_    [56]byte
	// head is the oldest unread sequence shifted left by one, with the
	// claimed bit set while the consumer holds that slot.
	head atomic.Uint64
	_    [56]byte

	// producer-private
	scratch T
	discard bool

	overwritten atomic.Uint64
}

// New allocates a channel with capacity slots. It panics if capacity <= 0.
func New[T any](capacity int) *Channel[T] {
	if capacity <= 0 {
		panic("ring: capacity must be > 0")
	}
	return &Channel[T]{
		slots:    make([]T, capacity),
		capacity: uint64(capacity),
	}
}

// NextWriteSlot returns the slot the next CommitWrite will publish. The caller
// fills it in place before committing.
//
// If the channel is full the oldest unread value is evicted here. If that
// value is currently claimed by the consumer the returned slot is a private
// scratch slot and the value written into it is discarded on commit.
func (c *Channel[T]) NextWriteSlot() *T {
	t := c.tail.Load()
	for {
		hv := c.head.Load()
		h := hv >> 1
		if t-h < c.capacity {
			c.discard = false
			return &c.slots[t%c.capacity]
		}
		if hv&claimed != 0 {
			c.discard = true
			var zero T
			c.scratch = zero
			return &c.scratch
		}
		// Full and unclaimed: take the oldest away from the consumer. The CAS
		// only fails if the consumer claimed or released it meanwhile.
		if c.head.CompareAndSwap(hv, (h+1)<<1) {
			c.overwritten.Add(1)
			c.discard = false
			return &c.slots[t%c.capacity]
		}
	}
}

// CommitWrite publishes the slot returned by the last NextWriteSlot.
func (c *Channel[T]) CommitWrite() {
	if c.discard {
		c.discard = false
		c.overwritten.Add(1)
		return
	}
	c.tail.Store(c.tail.Load() + 1)
}

// TryPeek returns the oldest unread slot, or nil if the channel is empty.
// The slot stays valid until CommitRead. Calling TryPeek again before
// CommitRead returns the same slot.
func (c *Channel[T]) TryPeek() *T {
	for {
		hv := c.head.Load()
		h := hv >> 1
		if hv&claimed != 0 {
			return &c.slots[h%c.capacity]
		}
		if h == c.tail.Load() {
			return nil
		}
		if c.head.CompareAndSwap(hv, hv|claimed) {
			return &c.slots[h%c.capacity]
		}
	}
}

// CommitRead releases the oldest slot back to the producer. Committing a read
// on an empty channel means producer and consumer are out of step, and it
// panics.
func (c *Channel[T]) CommitRead() {
	if c.TryPeek() == nil {
		panic("ring: commit read on empty channel")
	}
	// The slot is claimed, so the producer leaves head alone until this store.
	h := c.head.Load() >> 1
	c.head.Store((h + 1) << 1)
}

// Len returns the number of unread values. It is advisory: either side may
// have moved by the time the caller acts on it.
func (c *Channel[T]) Len() int {
	h := c.head.Load() >> 1
	n := c.tail.Load() - h
	if n > c.capacity {
		n = c.capacity
	}
	return int(n)
}

// Cap returns the fixed number of slots.
func (c *Channel[T]) Cap() int {
	return int(c.capacity)
}

// WriteCursor returns the slot index the producer will fill next.
func (c *Channel[T]) WriteCursor() int {
	return int(c.tail.Load() % c.capacity)
}

// ReadCursor returns the slot index the consumer will read next.
func (c *Channel[T]) ReadCursor() int {
	return int((c.head.Load() >> 1) % c.capacity)
}

// Committed returns the total number of values published since creation.
func (c *Channel[T]) Committed() uint64 {
	return c.tail.Load()
}

// Overwritten returns the number of values lost to overflow, either evicted
// unread or discarded because the oldest slot was being read.
func (c *Channel[T]) Overwritten() uint64 {
	return c.overwritten.Load()
}
