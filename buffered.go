package gochan

import (
	"container/ring"

	"github.com/xtaci/gochan/internal/deadline"
)

// Buffered is the bounded, FIFO async channel. Storage is a fixed-size
// container/ring rather than container/list: gaio reaches for
// container/list only where entries are added and removed from arbitrary
// positions (its per-fd readers/writers request queues); a fixed-capacity
// FIFO slot ring has no such need, and container/ring is stdlib's
// purpose-built circular buffer (see DESIGN.md for why no third-party
// queue fit better).
type Buffered[T any] struct {
	*base

	head     *ring.Ring // oldest occupied slot, next to dequeue
	tail     *ring.Ring // next free slot, next to enqueue into
	count    int
	capacity int
}

// NewBuffered constructs a bounded channel of the given capacity. capacity
// must be >= 1; the top-level Make constructor routes capacity == 0 to a
// Rendezvous channel instead.
func NewBuffered[T any](capacity int) (*Buffered[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidArgument
	}
	slots := ring.New(capacity)
	c := &Buffered[T]{
		base:     newBase(),
		head:     slots,
		tail:     slots,
		capacity: capacity,
	}
	c.hasMessages = func() bool { return c.count > 0 }
	c.hasCapacity = func() bool { return c.count < c.capacity }
	return c, nil
}

// enqueue appends v to the ring; caller must hold mu and must have already
// checked hasCapacity.
func (c *Buffered[T]) enqueue(v T) {
	c.tail.Value = v
	c.tail = c.tail.Next()
	c.count++
}

// dequeue pops the oldest value; caller must hold mu and must have already
// checked hasMessages.
func (c *Buffered[T]) dequeue() T {
	v := c.head.Value.(T)
	c.head.Value = nil
	c.head = c.head.Next()
	c.count--
	return v
}

// Send blocks until v is accepted or the channel is closed.
func (c *Buffered[T]) Send(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.writers++
	defer func() { c.writers-- }()

	for c.count == c.capacity && !c.closed {
		c.condWrite.Wait()
	}
	if c.closed {
		return ErrClosed
	}
	c.enqueue(v)
	c.notifyReaders()
	return nil
}

// TrySend attempts to enqueue v without blocking.
func (c *Buffered[T]) TrySend(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.count == c.capacity {
		return false
	}
	c.enqueue(v)
	c.notifyReaders()
	return true
}

// TrySendTimeout bounds the wait for free capacity by timeoutMs: 0 is
// non-blocking, deadline.Max blocks indefinitely (equivalent to Send
// except it reports ErrClosed the same way), otherwise the wait is bounded.
func (c *Buffered[T]) TrySendTimeout(v T, timeoutMs int64) (bool, error) {
	d := deadline.FromMillis(timeoutMs)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, ErrClosed
	}
	if c.count < c.capacity {
		c.enqueue(v)
		c.notifyReaders()
		return true, nil
	}

	c.writers++
	defer func() { c.writers-- }()

	for c.count == c.capacity && !c.closed {
		if !d.AwaitCond(&c.mu, c.condWrite) {
			return false, nil
		}
	}
	if c.closed {
		return false, ErrClosed
	}
	c.enqueue(v)
	c.notifyReaders()
	return true, nil
}

// Recv blocks until a value is available or the channel is closed and
// drained.
func (c *Buffered[T]) Recv() (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	c.readers++
	defer func() { c.readers-- }()

	for c.count == 0 && !c.closed {
		c.condRead.Wait()
	}
	if c.count == 0 {
		return zero, ErrClosed
	}
	v := c.dequeue()
	c.notifyWriters()
	return v, nil
}

// TryRecv attempts to dequeue a value without blocking.
func (c *Buffered[T]) TryRecv() (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == 0 {
		return zero, false
	}
	v := c.dequeue()
	c.notifyWriters()
	return v, true
}

// TryRecvTimeout bounds the wait for an available value by timeoutMs.
func (c *Buffered[T]) TryRecvTimeout(timeoutMs int64) (T, bool, error) {
	var zero T
	d := deadline.FromMillis(timeoutMs)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count > 0 {
		v := c.dequeue()
		c.notifyWriters()
		return v, true, nil
	}
	if c.closed {
		return zero, false, ErrClosed
	}

	c.readers++
	defer func() { c.readers-- }()

	for c.count == 0 && !c.closed {
		if !d.AwaitCond(&c.mu, c.condRead) {
			return zero, false, nil
		}
	}
	if c.count == 0 {
		return zero, false, ErrClosed
	}
	v := c.dequeue()
	c.notifyWriters()
	return v, true, nil
}

// Close idempotently closes the channel: flips closed, wakes every direct
// waiter, and releases every registered select token. Queued values remain
// deliverable; IsClosed returns false until the queue is drained.
func (c *Buffered[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.releaseAllWaitersLocked()
	c.condRead.Broadcast()
	c.condWrite.Broadcast()
	return nil
}

// IsClosed reports true once closed and drained.
func (c *Buffered[T]) IsClosed() bool {
	return c.base.isClosed()
}

// ForEach repeatedly receives and applies f, terminating cleanly once the
// channel is closed and drained.
func (c *Buffered[T]) ForEach(f func(T)) {
	for {
		v, err := c.Recv()
		if err != nil {
			return
		}
		f(v)
	}
}

// ForNew applies f once iff a value is immediately available.
func (c *Buffered[T]) ForNew(f func(T)) {
	if v, ok := c.TryRecv(); ok {
		f(v)
	}
}

// Sender builds a send-candidate Selector for use with Select/TrySelect.
func (c *Buffered[T]) Sender(v T, action func()) Selector {
	return Selector{
		kind:       selSend,
		register:   c.registerWriterWaiter,
		unregister: c.unregisterWriterWaiter,
		status:     c.hasFreeCapacityStatus,
		tryOnce: func() bool {
			if !c.TrySend(v) {
				return false
			}
			if action != nil {
				action()
			}
			return true
		},
	}
}

// Receiver builds a recv-candidate Selector for use with Select/TrySelect.
func (c *Buffered[T]) Receiver(action func(T)) Selector {
	return Selector{
		kind:       selRecv,
		register:   c.registerReaderWaiter,
		unregister: c.unregisterReaderWaiter,
		status:     c.hasMessagesStatus,
		tryOnce: func() bool {
			v, ok := c.TryRecv()
			if !ok {
				return false
			}
			if action != nil {
				action(v)
			}
			return true
		},
	}
}
