package gochan

import "github.com/xtaci/gochan/internal/deadline"

// Rendezvous is the unbuffered, hand-off channel: a sender blocks until a
// receiver is visibly present, and the value passes directly from one to
// the other. Unlike Buffered, there is no gaio analogue for a zero-capacity
// primitive, so the state machine below is built directly from the
// invariants a hand-off channel must hold; the close-waits-for-drain step
// is modeled on gaio's WaitIO, which loops waiting on a completion signal
// until every hung-up deliverer has been released.
type Rendezvous[T any] struct {
	*base

	slotSet bool
	slotVal T
}

// NewRendezvous constructs a synchronous channel.
func NewRendezvous[T any]() *Rendezvous[T] {
	c := &Rendezvous[T]{base: newBase()}
	c.hasMessages = func() bool { return c.slotSet }
	// Capacity exists only if a reader is already waiting to take the
	// value: this is the contract that distinguishes rendezvous from a
	// 1-slot buffered channel. Checking slot.empty alone would let a
	// sender deposit with nobody present to receive it.
	c.hasCapacity = func() bool {
		return !c.slotSet && (c.readers > 0 || c.readWait.Len() > 0)
	}
	return c
}

// Send blocks until a receiver takes v or the channel is closed. This
// implementation raises ErrClosed if the channel closes before the
// deposit, for consistency with Buffered.Send, rather than silently
// discarding v (see DESIGN.md for the reasoning behind this choice).
func (c *Rendezvous[T]) Send(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.writers++
	defer func() { c.writers-- }()

	for c.slotSet && !c.closed {
		c.condWrite.Wait()
	}
	if c.closed {
		return ErrClosed
	}

	c.slotVal = v
	c.slotSet = true
	c.notifyReaders()

	// Wait for the value to be consumed. The value is already accepted
	// (no-loss invariant holds from here on regardless of a concurrent
	// close), so this courtesy wait never itself returns ErrClosed.
	for c.slotSet && !c.closed {
		c.condWrite.Wait()
	}
	c.notifyWriters()
	return nil
}

// TrySend deposits v only if a receiver is already parked (try_send
// accepts only if hasCapacity).
func (c *Rendezvous[T]) TrySend(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.hasCapacity() {
		return false
	}
	c.slotVal = v
	c.slotSet = true
	c.notifyReaders()
	return true
}

// TrySendTimeout bounds the wait for a receiver to become present. Once a
// receiver is present and the value deposited, the hand-off is
// considered accepted; TrySendTimeout does not additionally wait for the
// value to actually be taken the way Send does, since "accepted" (the
// contract TrySend/TrySendTimeout promise) is satisfied at deposit.
func (c *Rendezvous[T]) TrySendTimeout(v T, timeoutMs int64) (bool, error) {
	d := deadline.FromMillis(timeoutMs)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, ErrClosed
	}
	if c.hasCapacity() {
		c.slotVal = v
		c.slotSet = true
		c.notifyReaders()
		return true, nil
	}

	c.writers++
	defer func() { c.writers-- }()

	for !c.hasCapacity() && !c.closed {
		if !d.AwaitCond(&c.mu, c.condWrite) {
			return false, nil
		}
	}
	if c.closed {
		return false, ErrClosed
	}
	c.slotVal = v
	c.slotSet = true
	c.notifyReaders()
	return true, nil
}

// Recv blocks until a value is handed off or the channel closes empty.
func (c *Rendezvous[T]) Recv() (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	c.readers++
	defer func() { c.readers-- }()

	if !c.closed && !c.slotSet {
		// Signal once: a producer may already be parked waiting for a
		// reader to become visible (hasCapacity depends on readers/
		// readWait, not just slot state).
		c.notifyWriters()
	}
	for !c.closed && !c.slotSet {
		c.condRead.Wait()
	}
	if c.closed && !c.slotSet {
		return zero, ErrClosed
	}

	v := c.slotVal
	c.slotSet = false
	c.slotVal = zero
	c.notifyWriters()
	return v, nil
}

// TryRecv takes the slot value without blocking, if present.
func (c *Rendezvous[T]) TryRecv() (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.slotSet {
		return zero, false
	}
	v := c.slotVal
	c.slotSet = false
	c.slotVal = zero
	c.notifyWriters()
	return v, true
}

// TryRecvTimeout bounds the wait for a value to be available.
func (c *Rendezvous[T]) TryRecvTimeout(timeoutMs int64) (T, bool, error) {
	var zero T
	d := deadline.FromMillis(timeoutMs)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.slotSet {
		v := c.slotVal
		c.slotSet = false
		c.slotVal = zero
		c.notifyWriters()
		return v, true, nil
	}
	if c.closed {
		return zero, false, ErrClosed
	}

	c.readers++
	defer func() { c.readers-- }()

	c.notifyWriters()
	for !c.closed && !c.slotSet {
		if !d.AwaitCond(&c.mu, c.condRead) {
			return zero, false, nil
		}
	}
	if c.closed && !c.slotSet {
		return zero, false, ErrClosed
	}
	v := c.slotVal
	c.slotSet = false
	c.slotVal = zero
	c.notifyWriters()
	return v, true, nil
}

// Close flips closed, wakes every direct waiter and select token, then
// waits for any already-deposited value to be consumed before returning:
// after close, any value that had been deposited beforehand must still be
// received. The wait counts itself as a writer so a subsequent Recv's
// notifyWriters reaches it via the counted-signal path rather than only
// the select-token rotation path (the notify policy distinguishes the two;
// close must be visible as a parked party on cond_write for the signal to
// be routed to it rather than to an unrelated registered select token).
func (c *Rendezvous[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.releaseAllWaitersLocked()
	c.condRead.Broadcast()
	c.condWrite.Broadcast()

	c.writers++
	defer func() { c.writers-- }()
	for c.slotSet {
		c.condWrite.Wait()
	}
	return nil
}

// IsClosed reports true once closed with no deposited value pending.
func (c *Rendezvous[T]) IsClosed() bool {
	return c.base.isClosed()
}

// ForEach repeatedly receives and applies f until the channel closes.
func (c *Rendezvous[T]) ForEach(f func(T)) {
	for {
		v, err := c.Recv()
		if err != nil {
			return
		}
		f(v)
	}
}

// ForNew applies f once iff a value is immediately available.
func (c *Rendezvous[T]) ForNew(f func(T)) {
	if v, ok := c.TryRecv(); ok {
		f(v)
	}
}

// Sender builds a send-candidate Selector.
func (c *Rendezvous[T]) Sender(v T, action func()) Selector {
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

// Receiver builds a recv-candidate Selector.
func (c *Rendezvous[T]) Receiver(action func(T)) Selector {
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
