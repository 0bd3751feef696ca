// Package gochan reproduces the semantics of CSP-style channels and
// multi-way select on top of mutexes, condition variables, and a counting
// semaphore, the way gaio (github.com/xtaci/gaio) builds an async-IO
// watcher on top of the same primitives: one lock guards a small set of
// counters and per-side waiter queues, and a notify-on-state-change policy
// wakes exactly the parties that can make progress.
package gochan

import (
	"sync"

	"github.com/xtaci/gochan/internal/waiterlist"
)

// status is the three-way result a channel reports for a given side
// (readable/writable), used by the select engine's re-scan.
type status int

const (
	statusNotAvailable status = iota
	statusAvailable
	statusClosed
)

// base holds everything shared between the rendezvous and buffered channel
// variants: the lock, the reader/writer counters, their waiter queues, the
// closed flag, and the two condition variables. It is
// deliberately non-generic — Buffered[T] and Rendezvous[T] hold the typed
// storage (ring buffer / single slot) themselves and wire two closures,
// hasMessages and hasCapacity, so base can implement every shared
// operation (notify, register/unregister, status) without knowing T.
//
// This mirrors how gaio's watcher keeps one set of shared bookkeeping
// (pendingMutex, the descs map, the timeouts heap) while tryRead/tryWrite
// hold the operation-specific logic.
type base struct {
	mu sync.Mutex

	condRead  *sync.Cond
	condWrite *sync.Cond

	closed  bool
	readers int
	writers int

	readWait  waiterlist.List
	writeWait waiterlist.List

	// hasMessages/hasCapacity are supplied by the embedding concrete
	// channel type and must only be called with mu held.
	hasMessages func() bool
	hasCapacity func() bool
}

func newBase() *base {
	b := &base{}
	b.condRead = sync.NewCond(&b.mu)
	b.condWrite = sync.NewCond(&b.mu)
	return b
}

// notifyReaders implements the wake-up policy for the read side: signal one
// direct waiter if any is parked, else rotate-release one registered select
// token.
func (b *base) notifyReaders() {
	if b.readers > 0 {
		b.condRead.Signal()
		return
	}
	if tok, ok := b.readWait.RotateHeadAndReturn(); ok {
		tok.(*token).release()
	}
}

// notifyWriters is the write-side mirror of notifyReaders.
func (b *base) notifyWriters() {
	if b.writers > 0 {
		b.condWrite.Signal()
		return
	}
	if tok, ok := b.writeWait.RotateHeadAndReturn(); ok {
		tok.(*token).release()
	}
}

// registerReaderWaiter atomically registers tok as a candidate reader: if
// the channel is closed or already satisfiable for a reader, registration
// is refused (the caller should attempt the op directly instead);
// otherwise the token is appended and registration succeeds. The select
// engine identifies tokens by identity rather than by list.Element handle,
// so registration need not return one: unregister removes by identity,
// which also makes it idempotent regardless of rotation.
func (b *base) registerReaderWaiter(tok *token) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.hasMessages() {
		return false
	}
	b.readWait.Append(tok)
	return true
}

func (b *base) registerWriterWaiter(tok *token) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.hasCapacity() {
		return false
	}
	b.writeWait.Append(tok)
	return true
}

// unregisterReaderWaiter/unregisterWriterWaiter remove tok by identity,
// idempotently: a channel that never held the token simply no-ops, and a
// token already rotated/released is still found and removed by identity
// regardless of its position in the queue.
func (b *base) unregisterReaderWaiter(tok *token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readWait.RemoveByIdentity(tok)
}

func (b *base) unregisterWriterWaiter(tok *token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeWait.RemoveByIdentity(tok)
}

// hasMessagesStatus/hasFreeCapacityStatus report the three-valued status
// used by select's re-scan.
func (b *base) hasMessagesStatus() status {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasMessages() {
		return statusAvailable
	}
	if b.closed {
		return statusClosed
	}
	return statusNotAvailable
}

func (b *base) hasFreeCapacityStatus() status {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasCapacity() {
		return statusAvailable
	}
	if b.closed {
		return statusClosed
	}
	return statusNotAvailable
}

// isClosed reports true iff closed and no further value is retrievable.
// Both channel variants define "retrievable" the same way, via
// hasMessages, so the check is shared here.
func (b *base) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed && !b.hasMessages()
}

// releaseAllWaitersLocked wakes every select token registered on either
// side of the channel; used by close, which must release every registered
// select token. Must be called with mu held.
func (b *base) releaseAllWaitersLocked() {
	b.readWait.ForEach(func(t waiterlist.Token) { t.(*token).release() })
	b.writeWait.ForEach(func(t waiterlist.Token) { t.(*token).release() })
	b.readWait.Clear()
	b.writeWait.Clear()
}
