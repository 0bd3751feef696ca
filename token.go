package gochan

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// tokenCapacity bounds how many unconsumed release() calls a single token
// can accumulate before being acquired. rotate-head's notify policy
// deliberately leaves a released token in its waiter queue rather than
// removing it, so the same token can legitimately be released many times
// over the life of one select call before the engine gets around to
// acquiring it. A plain binary semaphore (weight 1) would panic on the
// second unmatched release ("released more than held"); sizing the
// semaphore generously avoids that without changing the observable
// behavior of a counting semaphore with initial count zero.
const tokenCapacity = 1 << 20

// token is the notification token a select caller uses to be woken by any
// of the channels it has registered with. Tokens are identity-compared
// when removed from a waiter queue, so *token is used as the
// waiterlist.Token value directly.
type token struct {
	sem *semaphore.Weighted
}

// tokenPool recycles token shells across select calls, the same way gaio
// recycles its per-request aiocb through aiocbPool. The semaphore itself is
// always replaced on checkout rather than reset in place, since resetting
// a Weighted to a known "fully armed" count from an arbitrary prior state
// would need the same bookkeeping as just allocating a fresh one.
var tokenPool = sync.Pool{
	New: func() any {
		return &token{}
	},
}

// newToken returns a token armed at count 0: the first acquire blocks
// until a matching release.
func newToken() *token {
	t := tokenPool.Get().(*token)
	t.sem = semaphore.NewWeighted(tokenCapacity)
	t.sem.TryAcquire(tokenCapacity) // consume full capacity: armed/blocking
	return t
}

// release wakes one pending (or future) acquire. Each call comes from a
// channel notifying the side the token is registered on (or closing); the
// same channel may release the same token many times, and repeated releases simply
// accumulate as repeated wakeups, which the select engine's re-scan loop
// already tolerates (a wakeup with nothing to do just re-scans and waits
// again).
func (t *token) release() {
	t.sem.Release(1)
}

// Acquire blocks until release or ctx cancellation/deadline. Exported-style
// name so *token satisfies internal/deadline.Waiter; token itself stays
// unexported, so this adds no public surface to the package.
func (t *token) Acquire(ctx context.Context) error {
	return t.sem.Acquire(ctx, 1)
}

// put returns the token to the pool. Callers must not use t afterwards.
func (t *token) put() {
	tokenPool.Put(t)
}
