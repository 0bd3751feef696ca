// Package deadline implements the bounded-or-unbounded wait helper used by
// the timed channel operations (TrySendTimeout/TryRecvTimeout) and by the
// select engine's token wait. The untimed Send/Recv wait on their condition
// variables directly.
//
// It generalizes the single shared timer gaio's watcher drives off its
// timedHeap (one time.Timer reset to the nearest pending deadline, serviced
// by the watcher's single event-loop goroutine) into a per-call primitive:
// this library has no event loop of its own, every channel method runs on
// whichever caller goroutine invoked it, so each blocking call owns its own
// deadline instead of sharing one through a central reaper.
package deadline

import (
	"context"
	"sync"
	"time"
)

// Waiter is the minimal contract deadline.Await needs from a notification
// token: a blocking Acquire cancelable via context.
type Waiter interface {
	Acquire(ctx context.Context) error
}

// Max is the distinguished "maximum" timeout value every timed channel
// operation accepts, treated as unlimited.
const Max int64 = -1

// Deadline encapsulates an optional absolute deadline computed once, at
// construction time, against an internal start time.
type Deadline struct {
	unlimited bool
	immediate bool // budget was exactly 0: fail fast, no wait at all
	at        time.Time
}

// Unlimited returns a Deadline that waits forever.
func Unlimited() Deadline {
	return Deadline{unlimited: true}
}

// FromMillis builds a Deadline from a millisecond budget using the same
// special timeout values the public API exposes: ms == Max is unlimited,
// any other ms <= 0 is non-blocking, and a positive ms bounds the wait
// starting now.
func FromMillis(ms int64) Deadline {
	switch {
	case ms == Max:
		return Unlimited()
	case ms <= 0:
		return Deadline{immediate: true}
	default:
		return Deadline{at: time.Now().Add(time.Duration(ms) * time.Millisecond)}
	}
}

// Await performs the bounded or unbounded wait on tok, reporting whether
// the token was acquired before the deadline elapsed. It never re-checks
// the caller's predicate; callers loop around spurious wakeups themselves.
func (d Deadline) Await(ctx context.Context, tok Waiter) (bool, error) {
	if d.immediate {
		return false, nil
	}
	if d.unlimited {
		if err := tok.Acquire(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	waitCtx, cancel := context.WithDeadline(ctx, d.at)
	defer cancel()
	err := tok.Acquire(waitCtx)
	switch {
	case err == nil:
		return true, nil
	case waitCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil:
		return false, nil
	default:
		return false, err
	}
}

// AwaitCond performs the same bounded-or-unbounded wait directly on a
// sync.Cond, for the direct (non-select) send/recv timeout variants, whose
// underlying wait is a condition variable rather than a semaphore token.
// The caller must already hold the lock backing cond. AwaitCond never
// re-checks the caller's predicate, exactly like Await; callers loop
// around spurious wakeups themselves.
func (d Deadline) AwaitCond(mu *sync.Mutex, cond *sync.Cond) bool {
	if d.immediate {
		return false
	}
	if d.unlimited {
		cond.Wait()
		return true
	}

	remaining := time.Until(d.at)
	if remaining <= 0 {
		return false
	}

	timer := time.AfterFunc(remaining, func() {
		mu.Lock()
		cond.Broadcast()
		mu.Unlock()
	})
	defer timer.Stop()

	cond.Wait()
	return time.Now().Before(d.at)
}
