package gochan

import (
	"context"
	"math/rand/v2"

	"github.com/xtaci/gochan/internal/deadline"
)

// Select blocks, possibly indefinitely, until one candidate operation
// completes, or until some candidate's channel is observed closed without
// yielding a value. ctx additionally bounds the wait the way a caller's
// own cancellation would (Go's substitute for thread interruption); pass
// context.Background() for a wait bounded only by the candidates
// themselves.
func Select(ctx context.Context, cands ...Selector) (bool, error) {
	return selectImpl(ctx, deadline.Unlimited(), cands)
}

// TrySelect attempts every candidate once, non-blockingly, equivalent to
// TrySelectTimeout(ctx, 0, cands...).
func TrySelect(ctx context.Context, cands ...Selector) (bool, error) {
	return selectImpl(ctx, deadline.FromMillis(0), cands)
}

// TrySelectTimeout bounds the wait by timeoutMs, using the same special
// values as the rest of the package: 0 is non-blocking, deadline.Max
// blocks indefinitely.
func TrySelectTimeout(ctx context.Context, timeoutMs int64, cands ...Selector) (bool, error) {
	return selectImpl(ctx, deadline.FromMillis(timeoutMs), cands)
}

// selectImpl drives the select engine in order: allocate a token, shuffle
// for fairness, attempt a registration+fast-path pass, then loop
// re-scanning and waiting on the token until something fires, the deadline
// elapses, or a candidate's channel is observed closed.
func selectImpl(ctx context.Context, d deadline.Deadline, cands []Selector) (bool, error) {
	if len(cands) == 0 {
		return false, nil
	}

	tok := newToken()
	defer tok.put()

	// Cleanup invariant: on every exit path the token must be absent from
	// every waiter queue it was added to. unregister is idempotent and a
	// no-op for channels that never registered it, so a single deferred
	// sweep over every original candidate satisfies this unconditionally,
	// covering success, timeout, a closed candidate, and ctx cancellation
	// alike.
	defer func() {
		for _, c := range cands {
			c.unregister(tok)
		}
	}()

	shuffled := make([]Selector, len(cands))
	copy(shuffled, cands)
	shuffleSelectors(shuffled)

	// Registration + fast path.
	for _, c := range shuffled {
		if c.register(tok) {
			continue
		}
		// Registration refused: the channel is already satisfiable or
		// closed. Attempt the operation directly; a refusal here just
		// means we lost a race (e.g. another select or direct caller
		// took it first), so move on to the next candidate rather than
		// treating it as fatal.
		if c.tryOnce() {
			return true, nil
		}
	}

	// Wait loop.
	for {
		for _, c := range shuffled {
			switch c.status() {
			case statusAvailable:
				if c.tryOnce() {
					return true, nil
				}
			case statusClosed:
				return false, nil
			case statusNotAvailable:
				// keep scanning
			}
		}

		ok, err := d.Await(ctx, tok)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		// Woken: loop back and re-scan. A wakeup does not identify which
		// candidate fired, and spurious wakeups are possible (the same
		// token may have been released more than once, or the candidate
		// that released it may have already been served by someone
		// else), so the caller always re-validates via status()/tryOnce
		// rather than assuming success.
	}
}

// shuffleSelectors performs the uniform random shuffle that is the sole
// source of fairness across simultaneously-ready channels: it need not be
// cryptographically strong, only statistically uniform. math/rand/v2's
// default source is used rather than a third-party PRNG (see DESIGN.md).
func shuffleSelectors(s []Selector) {
	rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
