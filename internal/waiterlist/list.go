// Package waiterlist implements the ordered waiter queue used by channels
// to track notification tokens belonging to select callers currently
// parked on a reader or writer side.
//
// The queue is a thin wrapper around container/list, the same structure
// gaio's watcher uses per file descriptor (fdDesc.readers / fdDesc.writers)
// to track pending async-IO requests. Callers normally hold the owning
// channel's lock while calling any method here, so the internal mutex below
// is uncontended on the hot path; it exists only so Snapshot can be called
// safely from a goroutine that does not hold the channel's lock, which
// tests that inspect queue contents concurrently rely on.
package waiterlist

import (
	"container/list"
	"sync"
)

// Token is the minimal identity contract a waiter queue entry must satisfy.
// Channels store gochan's unexported *token values here; the interface
// avoids an import cycle between waiterlist and package gochan.
type Token interface{}

// List is an ordered queue of tokens, supporting append, identity-remove,
// and rotate-head (the select engine's round-robin fairness primitive).
type List struct {
	mu sync.RWMutex
	l  list.List
}

// Append adds tok to the tail of the queue and returns the element handle,
// which a caller may keep so Remove can be O(1). The channels discard it
// and use RemoveByIdentity instead.
func (q *List) Append(tok Token) *list.Element {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.l.PushBack(tok)
}

// Remove deletes the given element if present. No-op if e is nil or
// already removed; mirrors gaio's releaseConn, which removes list/heap
// entries defensively without checking prior membership.
func (q *List) Remove(e *list.Element) {
	if e == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.l.Remove(e)
}

// RemoveByIdentity removes the first element whose value equals tok by
// identity (==). No-op if absent. Provided for callers that did not retain
// the *list.Element handle.
func (q *List) RemoveByIdentity(tok Token) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for e := q.l.Front(); e != nil; e = e.Next() {
		if e.Value == tok {
			q.l.Remove(e)
			return
		}
	}
}

// Head returns the first token in the queue, or nil (zero Token) if empty.
func (q *List) Head() (Token, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	e := q.l.Front()
	if e == nil {
		return nil, false
	}
	return e.Value.(Token), true
}

// RotateHeadAndReturn removes the head element and appends it to the tail,
// returning the token that was at the head. This is the round-robin
// fairness step notify_readers/notify_writers use to wake the longest-
// waiting select caller's token while still letting it be found again on a
// future rotation should it not yet be satisfiable.
func (q *List) RotateHeadAndReturn() (Token, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.l.Front()
	if e == nil {
		return nil, false
	}
	q.l.Remove(e)
	q.l.PushBack(e.Value)
	return e.Value.(Token), true
}

// ForEach applies f to every token in queue order. f must not mutate the
// queue.
func (q *List) ForEach(f func(Token)) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for e := q.l.Front(); e != nil; e = e.Next() {
		f(e.Value.(Token))
	}
}

// Clear empties the queue.
func (q *List) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.l.Init()
}

// Len reports the number of queued tokens.
func (q *List) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.l.Len()
}

// Snapshot returns a copy of the queued tokens in order. Production code
// never calls it; it exists for tests that inspect queue contents from a
// goroutine other than the one holding the owning channel's lock.
func (q *List) Snapshot() []Token {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Token, 0, q.l.Len())
	for e := q.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Token))
	}
	return out
}
