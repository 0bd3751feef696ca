package deadline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

type semWaiter struct {
	sem *semaphore.Weighted
}

func newSemWaiter() *semWaiter {
	s := &semWaiter{sem: semaphore.NewWeighted(1)}
	s.sem.TryAcquire(1)
	return s
}

func (w *semWaiter) Acquire(ctx context.Context) error {
	return w.sem.Acquire(ctx, 1)
}

func (w *semWaiter) release() {
	w.sem.Release(1)
}

func TestDeadline_Await_Immediate(t *testing.T) {
	w := newSemWaiter()
	ok, err := FromMillis(0).Await(context.Background(), w)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeadline_Await_Unlimited(t *testing.T) {
	w := newSemWaiter()
	go func() {
		time.Sleep(10 * time.Millisecond)
		w.release()
	}()
	ok, err := Unlimited().Await(context.Background(), w)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeadline_Await_FiniteSucceeds(t *testing.T) {
	w := newSemWaiter()
	go func() {
		time.Sleep(5 * time.Millisecond)
		w.release()
	}()
	ok, err := FromMillis(200).Await(context.Background(), w)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeadline_Await_FiniteElapses(t *testing.T) {
	w := newSemWaiter()
	ok, err := FromMillis(20).Await(context.Background(), w)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeadline_Await_Max(t *testing.T) {
	w := newSemWaiter()
	go func() {
		time.Sleep(5 * time.Millisecond)
		w.release()
	}()
	ok, err := FromMillis(Max).Await(context.Background(), w)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeadline_AwaitCond_Immediate(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, FromMillis(0).AwaitCond(&mu, cond))
}

func TestDeadline_AwaitCond_Unlimited(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	go func() {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		cond.Broadcast()
		mu.Unlock()
	}()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, Unlimited().AwaitCond(&mu, cond))
}

func TestDeadline_AwaitCond_FiniteElapses(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, FromMillis(20).AwaitCond(&mu, cond))
}

func TestDeadline_AwaitCond_FiniteSucceeds(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	go func() {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		cond.Broadcast()
		mu.Unlock()
	}()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, FromMillis(500).AwaitCond(&mu, cond))
}
