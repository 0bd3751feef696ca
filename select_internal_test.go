package gochan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSelectImpl_CleanupInvariant checks that a timed-out select leaves no
// trace of its token on any candidate's waiter queue, regardless of outcome.
func TestSelectImpl_CleanupInvariant(t *testing.T) {
	a, err := NewBuffered[int](1)
	require.NoError(t, err)
	b, err := NewBuffered[int](1)
	require.NoError(t, err)

	ok, err := TrySelectTimeout(context.Background(), 20,
		a.Receiver(func(int) {}),
		b.Receiver(func(int) {}),
	)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 0, a.readWait.Len())
	assert.Equal(t, 0, b.readWait.Len())
}

// TestSelectImpl_CleanupInvariant_OnSuccess checks the same invariant when
// one candidate fires instead of timing out: both candidates register
// before the delayed send arrives, the winner is served from the wait loop
// after its release wakes the token, and both registrations must still be
// torn down.
func TestSelectImpl_CleanupInvariant_OnSuccess(t *testing.T) {
	a, err := NewBuffered[int](1)
	require.NoError(t, err)
	b, err := NewBuffered[int](1)
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		a.Send(1)
	}()

	ok, err := Select(context.Background(),
		a.Receiver(func(int) {}),
		b.Receiver(func(int) {}),
	)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 0, a.readWait.Len())
	assert.Equal(t, 0, b.readWait.Len())
}

// TestSelectImpl_CleanupInvariant_ClosedCandidate checks the invariant when
// the wait loop exits early because a candidate is observed closed.
func TestSelectImpl_CleanupInvariant_ClosedCandidate(t *testing.T) {
	a, err := NewBuffered[int](1)
	require.NoError(t, err)
	b, err := NewBuffered[int](1)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	ok, err := Select(context.Background(),
		a.Receiver(func(int) {}),
		b.Receiver(func(int) {}),
	)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 0, a.readWait.Len())
	assert.Equal(t, 0, b.readWait.Len())
}
