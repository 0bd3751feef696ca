package waiterlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_AppendAndHead(t *testing.T) {
	var l List
	assert.Equal(t, 0, l.Len())
	_, ok := l.Head()
	assert.False(t, ok)

	a, b := "a", "b"
	l.Append(a)
	l.Append(b)

	require.Equal(t, 2, l.Len())
	head, ok := l.Head()
	require.True(t, ok)
	assert.Equal(t, a, head)
}

func TestList_RemoveByIdentity(t *testing.T) {
	var l List
	a, b, c := "a", "b", "c"
	l.Append(a)
	l.Append(b)
	l.Append(c)

	l.RemoveByIdentity(b)
	assert.Equal(t, []Token{a, c}, l.Snapshot())

	// removing an absent token is a no-op
	l.RemoveByIdentity(b)
	assert.Equal(t, []Token{a, c}, l.Snapshot())
}

func TestList_RemoveByElement(t *testing.T) {
	var l List
	a, b := "a", "b"
	l.Append(a)
	eb := l.Append(b)

	l.Remove(eb)
	assert.Equal(t, []Token{a}, l.Snapshot())

	// nil and double-remove are no-ops
	l.Remove(nil)
	l.Remove(eb)
	assert.Equal(t, []Token{a}, l.Snapshot())
}

func TestList_RotateHeadAndReturn(t *testing.T) {
	var l List
	a, b, c := "a", "b", "c"
	l.Append(a)
	l.Append(b)
	l.Append(c)

	got, ok := l.RotateHeadAndReturn()
	require.True(t, ok)
	assert.Equal(t, a, got)
	assert.Equal(t, []Token{b, c, a}, l.Snapshot())

	got, ok = l.RotateHeadAndReturn()
	require.True(t, ok)
	assert.Equal(t, b, got)
	assert.Equal(t, []Token{c, a, b}, l.Snapshot())
}

func TestList_RotateHeadAndReturn_Empty(t *testing.T) {
	var l List
	_, ok := l.RotateHeadAndReturn()
	assert.False(t, ok)
}

func TestList_ForEach(t *testing.T) {
	var l List
	l.Append("a")
	l.Append("b")
	l.Append("c")

	var seen []Token
	l.ForEach(func(tok Token) { seen = append(seen, tok) })
	assert.Equal(t, []Token{"a", "b", "c"}, seen)
}

func TestList_Clear(t *testing.T) {
	var l List
	l.Append("a")
	l.Append("b")
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Snapshot())
}
