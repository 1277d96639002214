package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_InsertContains(t *testing.T) {
	s := New(8)

	require.True(t, s.Insert(3))
	require.True(t, s.Insert(7))
	require.False(t, s.Insert(3), "duplicate insert must report false")

	assert.True(t, s.Contains(3))
	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(0))
	assert.False(t, s.Contains(100), "out of range values are never members")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []uint32{3, 7}, s.Values())
}

func TestSet_ClearIgnoresStaleSparseEntries(t *testing.T) {
	s := New(4)
	s.Insert(2)
	s.Insert(1)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(2))
	assert.False(t, s.Contains(1))

	s.Insert(1)
	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(2))
	assert.Equal(t, 4, s.Capacity())
}

func TestSet_InsertPanicsOutOfRange(t *testing.T) {
	s := New(2)
	assert.Panics(t, func() { s.Insert(2) })
}
