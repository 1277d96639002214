package disjoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSets_FindMin(t *testing.T) {
	s := New(6)
	for i := 0; i < 6; i++ {
		assert.Equal(t, i, s.FindMin(i))
	}

	s.Union(4, 2)
	s.Union(5, 4)
	s.Union(1, 3)

	assert.Equal(t, 2, s.FindMin(5))
	assert.Equal(t, 2, s.FindMin(4))
	assert.Equal(t, 1, s.FindMin(3))
	assert.Equal(t, 0, s.FindMin(0))
	assert.True(t, s.Same(2, 5))
	assert.False(t, s.Same(1, 2))

	s.Union(3, 5)
	for _, i := range []int{1, 2, 3, 4, 5} {
		assert.Equal(t, 1, s.FindMin(i), "element %d", i)
	}
	assert.Equal(t, 6, s.Len())
}

func TestSets_FindMinNeverExceedsInput(t *testing.T) {
	s := New(50)
	for i := 0; i+7 < 50; i += 3 {
		s.Union(i+7, i)
	}
	for i := 0; i < 50; i++ {
		assert.LessOrEqual(t, s.FindMin(i), i)
	}
}
