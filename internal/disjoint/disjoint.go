// Package disjoint implements a union-find structure over the integers
// [0, n) that can report the smallest member of each set.
package disjoint

// Sets tracks equivalence classes with union by size and path compression.
// Each root additionally remembers the minimum member of its class.
type Sets struct {
	parent []int
	size   []int
	min    []int
}

// New creates n singleton sets {0}, {1}, ..., {n-1}.
func New(n int) *Sets {
	s := &Sets{
		parent: make([]int, n),
		size:   make([]int, n),
		min:    make([]int, n),
	}
	for i := 0; i < n; i++ {
		s.parent[i] = i
		s.size[i] = 1
		s.min[i] = i
	}
	return s
}

// Len returns the number of elements.
func (s *Sets) Len() int {
	return len(s.parent)
}

// Find returns the root of the set containing a.
func (s *Sets) Find(a int) int {
	root := a
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for s.parent[a] != root {
		next := s.parent[a]
		s.parent[a] = root
		a = next
	}
	return root
}

// Union merges the sets containing a and b.
func (s *Sets) Union(a, b int) {
	ra, rb := s.Find(a), s.Find(b)
	if ra == rb {
		return
	}
	if s.size[ra] < s.size[rb] {
		ra, rb = rb, ra
	}
	s.parent[rb] = ra
	s.size[ra] += s.size[rb]
	if s.min[rb] < s.min[ra] {
		s.min[ra] = s.min[rb]
	}
}

// FindMin returns the smallest element in the set containing a.
// The result is never greater than a.
func (s *Sets) FindMin(a int) int {
	return s.min[s.Find(a)]
}

// Same reports whether a and b are in the same set.
func (s *Sets) Same(a, b int) bool {
	return s.Find(a) == s.Find(b)
}
