// Package sparse provides a sparse set of small unsigned integers.
//
// A sparse set supports O(1) insertion, membership testing and clearing while
// keeping a dense list of members in insertion order. The VM uses one per
// thread list to remember which program counters were already scheduled in a
// step, and the subset construction uses one to collect the members of a
// successor subset without duplicates.
package sparse

// Set is a set of uint32 values drawn from [0, capacity).
type Set struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // members in insertion order
}

// New creates a set able to hold values in [0, capacity).
func New(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set and reports whether it was newly added.
// Panics if value >= Capacity().
func (s *Set) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense)) //nolint:gosec // len(dense) <= capacity, which is a uint32
	s.dense = append(s.dense, value)
	return true
}

// Contains returns true if value is in the set.
func (s *Set) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear removes all members in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// Capacity returns the exclusive upper bound on storable values.
func (s *Set) Capacity() int {
	return len(s.sparse)
}

// Values returns the members in insertion order.
// The returned slice is valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}
