package vm

// Saved is an immutable snapshot of capture positions. Slot 2*g holds the
// start of group g and slot 2*g+1 its end; unset slots hold -1.
//
// Threads created by a Split share the same snapshot. With never modifies
// the receiver, so a thread changing a slot copies the positions first and
// no other thread observes the change. Snapshots that are never changed are
// never copied.
type Saved struct {
	slots []int
}

// Len returns the number of slots held. Slots past Len are unset.
func (s Saved) Len() int {
	return len(s.slots)
}

// Get returns the position stored in slot.
func (s Saved) Get(slot int) (int, bool) {
	if slot < 0 || slot >= len(s.slots) || s.slots[slot] < 0 {
		return -1, false
	}
	return s.slots[slot], true
}

// With returns a snapshot equal to s except that slot holds pos. The
// snapshot grows as needed. When slot already holds pos, s itself is
// returned.
func (s Saved) With(slot, pos int) Saved {
	if slot < len(s.slots) && s.slots[slot] == pos {
		return s
	}
	n := max(len(s.slots), slot+1)
	slots := make([]int, n)
	copy(slots, s.slots)
	for i := len(s.slots); i < n; i++ {
		slots[i] = -1
	}
	slots[slot] = pos
	return Saved{slots: slots}
}

// Captures returns the positions as a fresh slice of n slots, padding with
// -1 when fewer are held. n < 0 means exactly Len slots.
func (s Saved) Captures(n int) Captures {
	if n < 0 {
		n = len(s.slots)
	}
	out := make(Captures, n)
	for i := range out {
		out[i] = -1
	}
	copy(out, s.slots)
	return out
}

// Captures holds capture positions, two slots per group, -1 when unset.
type Captures []int

// Group returns the span of group g.
func (c Captures) Group(g int) (start, end int, ok bool) {
	if 2*g+1 >= len(c) || g < 0 {
		return -1, -1, false
	}
	start, end = c[2*g], c[2*g+1]
	if start < 0 || end < 0 {
		return -1, -1, false
	}
	return start, end, true
}
