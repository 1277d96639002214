package fsm

import (
	"encoding/binary"
	"iter"
	"slices"

	"github.com/coregx/automata/internal/conv"
	"github.com/coregx/automata/internal/sparse"
)

// ComputeDFA converts the machine into an equivalent deterministic one using
// the powerset construction.
//
// The symbol alphabet is taken from the symbols used on edges. Every state of
// the result has exactly one outgoing edge per alphabet symbol; a subset with
// no successors leads to an explicit non-accepting sink state that loops to
// itself. Outputs of all NFA edges folded into a DFA edge are merged.
//
// The set of start states of the epsilon-free machine becomes the start
// state of the result, which is always state 0. No synthetic start state is
// added, so a machine with several starts determinizes to the same subsets
// as its single-start equivalent.
func (m *Machine[S, O]) ComputeDFA() *Machine[S, O] {
	m = m.WithoutEpsilons()
	alphabet := m.UsedSymbols()

	res := New[S, O]()
	index := make(map[string]StateID)
	var subsets [][]StateID
	var queue []StateID

	intern := func(subset []StateID) StateID {
		key := subsetKey(subset)
		if id, ok := index[key]; ok {
			return id
		}
		id := res.AddState()
		index[key] = id
		subsets = append(subsets, subset)
		for _, q := range subset {
			if m.IsAccepting(q) {
				res.MarkAccept(id)
				break
			}
		}
		queue = append(queue, id)
		return id
	}

	res.MarkStart(intern(m.Starts()))

	members := sparse.New(conv.IntToUint32(m.numStates))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, sym := range alphabet {
			members.Clear()
			var out O
			for _, q := range subsets[cur] {
				for a, o := range m.out[q] {
					if a.label.epsilon || a.label.value != sym {
						continue
					}
					members.Insert(uint32(a.to))
					out = out.Merge(o)
				}
			}
			next := make([]StateID, members.Len())
			for i, v := range members.Values() {
				next[i] = StateID(v)
			}
			slices.Sort(next)
			res.addArc(cur, label[S]{value: sym}, intern(next), out)
		}
	}
	return res
}

// subsetKey encodes a sorted subset of states as a map key.
func subsetKey(subset []StateID) string {
	buf := make([]byte, 4*len(subset))
	for i, q := range subset {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(q))
	}
	return string(buf)
}

// Reverse returns the machine accepting the reversed language: every edge
// is flipped, start states become accepting and accepting states become
// starts. Edge outputs are kept.
func (m *Machine[S, O]) Reverse() *Machine[S, O] {
	res := New[S, O]()
	for i := 0; i < m.numStates; i++ {
		res.AddState()
	}
	for from, edges := range m.out {
		for a, o := range edges {
			res.addArc(a.to, a.label, StateID(conv.IntToUint32(from)), o)
		}
	}
	for s := range m.starts {
		res.accepts[s] = struct{}{}
	}
	for a := range m.accepts {
		res.starts[a] = struct{}{}
	}
	return res
}

// Minimal returns the minimal DFA for the machine's language using
// Brzozowski's algorithm: reverse, determinize, reverse, determinize.
func (m *Machine[S, O]) Minimal() *Machine[S, O] {
	return m.Reverse().ComputeDFA().Reverse().ComputeDFA()
}

// Accepts runs a deterministic machine on input and reports whether it ends
// in an accepting state. A symbol with no outgoing edge rejects.
//
// On a machine with several starts or several edges for one symbol only the
// lowest numbered choice is followed; call ComputeDFA first.
func (m *Machine[S, O]) Accepts(input iter.Seq[S]) bool {
	if len(m.starts) == 0 {
		return false
	}
	cur := m.Starts()[0]
	for sym := range input {
		next, ok := m.next(cur, sym)
		if !ok {
			return false
		}
		cur = next
	}
	return m.IsAccepting(cur)
}

func (m *Machine[S, O]) next(from StateID, sym S) (StateID, bool) {
	found := false
	var best StateID
	for a := range m.out[from] {
		if a.label.epsilon || a.label.value != sym {
			continue
		}
		if !found || a.to < best {
			best = a.to
			found = true
		}
	}
	return best, found
}
