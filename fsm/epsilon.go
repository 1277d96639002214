package fsm

import (
	"slices"

	"github.com/coregx/automata/internal/conv"
	"github.com/coregx/automata/internal/disjoint"
	"github.com/coregx/automata/internal/sparse"
)

// Then concatenates other after m: every accepting state of m gets an
// epsilon edge to every start state of other, and the accepting states of the
// result are those of other. other is consumed.
func (m *Machine[S, O]) Then(other *Machine[S, O]) *Machine[S, O] {
	oldAccepts := m.AcceptingStates()
	offset := m.absorb(other)
	for _, a := range oldAccepts {
		for s := range other.starts {
			m.AddEpsilon(a, s+offset)
		}
	}
	clear(m.accepts)
	for a := range other.accepts {
		m.accepts[a+offset] = struct{}{}
	}
	return m
}

// Join forms the disjoint union of m and other: other's states are
// renumbered after m's and start and accepting sets are unioned. other is
// consumed.
func (m *Machine[S, O]) Join(other *Machine[S, O]) *Machine[S, O] {
	offset := m.absorb(other)
	for s := range other.starts {
		m.starts[s+offset] = struct{}{}
	}
	for a := range other.accepts {
		m.accepts[a+offset] = struct{}{}
	}
	return m
}

// ThenLoop adds an epsilon edge from every accepting state to every start
// state, so that the accepted language becomes L+.
func (m *Machine[S, O]) ThenLoop() *Machine[S, O] {
	for _, a := range m.AcceptingStates() {
		for _, s := range m.Starts() {
			m.AddEpsilon(a, s)
		}
	}
	return m
}

// WithSingleStart ensures the machine has exactly one start state. If it
// has several (or none), a fresh start state with epsilon edges to each old
// start state replaces them.
func (m *Machine[S, O]) WithSingleStart() *Machine[S, O] {
	if len(m.starts) == 1 {
		return m
	}
	starts := m.Starts()
	s := m.AddState()
	for _, old := range starts {
		m.AddEpsilon(s, old)
	}
	clear(m.starts)
	m.starts[s] = struct{}{}
	return m
}

// absorb copies other's states and edges into m and returns the offset
// added to other's state ids.
func (m *Machine[S, O]) absorb(other *Machine[S, O]) StateID {
	offset := StateID(conv.IntToUint32(m.numStates))
	for _, edges := range other.out {
		var shifted map[arc[S]]O
		if len(edges) > 0 {
			shifted = make(map[arc[S]]O, len(edges))
			for a, o := range edges {
				shifted[arc[S]{label: a.label, to: a.to + offset}] = o
			}
		}
		m.out = append(m.out, shifted)
	}
	m.numStates += other.numStates
	return offset
}

// WithoutEpsilons returns an equivalent machine with no epsilon edges.
//
// For every state q the epsilon closure E(q) is computed. q inherits the
// concrete edges of every state in E(q), each carrying its own output merged
// with the outputs collected along the epsilon edges inside the target's
// closure. q accepts if E(q) contains an accepting state.
//
// States that are mutually epsilon-reachable have identical closures and are
// collapsed into one state using union-find. Each class is represented by
// its smallest member and classes are renumbered densely in order of first
// appearance.
func (m *Machine[S, O]) WithoutEpsilons() *Machine[S, O] {
	if !m.HasEpsilon() {
		return m
	}

	n := m.numStates
	closures := m.epsilonClosures()

	// Outputs carried by the epsilon edges inside each closure.
	closureOut := make([]O, n)
	for q := 0; q < n; q++ {
		var acc O
		for _, p := range closures[q] {
			for a, o := range m.out[p] {
				if a.label.epsilon {
					acc = acc.Merge(o)
				}
			}
		}
		closureOut[q] = acc
	}

	sets := disjoint.New(n)
	for q := 0; q < n; q++ {
		for a := range m.out[q] {
			if !a.label.epsilon {
				continue
			}
			to := conv.Uint32ToInt(uint32(a.to))
			if _, back := slices.BinarySearch(closures[to], StateID(conv.IntToUint32(q))); back {
				sets.Union(q, to)
			}
		}
	}

	mapping := make([]StateID, n)
	count := 0
	for q := 0; q < n; q++ {
		rep := sets.FindMin(q)
		switch {
		case rep < q:
			mapping[q] = mapping[rep]
		case rep == q:
			mapping[q] = StateID(conv.IntToUint32(count))
			count++
		default:
			panic("fsm: disjoint set minimum lookup failed")
		}
	}

	res := New[S, O]()
	for i := 0; i < count; i++ {
		res.AddState()
	}
	for s := range m.starts {
		res.starts[mapping[s]] = struct{}{}
	}
	for q := 0; q < n; q++ {
		from := mapping[q]
		for _, p := range closures[q] {
			if m.IsAccepting(p) {
				res.accepts[from] = struct{}{}
			}
			for a, o := range m.out[p] {
				if a.label.epsilon {
					continue
				}
				to := conv.Uint32ToInt(uint32(a.to))
				res.addArc(from, a.label, mapping[to], o.Merge(closureOut[to]))
			}
		}
	}
	return res
}

// epsilonClosures returns, for every state, the sorted set of states
// reachable through epsilon edges alone (the state itself included).
func (m *Machine[S, O]) epsilonClosures() [][]StateID {
	n := m.numStates
	closures := make([][]StateID, n)
	seen := sparse.New(conv.IntToUint32(n))
	var stack []uint32
	for q := 0; q < n; q++ {
		seen.Clear()
		seen.Insert(conv.IntToUint32(q))
		stack = append(stack[:0], conv.IntToUint32(q))
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for a := range m.out[p] {
				if a.label.epsilon && seen.Insert(uint32(a.to)) {
					stack = append(stack, uint32(a.to))
				}
			}
		}
		closure := make([]StateID, seen.Len())
		for i, v := range seen.Values() {
			closure[i] = StateID(v)
		}
		slices.Sort(closure)
		closures[q] = closure
	}
	return closures
}
