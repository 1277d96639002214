// Package fsm implements finite state machines over an arbitrary ordered
// symbol type together with the classical transformations between them:
// Thompson-style composition, epsilon elimination, subset construction,
// reversal and Brzozowski minimization.
//
// A Machine may have several start states and, as an NFA, several outgoing
// edges for the same symbol. Every edge may carry an output value (a
// transducer output) which transformations merge when they fold several
// edges into one.
//
// Transformations take ownership of their receiver: once a method such as
// WithoutEpsilons or ComputeDFA has been called, only the returned machine
// may be used.
package fsm

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/coregx/automata/internal/conv"
)

// StateID identifies a state. Valid ids of a machine are 0..NumStates()-1.
type StateID uint32

// Symbol is the constraint on edge symbols: comparable for hashing and
// totally ordered by Compare.
type Symbol[S any] interface {
	comparable
	Compare(other S) int
}

// Output is the constraint on transducer outputs attached to edges.
// Merge must not modify the receiver or its argument.
type Output[O any] interface {
	Merge(other O) O
}

// NoOutput is the output type of plain automata.
type NoOutput struct{}

// Merge implements Output.
func (NoOutput) Merge(NoOutput) NoOutput { return NoOutput{} }

// label is either a concrete symbol or epsilon. Concrete symbols order before
// epsilon.
type label[S Symbol[S]] struct {
	epsilon bool
	value   S
}

func (l label[S]) compare(o label[S]) int {
	if l.epsilon != o.epsilon {
		if l.epsilon {
			return 1
		}
		return -1
	}
	if l.epsilon {
		return 0
	}
	return l.value.Compare(o.value)
}

type arc[S Symbol[S]] struct {
	label label[S]
	to    StateID
}

// Machine is a finite state machine over symbols S with edge outputs O.
type Machine[S Symbol[S], O Output[O]] struct {
	numStates int
	starts    map[StateID]struct{}
	accepts   map[StateID]struct{}

	// out[from] holds every outgoing edge of state from.
	out []map[arc[S]]O
}

// Edge is one transition of a machine as reported by Edges.
type Edge[S Symbol[S], O Output[O]] struct {
	From    StateID
	Epsilon bool
	Symbol  S // zero when Epsilon is set
	To      StateID
	Output  O
}

// Target is a destination state reached over a symbol, with the edge output.
type Target[O any] struct {
	To     StateID
	Output O
}

// New creates a machine with no states. It accepts nothing.
func New[S Symbol[S], O Output[O]]() *Machine[S, O] {
	return &Machine[S, O]{
		starts:  make(map[StateID]struct{}),
		accepts: make(map[StateID]struct{}),
	}
}

// Zero creates a machine that accepts exactly the empty string.
func Zero[S Symbol[S], O Output[O]]() *Machine[S, O] {
	m := New[S, O]()
	s := m.AddState()
	m.MarkStart(s)
	m.MarkAccept(s)
	return m
}

// AddState creates a new state and returns its id.
func (m *Machine[S, O]) AddState() StateID {
	id := StateID(conv.IntToUint32(m.numStates))
	m.numStates++
	m.out = append(m.out, nil)
	return id
}

// NumStates returns the number of states.
func (m *Machine[S, O]) NumStates() int {
	return m.numStates
}

// MarkStart makes id a start state.
func (m *Machine[S, O]) MarkStart(id StateID) {
	m.starts[id] = struct{}{}
}

// MarkAccept makes id an accepting state.
func (m *Machine[S, O]) MarkAccept(id StateID) {
	m.accepts[id] = struct{}{}
}

// Starts returns the start states in ascending order.
func (m *Machine[S, O]) Starts() []StateID {
	return slices.Sorted(maps.Keys(m.starts))
}

// AcceptingStates returns the accepting states in ascending order.
func (m *Machine[S, O]) AcceptingStates() []StateID {
	return slices.Sorted(maps.Keys(m.accepts))
}

// IsStart reports whether id is a start state.
func (m *Machine[S, O]) IsStart(id StateID) bool {
	_, ok := m.starts[id]
	return ok
}

// IsAccepting reports whether id is an accepting state.
func (m *Machine[S, O]) IsAccepting(id StateID) bool {
	_, ok := m.accepts[id]
	return ok
}

// AddTransition adds an edge from -sym-> to with an empty output.
func (m *Machine[S, O]) AddTransition(from StateID, sym S, to StateID) {
	var zero O
	m.addArc(from, label[S]{value: sym}, to, zero)
}

// AddTransducer adds an edge from -sym-> to carrying output.
func (m *Machine[S, O]) AddTransducer(from StateID, sym S, to StateID, output O) {
	m.addArc(from, label[S]{value: sym}, to, output)
}

// AddEpsilon adds a zero-width edge from -> to.
func (m *Machine[S, O]) AddEpsilon(from, to StateID) {
	var zero O
	m.addArc(from, label[S]{epsilon: true}, to, zero)
}

// AddEpsilonTransducer adds a zero-width edge from -> to carrying output.
func (m *Machine[S, O]) AddEpsilonTransducer(from, to StateID, output O) {
	m.addArc(from, label[S]{epsilon: true}, to, output)
}

// addArc inserts an edge, merging outputs if the same edge already exists.
func (m *Machine[S, O]) addArc(from StateID, l label[S], to StateID, output O) {
	edges := m.out[from]
	if edges == nil {
		edges = make(map[arc[S]]O)
		m.out[from] = edges
	}
	key := arc[S]{label: l, to: to}
	if prev, ok := edges[key]; ok {
		edges[key] = prev.Merge(output)
		return
	}
	edges[key] = output
}

// Lookup returns the states reached from from over sym, in ascending order.
func (m *Machine[S, O]) Lookup(from StateID, sym S) []StateID {
	targets := m.lookupLabel(from, label[S]{value: sym})
	ids := make([]StateID, len(targets))
	for i, t := range targets {
		ids[i] = t.To
	}
	return ids
}

// LookupTransducer returns the targets reached from from over sym together
// with the edge outputs, ordered by target state.
func (m *Machine[S, O]) LookupTransducer(from StateID, sym S) []Target[O] {
	return m.lookupLabel(from, label[S]{value: sym})
}

func (m *Machine[S, O]) lookupLabel(from StateID, l label[S]) []Target[O] {
	var targets []Target[O]
	for a, o := range m.out[from] {
		if a.label == l {
			targets = append(targets, Target[O]{To: a.to, Output: o})
		}
	}
	slices.SortFunc(targets, func(x, y Target[O]) int { return cmp.Compare(x.To, y.To) })
	return targets
}

// NumTransitions returns the number of edges, epsilon edges included.
func (m *Machine[S, O]) NumTransitions() int {
	n := 0
	for _, edges := range m.out {
		n += len(edges)
	}
	return n
}

// Edges returns every edge ordered by source, symbol (epsilon last) and
// target.
func (m *Machine[S, O]) Edges() []Edge[S, O] {
	var all []Edge[S, O]
	for from, edges := range m.out {
		for a, o := range edges {
			all = append(all, Edge[S, O]{
				From:    StateID(conv.IntToUint32(from)),
				Epsilon: a.label.epsilon,
				Symbol:  a.label.value,
				To:      a.to,
				Output:  o,
			})
		}
	}
	slices.SortFunc(all, func(x, y Edge[S, O]) int {
		if c := cmp.Compare(x.From, y.From); c != 0 {
			return c
		}
		lx := label[S]{epsilon: x.Epsilon, value: x.Symbol}
		ly := label[S]{epsilon: y.Epsilon, value: y.Symbol}
		if c := lx.compare(ly); c != 0 {
			return c
		}
		return cmp.Compare(x.To, y.To)
	})
	return all
}

// HasEpsilon reports whether any edge is an epsilon edge.
func (m *Machine[S, O]) HasEpsilon() bool {
	for _, edges := range m.out {
		for a := range edges {
			if a.label.epsilon {
				return true
			}
		}
	}
	return false
}

// UsedSymbols returns every concrete symbol appearing on an edge, sorted and
// without duplicates. When every symbol of the alphabet is used at least
// once this is the machine's alphabet.
func (m *Machine[S, O]) UsedSymbols() []S {
	seen := make(map[S]struct{})
	for _, edges := range m.out {
		for a := range edges {
			if !a.label.epsilon {
				seen[a.label.value] = struct{}{}
			}
		}
	}
	syms := slices.Collect(maps.Keys(seen))
	slices.SortFunc(syms, func(a, b S) int { return a.Compare(b) })
	return syms
}

// Clone returns a deep copy of the machine.
func (m *Machine[S, O]) Clone() *Machine[S, O] {
	c := &Machine[S, O]{
		numStates: m.numStates,
		starts:    maps.Clone(m.starts),
		accepts:   maps.Clone(m.accepts),
		out:       make([]map[arc[S]]O, len(m.out)),
	}
	for i, edges := range m.out {
		c.out[i] = maps.Clone(edges)
	}
	return c
}

// String returns a short summary of the machine.
func (m *Machine[S, O]) String() string {
	return fmt.Sprintf("Machine{states: %d, starts: %v, accepts: %v, transitions: %d}",
		m.numStates, m.Starts(), m.AcceptingStates(), m.NumTransitions())
}
