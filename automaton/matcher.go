package automaton

import (
	"iter"

	"github.com/coregx/automata/alphabet"
	"github.com/coregx/automata/fsm"
	"github.com/coregx/automata/syntax"
)

// Matcher tests whether a pattern occurs anywhere in an input using a single
// deterministic automaton.
//
// The automaton accepts ".* StartMatch pattern .*" where the wildcards also
// consume the boundary symbols, so an unanchored pattern may match anywhere
// while anchors still only match at the ends of the input.
//
// Exec uses two more automata. The reversed "pattern .*" finds where the
// leftmost match starts. "SOS StartMatch SOS? pattern", anchored at that
// start, is walked forward and the events on its edges place the groups.
// The leading StartOfString is a marker fed before every anchored run so that
// events at the start position land on an edge.
type Matcher struct {
	dfa     *Machine
	meta    *Metadata
	classes [alphabet.Domain]alphabet.Symbol

	fwd, rev         *Machine
	fwdLive, revLive []bool
}

// NewMatcher compiles n into a deterministic matcher, minimizing it when
// minimize is set. It panics on bounded repetition, see Compile.
func NewMatcher(n *syntax.Node, minimize bool) *Matcher {
	alpha := alphabet.New()
	syntax.FillAlphabet(n, alpha)
	alpha.Insert(alphabet.StartOfString)
	alpha.Insert(alphabet.EndOfString)

	meta := NewMetadata()
	m := wildcard(alpha)
	m = m.Then(zeroWidth(Event{Kind: StartMatch}))
	m = m.Then(Compile(n, alpha, meta))
	m = m.Then(wildcard(alpha))

	m = m.ComputeDFA()
	if minimize {
		m = m.Minimal()
	}

	fwd := oneOf([]alphabet.Symbol{alphabet.StartOfString})
	fwd = fwd.Then(zeroWidth(Event{Kind: StartMatch}))
	fwd = fwd.Then(oneOf([]alphabet.Symbol{alphabet.StartOfString}).Join(fsm.Zero[alphabet.Symbol, Events]()))
	fwd = fwd.Then(Compile(n, alpha, NewMetadata())).ComputeDFA()

	rev := Compile(n, alpha, NewMetadata()).Then(wildcard(alpha))
	rev = rev.Reverse().ComputeDFA()

	matcher := &Matcher{
		dfa:     m,
		meta:    meta,
		fwd:     fwd,
		rev:     rev,
		fwdLive: live(fwd),
		revLive: live(rev),
	}
	for c := range matcher.classes {
		matcher.classes[c] = alpha.Get(uint32(c))
	}
	return matcher
}

// Test reports whether the pattern matches somewhere in input.
func (m *Matcher) Test(input []byte) bool {
	return m.dfa.Accepts(m.symbols(input))
}

func (m *Matcher) symbols(input []byte) iter.Seq[alphabet.Symbol] {
	return func(yield func(alphabet.Symbol) bool) {
		if !yield(alphabet.StartOfString) {
			return
		}
		for _, b := range input {
			if !yield(m.classes[b]) {
				return
			}
		}
		yield(alphabet.EndOfString)
	}
}

// Exec returns the capture slots of the leftmost-longest match in input, or
// false when there is none. Group g of the pattern (numbered from 0 as in
// Metadata) occupies slots 2g+2 and 2g+3; slots 0 and 1 hold the whole match
// and -1 marks a group that did not participate.
//
// A group closes at each EndGroup event using its latest StartGroup position,
// so a repeated group reports its last iteration. Events of competing paths
// are merged by the subset construction, so for an ambiguous pattern the
// group bounds may differ from those of a backtracking or Pike VM engine.
func (m *Matcher) Exec(input []byte) ([]int, bool) {
	start, ok := m.leftmostStart(input)
	if !ok {
		return nil, false
	}
	return m.capture(input, start)
}

// leftmostStart runs the reversed automaton from the end of input and
// returns the smallest offset at which some match begins.
func (m *Matcher) leftmostStart(input []byte) (int, bool) {
	q := fsm.StateID(0)
	start, found := -1, false
	feed := func(sym alphabet.Symbol, pos int) bool {
		next, ok := follow(m.rev, m.revLive, q, sym)
		if !ok {
			return false
		}
		q = next.To
		if m.rev.IsAccepting(q) {
			start, found = pos, true
		}
		return true
	}

	if !m.revLive[q] || !feed(alphabet.EndOfString, len(input)) {
		return start, found
	}
	for i := len(input) - 1; i >= 0; i-- {
		if !feed(m.classes[input[i]], i) {
			return start, found
		}
	}
	feed(alphabet.StartOfString, 0)
	return start, found
}

// capture walks the anchored automaton from start, applying the events of
// every edge, and keeps the slots seen at the last accepting position.
func (m *Matcher) capture(input []byte, start int) ([]int, bool) {
	slots := make([]int, 2*(m.meta.NumGroups+1))
	for i := range slots {
		slots[i] = -1
	}
	opened := make([]int, m.meta.NumGroups)
	for i := range opened {
		opened[i] = -1
	}

	var best []int
	q := fsm.StateID(0)
	feed := func(sym alphabet.Symbol, pos int) bool {
		next, ok := follow(m.fwd, m.fwdLive, q, sym)
		if !ok {
			return false
		}
		q = next.To
		applyEvents(next.Output, pos, slots, opened)
		if m.fwd.IsAccepting(q) {
			best = append(best[:0], slots...)
			best[1] = pos
		}
		return true
	}

	alive := m.fwdLive[q] && feed(alphabet.StartOfString, start)
	if alive && start == 0 {
		alive = feed(alphabet.StartOfString, 0)
	}
	for i := start; alive && i < len(input); i++ {
		alive = feed(m.classes[input[i]], i+1)
	}
	if alive {
		feed(alphabet.EndOfString, len(input))
	}

	if best == nil {
		return nil, false
	}
	if best[0] < 0 {
		best[0] = start
	}
	return best, true
}

// applyEvents records the events of one edge at pos. Groups are closed
// before they are opened so that a loop can end one iteration and begin the
// next at the same position; a group opened and closed on the same edge is
// empty.
func applyEvents(events Events, pos int, slots, opened []int) {
	for _, ev := range events {
		if ev.Kind == EndGroup && opened[ev.Group] >= 0 {
			slots[2*ev.Group+2], slots[2*ev.Group+3] = opened[ev.Group], pos
		}
	}
	for _, ev := range events {
		switch ev.Kind {
		case StartMatch:
			if slots[0] < 0 {
				slots[0] = pos
			}
		case StartGroup:
			fresh := opened[ev.Group] < 0
			opened[ev.Group] = pos
			if fresh && events.Contains(Event{Kind: EndGroup, Group: ev.Group}) {
				slots[2*ev.Group+2], slots[2*ev.Group+3] = pos, pos
			}
		}
	}
}

// follow takes the edge of the deterministic machine d from q over sym.
// It fails when there is no such edge or the target cannot reach an
// accepting state.
func follow(d *Machine, alive []bool, q fsm.StateID, sym alphabet.Symbol) (fsm.Target[Events], bool) {
	targets := d.LookupTransducer(q, sym)
	if len(targets) == 0 || !alive[targets[0].To] {
		return fsm.Target[Events]{}, false
	}
	return targets[0], true
}

// live reports, for every state of m, whether an accepting state is
// reachable from it.
func live(m *Machine) []bool {
	preds := make([][]fsm.StateID, m.NumStates())
	for _, e := range m.Edges() {
		preds[e.To] = append(preds[e.To], e.From)
	}
	ok := make([]bool, m.NumStates())
	stack := m.AcceptingStates()
	for _, q := range stack {
		ok[q] = true
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range preds[q] {
			if !ok[p] {
				ok[p] = true
				stack = append(stack, p)
			}
		}
	}
	return ok
}

// NumStates returns the number of states of the automaton.
func (m *Matcher) NumStates() int {
	return m.dfa.NumStates()
}

// Metadata returns the capture group information of the pattern.
func (m *Matcher) Metadata() *Metadata {
	return m.meta
}

// Machine returns the deterministic automaton. It must not be modified.
func (m *Matcher) Machine() *Machine {
	return m.dfa
}
