// Package automaton compiles regex syntax trees into finite automata over
// alphabet symbols, with capture group boundaries recorded as transducer
// outputs.
//
// The construction is Thompson's: each node becomes a small fragment and
// fragments are combined with the fsm combinators. Alternation relies on
// machines having several start states, so no extra entry state is needed.
package automaton

import (
	"fmt"

	"github.com/coregx/automata/alphabet"
	"github.com/coregx/automata/fsm"
	"github.com/coregx/automata/syntax"
)

// Machine is an automaton over alphabet symbols whose edges carry capture
// events.
type Machine = fsm.Machine[alphabet.Symbol, Events]

// Build fills a fresh alphabet from n (boundary symbols included) and
// compiles n against it.
func Build(n *syntax.Node) (*Machine, *Metadata, *alphabet.Alphabet) {
	alpha := alphabet.New()
	syntax.FillAlphabet(n, alpha)
	alpha.Insert(alphabet.StartOfString)
	alpha.Insert(alphabet.EndOfString)

	meta := NewMetadata()
	return Compile(n, alpha, meta), meta, alpha
}

// Compile turns n into an automaton fragment. Symbols are decimated against
// alpha, which must already contain every range used by n (see
// syntax.FillAlphabet). Capturing groups are numbered in traversal order
// continuing from meta.NumGroups.
//
// Compile panics on a Between quantifier: bounded repetition has no
// construction here and callers are expected to reject it beforehand.
func Compile(n *syntax.Node, alpha *alphabet.Alphabet, meta *Metadata) *Machine {
	switch n.Op {
	case syntax.OpAlt:
		m := fsm.New[alphabet.Symbol, Events]()
		for _, c := range n.Children {
			m = m.Join(Compile(c, alpha, meta))
		}
		return m

	case syntax.OpExpr:
		m := fsm.Zero[alphabet.Symbol, Events]()
		for _, c := range n.Children {
			m = m.Then(Compile(c, alpha, meta))
		}
		return m

	case syntax.OpQuantified:
		return quantified(Compile(n.Children[0], alpha, meta), n.Quantifier)

	case syntax.OpCapture:
		if !n.Capturing {
			return Compile(n.Children[0], alpha, meta)
		}
		id := meta.allocGroup(n.Name)
		m := zeroWidth(Event{Kind: StartGroup, Group: id})
		m = m.Then(Compile(n.Children[0], alpha, meta))
		return m.Then(zeroWidth(Event{Kind: EndGroup, Group: id}))

	case syntax.OpClass:
		return oneOf(alpha.DecimateMany(n.Symbols()))

	case syntax.OpLiteral:
		return oneOf(alpha.Decimate(alphabet.Char(n.Literal)))

	case syntax.OpStart:
		return oneOf([]alphabet.Symbol{alphabet.StartOfString})

	case syntax.OpEnd:
		return oneOf([]alphabet.Symbol{alphabet.EndOfString})
	}
	panic(fmt.Sprintf("automaton: unknown node op %v", n.Op))
}

// quantified applies q to the fragment x. Copies of x share its capture
// group ids.
func quantified(x *Machine, q syntax.Quantifier) *Machine {
	zero := fsm.Zero[alphabet.Symbol, Events]
	switch q.Kind {
	case syntax.ZeroOrOne:
		return x.Join(zero())
	case syntax.ZeroOrMore:
		return x.ThenLoop().Join(zero())
	case syntax.OneOrMore:
		return x.ThenLoop()
	case syntax.ExactlyN:
		return repeat(x, q.Min)
	case syntax.NOrMore:
		if q.Min == 0 {
			return x.ThenLoop().Join(zero())
		}
		m := repeat(x.Clone(), q.Min-1)
		return m.Then(x.ThenLoop())
	case syntax.Between:
		panic(fmt.Sprintf("automaton: bounded repetition {%d,%d} is not supported", q.Min, q.Max))
	}
	panic(fmt.Sprintf("automaton: unknown quantifier kind %d", q.Kind))
}

// repeat concatenates n copies of x.
func repeat(x *Machine, n int) *Machine {
	m := fsm.Zero[alphabet.Symbol, Events]()
	for i := 0; i < n; i++ {
		m = m.Then(x.Clone())
	}
	return m
}

// zeroWidth returns a two state fragment joined by an epsilon edge carrying
// ev.
func zeroWidth(ev Event) *Machine {
	m := fsm.New[alphabet.Symbol, Events]()
	start, end := m.AddState(), m.AddState()
	m.MarkStart(start)
	m.MarkAccept(end)
	m.AddEpsilonTransducer(start, end, Events{ev})
	return m
}

// oneOf returns a two state fragment consuming any one of syms.
func oneOf(syms []alphabet.Symbol) *Machine {
	m := fsm.New[alphabet.Symbol, Events]()
	start, end := m.AddState(), m.AddState()
	m.MarkStart(start)
	m.MarkAccept(end)
	for _, s := range syms {
		m.AddTransition(start, s, end)
	}
	return m
}

// wildcard returns a single state fragment looping on every symbol of alpha,
// boundaries included.
func wildcard(alpha *alphabet.Alphabet) *Machine {
	m := fsm.New[alphabet.Symbol, Events]()
	s := m.AddState()
	m.MarkStart(s)
	m.MarkAccept(s)
	for _, sym := range alpha.AllSymbols() {
		m.AddTransition(s, sym, s)
	}
	return m
}
