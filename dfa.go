package automata

import (
	"fmt"

	"github.com/coregx/automata/automaton"
	"github.com/coregx/automata/syntax"
)

// DFA answers whether a pattern occurs in an input using a single
// deterministic automaton built by subset construction. Exec also reports
// positions, with leftmost-longest rather than leftmost-first semantics:
// repetitions are never lazy and the longest alternative wins.
//
// A DFA is immutable and safe for concurrent use.
type DFA struct {
	pattern string
	matcher *automaton.Matcher
}

// CompileDFA compiles pattern into a DFA, minimized when minimize is set.
//
// Bounded repetition {m,n} is rejected with ErrUnsupported. The automaton
// may be exponentially larger than the pattern.
//
// Example:
//
//	dfa, err := automata.CompileDFA(`ab*c`, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dfa.MatchString("xabbbc") // true
func CompileDFA(pattern string, minimize bool) (*DFA, error) {
	n, err := syntax.Parse(pattern, 0)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	if syntax.HasBetween(n) {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     fmt.Errorf("%w: bounded repetition {m,n}", ErrUnsupported),
		}
	}
	return &DFA{pattern: pattern, matcher: automaton.NewMatcher(n, minimize)}, nil
}

// String returns the source pattern.
func (d *DFA) String() string {
	return d.pattern
}

// Test reports whether the pattern matches somewhere in b.
func (d *DFA) Test(b []byte) bool {
	return d.matcher.Test(b)
}

// MatchString reports whether the pattern matches somewhere in s.
func (d *DFA) MatchString(s string) bool {
	return d.matcher.Test([]byte(s))
}

// NumStates returns the number of automaton states.
func (d *DFA) NumStates() int {
	return d.matcher.NumStates()
}

// Exec returns the capture slots of the leftmost-longest match in b, laid
// out like Match.Indices, or nil when there is no match.
//
// Group bounds come from the capture events the automaton records on its
// edges. For an ambiguous pattern such as (a|ab)(c|bcd) they may differ from
// those Regexp reports even when the whole match agrees.
func (d *DFA) Exec(b []byte) []int {
	caps, ok := d.matcher.Exec(b)
	if !ok {
		return nil
	}
	return caps
}

// ExecString is like Exec but searches s.
func (d *DFA) ExecString(s string) []int {
	return d.Exec([]byte(s))
}

// NumSubexp returns the number of parenthesized subexpressions.
func (d *DFA) NumSubexp() int {
	return d.matcher.Metadata().NumGroups
}
