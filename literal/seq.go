// Package literal extracts literal byte strings from regex syntax trees.
//
// The extracted set is a necessary condition for a match: every match of the
// pattern contains at least one of the literals. Searching for the literals
// first is much cheaper than running the VM, so inputs containing none of
// them can be rejected up front.
//
// Key concepts:
//   - A Literal is a concrete byte sequence that occurs inside a match
//   - A Seq is a set of alternative literals (e.g., from alternations like /foo|bar/)
//   - Minimize drops literals that contain another literal of the set
package literal

import (
	"bytes"
	"slices"
)

// Literal is a byte sequence extracted from a pattern. Complete is set when
// the literal is an entire match of the pattern, not just a part of one.
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /hello\d+/ → Literal{[]byte("hello"), false}
type Literal struct {
	// Bytes contains the literal byte sequence.
	Bytes []byte

	// Complete reports whether Bytes is a whole match.
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Printf("Sequence has %d literals\n", seq.Len()) // Output: Sequence has 2 literals
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Bytes returns the byte sequences of all literals in order.
func (s *Seq) Bytes() [][]byte {
	if s == nil {
		return nil
	}
	out := make([][]byte, len(s.literals))
	for i, lit := range s.literals {
		out[i] = lit.Bytes
	}
	return out
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := s.literals[0].Len()
	for _, lit := range s.literals[1:] {
		n = min(n, lit.Len())
	}
	return n
}

// Clone returns a deep copy of the sequence.
// All literals and their byte slices are duplicated.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		cloned[i] = Literal{Bytes: bytes.Clone(lit.Bytes), Complete: lit.Complete}
	}
	return &Seq{literals: cloned}
}

// Minimize removes duplicates and every literal containing a shorter literal
// of the set. A match containing the longer literal also contains the
// shorter one, so the set keeps its meaning. The result is sorted by length,
// then bytewise. Literals lose Complete when a longer literal was dropped.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("xfoobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		if a.Len() != b.Len() {
			return a.Len() - b.Len()
		}
		return bytes.Compare(a.Bytes, b.Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	dropped := false
	for _, current := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.Contains(current.Bytes, k.Bytes) {
				redundant = true
				dropped = dropped || !bytes.Equal(current.Bytes, k.Bytes)
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	// The remaining literals no longer list every match.
	if dropped {
		for i := range kept {
			kept[i].Complete = false
		}
	}
	s.literals = kept
}
