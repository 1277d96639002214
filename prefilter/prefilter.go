// Package prefilter provides fast input rejection for regex search using
// extracted literal sequences.
//
// Every match of a pattern contains at least one of the literals returned by
// literal.Required. An input that contains none of them cannot match, and
// checking for the literals is far cheaper than running the VM.
//
// The package selects the prefilter strategy based on the literals:
//   - Single byte → memchr (bytes.IndexByte)
//   - Single substring → memmem (bytes.Index)
//   - Several literals → Aho-Corasick automaton
//
// Example usage:
//
//	n, _ := syntax.Parse("(hello|world)", 0)
//	pf := prefilter.New(literal.Required(n, literal.DefaultConfig()))
//
//	haystack := []byte("foo hello bar world baz")
//	pos := pf.Find(haystack, 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/automata/literal"
)

// Prefilter finds occurrences of a pattern's required literals.
type Prefilter interface {
	// Find returns the index of the first literal occurrence starting at or
	// after start, or -1 if there is none.
	Find(haystack []byte, start int) int

	// IsMatch reports whether haystack contains any of the literals.
	IsMatch(haystack []byte) bool

	// IsComplete returns true if the literals are exactly the matches of the
	// pattern.
	IsComplete() bool

	// HeapBytes returns the number of bytes of heap memory used by this prefilter.
	HeapBytes() int

	// String names the strategy, for logging.
	String() string
}

// New builds the best prefilter for seq. It returns nil when seq is empty or
// when an automaton cannot be built from it.
func New(seq *literal.Seq) Prefilter {
	if seq.IsEmpty() {
		return nil
	}

	complete := true
	for i := 0; i < seq.Len(); i++ {
		complete = complete && seq.Get(i).Complete
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return &memchrPrefilter{needle: lit.Bytes[0], complete: complete}
		}
		return &memmemPrefilter{needle: bytes.Clone(lit.Bytes), complete: complete}
	}

	pf, err := newAhoCorasick(seq.Bytes(), complete)
	if err != nil {
		return nil
	}
	return pf
}

// memchrPrefilter searches for a single byte literal.
//
// Example patterns:
//
//	/a.*/         → search for 'a'
//	/x+y?/        → search for 'x'
type memchrPrefilter struct {
	needle   byte
	complete bool
}

// Find implements Prefilter.Find using bytes.IndexByte.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsMatch implements Prefilter.IsMatch.
func (p *memchrPrefilter) IsMatch(haystack []byte) bool {
	return bytes.IndexByte(haystack, p.needle) >= 0
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

func (p *memchrPrefilter) String() string {
	return "memchr"
}

// memmemPrefilter searches for a single substring literal.
//
// Example patterns:
//
//	/hello/       → search for "hello"
//	/foo|foobar/  → after minimization → search for "foo"
//	/prefix.*/    → search for "prefix"
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

// Find implements Prefilter.Find using bytes.Index.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsMatch implements Prefilter.IsMatch.
func (p *memmemPrefilter) IsMatch(haystack []byte) bool {
	return bytes.Contains(haystack, p.needle)
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// HeapBytes implements Prefilter.HeapBytes.
// Returns the size of the needle buffer (stored on heap).
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}

func (p *memmemPrefilter) String() string {
	return "memmem"
}

// ahoCorasickPrefilter searches for several literals at once.
//
// Example patterns:
//
//	/(foo|bar)\d/   → search for "foo" or "bar"
//	/[abc]xyz/      → search for "axyz", "bxyz" or "cxyz"
type ahoCorasickPrefilter struct {
	automaton *ahocorasick.Automaton
	patterns  [][]byte
	complete  bool
}

func newAhoCorasick(patterns [][]byte, complete bool) (*ahoCorasickPrefilter, error) {
	builder := ahocorasick.NewBuilder()
	for _, p := range patterns {
		builder.AddPattern(p)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &ahoCorasickPrefilter{automaton: auto, patterns: patterns, complete: complete}, nil
}

// Find implements Prefilter.Find.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.automaton.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsMatch implements Prefilter.IsMatch.
func (p *ahoCorasickPrefilter) IsMatch(haystack []byte) bool {
	return p.automaton.IsMatch(haystack)
}

// IsComplete implements Prefilter.IsComplete.
func (p *ahoCorasickPrefilter) IsComplete() bool {
	return p.complete
}

// HeapBytes implements Prefilter.HeapBytes. Only the pattern bytes are
// counted; the automaton's tables are not.
func (p *ahoCorasickPrefilter) HeapBytes() int {
	n := 0
	for _, pat := range p.patterns {
		n += len(pat)
	}
	return n
}

func (p *ahoCorasickPrefilter) String() string {
	return "aho-corasick"
}
