package literal

import (
	"github.com/coregx/automata/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large character classes like [a-z]
//   - MinLiteralLen: rejects sets whose shortest literal filters too little
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals in any intermediate or final
	// set. Default: 64.
	MaxLiterals int

	// MaxLiteralLen truncates longer literals. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Default: 10.
	MaxClassSize int

	// MinLiteralLen is the shortest literal worth searching for. Sets with a
	// shorter literal are discarded. Default: 1.
	MinLiteralLen int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
		MinLiteralLen: 1,
	}
}

const maxDepth = 100

// Extractor extracts required literal sets from syntax trees.
//
// For every node it tracks two facts: the exact set of strings the node
// matches when that set is small, and a set of strings at least one of
// which occurs inside every match. Concatenation grows exact sets by cross
// product until a limit or a non-finite child cuts the run; every cut run is
// a candidate for the required set and the best candidate wins.
//
// Example:
//
//	n, _ := syntax.Parse(`(foo|bar)\d+baz`, 0)
//	seq := literal.New(literal.DefaultConfig()).Required(n)
//	// seq = ["baz"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration. Zero limits
// take their default.
func New(config ExtractorConfig) *Extractor {
	d := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = d.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = d.MaxLiteralLen
	}
	if config.MaxClassSize <= 0 {
		config.MaxClassSize = d.MaxClassSize
	}
	if config.MinLiteralLen <= 0 {
		config.MinLiteralLen = d.MinLiteralLen
	}
	return &Extractor{config: config}
}

// Required returns a minimized set of literals at least one of which occurs
// in every match of n, or nil when no useful set exists.
func Required(n *syntax.Node, config ExtractorConfig) *Seq {
	return New(config).Required(n)
}

// Required returns a minimized set of literals at least one of which occurs
// in every match of n, or nil when no useful set exists.
func (e *Extractor) Required(n *syntax.Node) *Seq {
	f := e.extract(n, 0)

	set, complete := f.inner, false
	if f.finite && score(f.exact) >= score(f.inner) {
		set, complete = f.exact, true
	}
	if len(set) == 0 || len(set) > e.config.MaxLiterals || shortest(set) < e.config.MinLiteralLen {
		return nil
	}

	lits := make([]Literal, len(set))
	for i, b := range set {
		c := complete
		if len(b) > e.config.MaxLiteralLen {
			b, c = b[:e.config.MaxLiteralLen], false
		}
		lits[i] = NewLiteral(b, c)
	}
	seq := NewSeq(lits...)
	seq.Minimize()
	return seq
}

// facts describes what extraction learned about one node.
type facts struct {
	// exact lists every string the node matches; meaningful when finite.
	exact  [][]byte
	finite bool

	// inner holds strings at least one of which occurs in every match; nil
	// when unknown.
	inner [][]byte
}

func unknown() facts { return facts{} }

func exactly(set ...[]byte) facts { return facts{exact: set, finite: true} }

// best returns the most selective set the facts guarantee.
func (f facts) best() [][]byte {
	if f.finite && score(f.exact) >= score(f.inner) {
		return f.exact
	}
	return f.inner
}

// score ranks a required set: longer shortest literal first. Sets that
// cannot filter anything score below zero.
func score(set [][]byte) int {
	if len(set) == 0 {
		return -1
	}
	return shortest(set)
}

func shortest(set [][]byte) int {
	n := len(set[0])
	for _, b := range set[1:] {
		n = min(n, len(b))
	}
	return n
}

// better reports whether a is a more useful required set than b.
func better(a, b [][]byte) bool {
	sa, sb := score(a), score(b)
	if sa != sb {
		return sa > sb
	}
	return len(a) < len(b)
}

func (e *Extractor) extract(n *syntax.Node, depth int) facts {
	// Guard against excessive recursion (deeply nested patterns)
	if depth > maxDepth {
		return unknown()
	}

	switch n.Op {
	case syntax.OpLiteral:
		return exactly([]byte{n.Literal})

	case syntax.OpStart, syntax.OpEnd:
		return exactly([]byte{})

	case syntax.OpClass:
		return e.class(n)

	case syntax.OpCapture:
		return e.extract(n.Children[0], depth+1)

	case syntax.OpExpr:
		return e.concat(n.Children, depth)

	case syntax.OpAlt:
		return e.alternate(n.Children, depth)

	case syntax.OpQuantified:
		return e.quantified(n.Children[0], n.Quantifier, depth)
	}
	return unknown()
}

// class expands small classes to their bytes: [abc] → ["a", "b", "c"].
// An empty class matches nothing and yields an empty exact set.
func (e *Extractor) class(n *syntax.Node) facts {
	count := 0
	syms := n.Symbols()
	for _, s := range syms {
		count += int(s.Hi - s.Lo)
		if count > e.config.MaxClassSize {
			return unknown()
		}
	}
	set := make([][]byte, 0, count)
	for _, s := range syms {
		for c := s.Lo; c < s.Hi; c++ {
			set = append(set, []byte{byte(c)})
		}
	}
	return exactly(set...)
}

func (e *Extractor) concat(children []*syntax.Node, depth int) facts {
	run := [][]byte{{}}
	finite := true
	var inner [][]byte

	consider := func(set [][]byte) {
		if better(set, inner) {
			inner = set
		}
	}

	for _, c := range children {
		f := e.extract(c, depth+1)
		if f.finite {
			if next, ok := e.cross(run, f.exact); ok {
				run = next
				continue
			}
			consider(run)
			run, finite = f.exact, false
			continue
		}
		consider(run)
		consider(f.inner)
		run, finite = [][]byte{{}}, false
	}
	consider(run)

	if finite {
		return facts{exact: run, finite: true, inner: inner}
	}
	return facts{inner: inner}
}

// cross returns every concatenation of a string of a with one of b, or false
// when the result would exceed MaxLiterals.
func (e *Extractor) cross(a, b [][]byte) ([][]byte, bool) {
	if len(a)*len(b) > e.config.MaxLiterals {
		return nil, false
	}
	out := make([][]byte, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			s := make([]byte, 0, len(x)+len(y))
			s = append(s, x...)
			out = append(out, append(s, y...))
		}
	}
	return out, true
}

func (e *Extractor) alternate(children []*syntax.Node, depth int) facts {
	exact := [][]byte{}
	finite := true
	var inner [][]byte
	innerKnown := true

	for _, c := range children {
		f := e.extract(c, depth+1)
		if finite && f.finite && len(exact)+len(f.exact) <= e.config.MaxLiterals {
			exact = append(exact, f.exact...)
		} else {
			finite = false
		}

		b := f.best()
		if innerKnown && score(b) >= 0 && len(inner)+len(b) <= e.config.MaxLiterals {
			inner = append(inner, b...)
		} else {
			innerKnown, inner = false, nil
		}
	}

	if finite {
		return facts{exact: exact, finite: true, inner: inner}
	}
	return facts{inner: inner}
}

func (e *Extractor) quantified(x *syntax.Node, q syntax.Quantifier, depth int) facts {
	f := e.extract(x, depth+1)
	switch q.Kind {
	case syntax.ZeroOrOne:
		if f.finite && len(f.exact) < e.config.MaxLiterals {
			return exactly(append([][]byte{{}}, f.exact...)...)
		}
		return unknown()

	case syntax.ExactlyN:
		if q.Min == 0 {
			return exactly([]byte{})
		}
		if f.finite {
			run := [][]byte{{}}
			ok := true
			for range q.Min {
				if run, ok = e.cross(run, f.exact); !ok {
					break
				}
			}
			if ok {
				return exactly(run...)
			}
		}
		return facts{inner: f.best()}

	case syntax.OneOrMore:
		return facts{inner: f.best()}

	case syntax.NOrMore, syntax.Between:
		if q.Min > 0 {
			return facts{inner: f.best()}
		}
	}
	return unknown()
}
