// Package syntax defines the regex syntax tree consumed by the automaton and
// bytecode compilers, and a parser producing it from pattern text.
//
// Parsing is delegated to Go's regexp/syntax with Perl flags. The resulting
// tree is converted into the smaller Node form used here, which is byte
// oriented: every literal is a single byte and every class is a set of byte
// ranges.
package syntax

import "github.com/coregx/automata/alphabet"

// Op is the kind of a Node.
type Op uint8

const (
	// OpAlt matches any one of Children, preferring earlier ones.
	OpAlt Op = iota + 1

	// OpExpr matches Children in sequence. No children matches the empty
	// string.
	OpExpr

	// OpQuantified repeats Children[0] according to Quantifier.
	OpQuantified

	// OpClass matches one byte from Chars, or one byte outside Chars when
	// Inverted is set.
	OpClass

	// OpCapture groups Children[0], recording its span when Capturing.
	OpCapture

	// OpLiteral matches the single byte Literal.
	OpLiteral

	// OpStart matches the zero-width start-of-string boundary.
	OpStart

	// OpEnd matches the zero-width end-of-string boundary.
	OpEnd
)

var opNames = [...]string{
	OpAlt:        "Alt",
	OpExpr:       "Expr",
	OpQuantified: "Quantified",
	OpClass:      "Class",
	OpCapture:    "Capture",
	OpLiteral:    "Literal",
	OpStart:      "Start",
	OpEnd:        "End",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "Op(?)"
}

// Node is one node of a regex syntax tree.
type Node struct {
	Op       Op
	Children []*Node

	Quantifier Quantifier // OpQuantified

	Chars    []Char // OpClass
	Inverted bool   // OpClass

	Literal byte // OpLiteral

	Capturing bool   // OpCapture
	Name      string // OpCapture, may be empty
}

// CharKind is the kind of a class atom.
type CharKind uint8

const (
	// KindValue is the single byte Lo.
	KindValue CharKind = iota
	// KindRange is the bytes Lo through Hi inclusive.
	KindRange
	// KindWildcard is every byte.
	KindWildcard
	KindWord
	KindDigit
	KindWhitespace
	KindNotWord
	KindNotDigit
	KindNotWhitespace
)

// Char is one atom of a character class.
type Char struct {
	Kind   CharKind
	Lo, Hi byte
}

// Value returns the atom matching the byte c.
func Value(c byte) Char { return Char{Kind: KindValue, Lo: c, Hi: c} }

// Span returns the atom matching bytes lo through hi inclusive.
func Span(lo, hi byte) Char { return Char{Kind: KindRange, Lo: lo, Hi: hi} }

var (
	wordSymbols = []alphabet.Symbol{
		alphabet.Range('0', '9'),
		alphabet.Range('A', 'Z'),
		alphabet.Char('_'),
		alphabet.Range('a', 'z'),
	}
	digitSymbols      = []alphabet.Symbol{alphabet.Range('0', '9')}
	whitespaceSymbols = []alphabet.Symbol{
		alphabet.Range('\t', '\n'),
		alphabet.Range('\f', '\r'),
		alphabet.Char(' '),
	}
)

// Symbols expands the atom to raw byte ranges.
func (c Char) Symbols() []alphabet.Symbol {
	switch c.Kind {
	case KindValue:
		return []alphabet.Symbol{alphabet.Char(c.Lo)}
	case KindRange:
		if c.Hi < c.Lo {
			return nil
		}
		return []alphabet.Symbol{alphabet.Range(c.Lo, c.Hi)}
	case KindWildcard:
		return []alphabet.Symbol{alphabet.Any}
	case KindWord:
		return wordSymbols
	case KindDigit:
		return digitSymbols
	case KindWhitespace:
		return whitespaceSymbols
	case KindNotWord:
		return alphabet.Invert(wordSymbols)
	case KindNotDigit:
		return alphabet.Invert(digitSymbols)
	case KindNotWhitespace:
		return alphabet.Invert(whitespaceSymbols)
	}
	return nil
}

// Symbols returns the normalized byte ranges matched by a class node.
func (n *Node) Symbols() []alphabet.Symbol {
	var syms []alphabet.Symbol
	for _, c := range n.Chars {
		syms = append(syms, c.Symbols()...)
	}
	if n.Inverted {
		return alphabet.Invert(syms)
	}
	return alphabet.Normalize(syms)
}

// QuantifierKind is the repetition form of a Quantifier.
type QuantifierKind uint8

const (
	ZeroOrOne QuantifierKind = iota
	ZeroOrMore
	OneOrMore
	// ExactlyN repeats Min times.
	ExactlyN
	// NOrMore repeats at least Min times.
	NOrMore
	// Between repeats Min through Max times.
	Between
)

// Quantifier describes how often a quantified node repeats. Greedy
// quantifiers prefer more repetitions, lazy ones fewer.
type Quantifier struct {
	Kind   QuantifierKind
	Min    int
	Max    int
	Greedy bool
}

// Alt returns an alternation node.
func Alt(children ...*Node) *Node { return &Node{Op: OpAlt, Children: children} }

// Concat returns a sequence node.
func Concat(children ...*Node) *Node { return &Node{Op: OpExpr, Children: children} }

// Quantify returns x repeated according to q.
func Quantify(x *Node, q Quantifier) *Node {
	return &Node{Op: OpQuantified, Children: []*Node{x}, Quantifier: q}
}

// Star returns x repeated zero or more times.
func Star(x *Node, greedy bool) *Node {
	return Quantify(x, Quantifier{Kind: ZeroOrMore, Greedy: greedy})
}

// Plus returns x repeated one or more times.
func Plus(x *Node, greedy bool) *Node {
	return Quantify(x, Quantifier{Kind: OneOrMore, Greedy: greedy})
}

// Quest returns x repeated zero or one time.
func Quest(x *Node, greedy bool) *Node {
	return Quantify(x, Quantifier{Kind: ZeroOrOne, Greedy: greedy})
}

// Class returns a character class node.
func Class(inverted bool, chars ...Char) *Node {
	return &Node{Op: OpClass, Chars: chars, Inverted: inverted}
}

// Group returns a capturing group around x. name may be empty.
func Group(x *Node, name string) *Node {
	return &Node{Op: OpCapture, Children: []*Node{x}, Capturing: true, Name: name}
}

// NonCapturing returns a group around x that records nothing.
func NonCapturing(x *Node) *Node {
	return &Node{Op: OpCapture, Children: []*Node{x}}
}

// Lit returns a node matching the byte c.
func Lit(c byte) *Node { return &Node{Op: OpLiteral, Literal: c} }

// Text returns a sequence of literal nodes matching s.
func Text(s string) *Node {
	n := &Node{Op: OpExpr}
	for i := 0; i < len(s); i++ {
		n.Children = append(n.Children, Lit(s[i]))
	}
	return n
}

// Start returns a start-of-string anchor.
func Start() *Node { return &Node{Op: OpStart} }

// End returns an end-of-string anchor.
func End() *Node { return &Node{Op: OpEnd} }
