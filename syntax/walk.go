package syntax

import (
	"strconv"
	"strings"

	"github.com/coregx/automata/alphabet"
)

// Walk calls fn for n and its descendants in pre-order. Children of a node
// are skipped when fn returns false for it.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// FillAlphabet inserts into a every byte range used by n, so that the
// alphabet's classes can distinguish every atom of the pattern.
func FillAlphabet(n *Node, a *alphabet.Alphabet) {
	Walk(n, func(n *Node) bool {
		switch n.Op {
		case OpLiteral:
			a.Insert(alphabet.Char(n.Literal))
		case OpClass:
			for _, c := range n.Chars {
				for _, s := range c.Symbols() {
					a.Insert(s)
				}
			}
		}
		return true
	})
}

// HasBetween reports whether n uses a bounded {m,n} repetition.
func HasBetween(n *Node) bool {
	found := false
	Walk(n, func(n *Node) bool {
		if n.Op == OpQuantified && n.Quantifier.Kind == Between {
			found = true
		}
		return !found
	})
	return found
}

// NumGroups returns the number of capturing groups in n.
func NumGroups(n *Node) int {
	count := 0
	Walk(n, func(n *Node) bool {
		if n.Op == OpCapture && n.Capturing {
			count++
		}
		return true
	})
	return count
}

// String renders n in a regex-like debug form.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Op {
	case OpAlt:
		if len(n.Children) == 0 {
			b.WriteString("[^\\x00-\\xff]")
			return
		}
		b.WriteString("(?:")
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte('|')
			}
			c.write(b)
		}
		b.WriteByte(')')
	case OpExpr:
		if len(n.Children) == 0 {
			b.WriteString("(?:)")
			return
		}
		for _, c := range n.Children {
			c.write(b)
		}
	case OpQuantified:
		b.WriteString("(?:")
		n.Children[0].write(b)
		b.WriteByte(')')
		b.WriteString(n.Quantifier.String())
	case OpCapture:
		switch {
		case !n.Capturing:
			b.WriteString("(?:")
		case n.Name != "":
			b.WriteString("(?P<" + n.Name + ">")
		default:
			b.WriteByte('(')
		}
		n.Children[0].write(b)
		b.WriteByte(')')
	case OpClass:
		n.writeClass(b)
	case OpLiteral:
		b.WriteString(literalString(n.Literal))
	case OpStart:
		b.WriteString(`\A`)
	case OpEnd:
		b.WriteString(`\z`)
	}
}

func (n *Node) writeClass(b *strings.Builder) {
	if len(n.Chars) == 1 && !n.Inverted {
		switch c := n.Chars[0]; c.Kind {
		case KindWildcard:
			b.WriteString(`(?s:.)`)
			return
		case KindValue:
			b.WriteString(literalString(c.Lo))
			return
		default:
			if name, ok := perlNames[c.Kind]; ok {
				b.WriteString(name)
				return
			}
		}
	}
	syms := n.Symbols()
	if len(syms) == 0 {
		b.WriteString(`[^\x00-\xff]`)
		return
	}
	b.WriteByte('[')
	for _, s := range syms {
		b.WriteString(classItem(s.Lo))
		if s.Hi-s.Lo > 1 {
			b.WriteByte('-')
			b.WriteString(classItem(s.Hi - 1))
		}
	}
	b.WriteByte(']')
}

func literalString(c byte) string {
	if strings.IndexByte(`\.+*?()|[]{}^$`, c) >= 0 {
		return `\` + string(rune(c))
	}
	return classItem(uint32(c))
}

func classItem(c uint32) string {
	if c >= 0x21 && c < 0x7f && !strings.ContainsRune(`[]-^\`, rune(c)) {
		return string(rune(c))
	}
	return `\x` + strconv.FormatUint(uint64(c)|0x100, 16)[1:]
}

// String renders q as a regex quantifier suffix.
func (q Quantifier) String() string {
	var s string
	switch q.Kind {
	case ZeroOrOne:
		s = "?"
	case ZeroOrMore:
		s = "*"
	case OneOrMore:
		s = "+"
	case ExactlyN:
		s = "{" + strconv.Itoa(q.Min) + "}"
	case NOrMore:
		s = "{" + strconv.Itoa(q.Min) + ",}"
	case Between:
		s = "{" + strconv.Itoa(q.Min) + "," + strconv.Itoa(q.Max) + "}"
	}
	if !q.Greedy {
		s += "?"
	}
	return s
}
