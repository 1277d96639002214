package syntax

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"slices"
	"unicode"
	"unicode/utf8"
)

// Common syntax errors
var (
	// ErrUnsupported indicates the pattern uses a feature this engine cannot
	// express.
	ErrUnsupported = errors.New("unsupported regex feature")
)

// UnsupportedError names the unsupported feature found in a pattern.
type UnsupportedError struct {
	Feature string
}

// Error implements the error interface
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported regex feature: %s", e.Feature)
}

// Unwrap returns ErrUnsupported
func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// Flags alter how a pattern is parsed.
type Flags uint8

const (
	// FoldCase matches letters case-insensitively.
	FoldCase Flags = 1 << iota
)

// maxClassRunes bounds the number of non-ASCII runes a class may list
// individually.
const maxClassRunes = 256

// Parse parses pattern with Perl syntax and converts it into a Node tree.
//
// Malformed patterns return the *regexp/syntax.Error unchanged. Multi-line
// anchors, word boundaries and very large non-ASCII classes return an
// *UnsupportedError.
func Parse(pattern string, flags Flags) (*Node, error) {
	pf := syntax.Perl
	if flags&FoldCase != 0 {
		pf |= syntax.FoldCase
	}
	re, err := syntax.Parse(pattern, pf)
	if err != nil {
		return nil, err
	}
	return convert(re)
}

func convert(re *syntax.Regexp) (*Node, error) {
	switch re.Op {
	case syntax.OpNoMatch:
		return Class(false), nil
	case syntax.OpEmptyMatch:
		return Concat(), nil
	case syntax.OpLiteral:
		return convertLiteral(re.Rune, re.Flags&syntax.FoldCase != 0), nil
	case syntax.OpCharClass:
		return convertClass(re.Rune)
	case syntax.OpAnyCharNotNL:
		return Class(true, Value('\n')), nil
	case syntax.OpAnyChar:
		return Class(false, Char{Kind: KindWildcard}), nil
	case syntax.OpBeginText:
		return Start(), nil
	case syntax.OpEndText:
		return End(), nil
	case syntax.OpBeginLine, syntax.OpEndLine:
		return nil, &UnsupportedError{Feature: "multi-line anchor " + re.String()}
	case syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return nil, &UnsupportedError{Feature: "word boundary " + re.String()}
	case syntax.OpCapture:
		sub, err := convert(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Group(sub, re.Name), nil
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		sub, err := convert(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Quantify(sub, quantifier(re)), nil
	case syntax.OpConcat, syntax.OpAlternate:
		children := make([]*Node, 0, len(re.Sub))
		for _, s := range re.Sub {
			c, err := convert(s)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		if re.Op == syntax.OpConcat {
			return Concat(children...), nil
		}
		return Alt(children...), nil
	}
	return nil, &UnsupportedError{Feature: fmt.Sprintf("operator %v", re.Op)}
}

func quantifier(re *syntax.Regexp) Quantifier {
	q := Quantifier{Greedy: re.Flags&syntax.NonGreedy == 0}
	switch re.Op {
	case syntax.OpStar:
		q.Kind = ZeroOrMore
	case syntax.OpPlus:
		q.Kind = OneOrMore
	case syntax.OpQuest:
		q.Kind = ZeroOrOne
	default:
		q.Min, q.Max = re.Min, re.Max
		switch {
		case re.Max == -1:
			q.Kind = NOrMore
		case re.Min == re.Max:
			q.Kind = ExactlyN
		default:
			q.Kind = Between
		}
	}
	return q
}

// convertLiteral turns a rune string into a sequence of byte literals.
// Case-folded runes become a class (ASCII orbits) or an alternation of
// encodings.
func convertLiteral(runes []rune, fold bool) *Node {
	seq := Concat()
	for _, r := range runes {
		if fold {
			if orbit := foldOrbit(r); len(orbit) > 1 {
				seq.Children = append(seq.Children, runeSet(orbit))
				continue
			}
		}
		seq.Children = append(seq.Children, encoded(r).Children...)
	}
	if len(seq.Children) == 1 {
		return seq.Children[0]
	}
	return seq
}

func foldOrbit(r rune) []rune {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	slices.Sort(orbit)
	return orbit
}

// runeSet matches any one rune of set: a class when every rune is ASCII,
// otherwise an alternation of UTF-8 encodings.
func runeSet(set []rune) *Node {
	ascii := true
	for _, r := range set {
		if r >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		chars := make([]Char, len(set))
		for i, r := range set {
			chars[i] = Value(byte(r))
		}
		return Class(false, chars...)
	}
	alt := Alt()
	for _, r := range set {
		alt.Children = append(alt.Children, encoded(r))
	}
	return alt
}

// encoded returns the UTF-8 encoding of r as a sequence of literals.
func encoded(r rune) *Node {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return Text(string(buf[:n]))
}

var (
	perlClasses = map[string]CharKind{}
	perlNames   = map[CharKind]string{
		KindDigit:         `\d`,
		KindWord:          `\w`,
		KindWhitespace:    `\s`,
		KindNotDigit:      `\D`,
		KindNotWord:       `\W`,
		KindNotWhitespace: `\S`,
	}
)

func init() {
	for kind, name := range perlNames {
		re, err := syntax.Parse(name, syntax.Perl)
		if err != nil {
			panic(err)
		}
		perlClasses[runeKey(re.Rune)] = kind
	}
}

func runeKey(ranges []rune) string {
	return fmt.Sprint(ranges)
}

// convertClass turns regexp/syntax class ranges into a byte class.
//
// ASCII ranges map directly. A non-ASCII range reaching the last rune (as in
// negated classes) matches every byte >= 0x80. Other non-ASCII ranges are
// listed rune by rune as alternatives of their UTF-8 encodings.
func convertClass(ranges []rune) (*Node, error) {
	if kind, ok := perlClasses[runeKey(ranges)]; ok {
		return Class(false, Char{Kind: kind}), nil
	}

	class := Class(false)
	var wide []rune
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo < utf8.RuneSelf {
			class.Chars = append(class.Chars, Span(byte(lo), byte(min(hi, utf8.RuneSelf-1))))
			lo = utf8.RuneSelf
		}
		if hi < lo {
			continue
		}
		if hi == unicode.MaxRune {
			class.Chars = append(class.Chars, Span(utf8.RuneSelf, 0xFF))
			continue
		}
		for r := lo; r <= hi; r++ {
			wide = append(wide, r)
			if len(wide) > maxClassRunes {
				return nil, &UnsupportedError{
					Feature: fmt.Sprintf("character class with more than %d non-ASCII runes", maxClassRunes),
				}
			}
		}
	}
	if len(wide) == 0 {
		return class, nil
	}
	alt := runeSet(wide)
	if len(class.Chars) > 0 {
		alt.Children = append([]*Node{class}, alt.Children...)
	}
	return alt, nil
}
