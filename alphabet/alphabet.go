// Package alphabet partitions the input domain into disjoint symbol classes.
//
// The engine is byte oriented: the character domain is [0, 256) and two extra
// code values represent the zero-width start-of-string and end-of-string
// boundaries. An Alphabet records every offset at which some pattern atom
// begins or ends. Any two code values separated by a recorded offset fall into
// different classes, so automata built over the classes can always tell them
// apart.
//
// Example for the pattern [a-z]+ the classes are:
//   - [0x00, 0x61)  bytes before 'a'
//   - [0x61, 0x7b)  'a' to 'z'
//   - [0x7b, 0x100) bytes after 'z'
//   - [0x100, 0x101) start of string
//   - [0x101, 0x102) end of string
package alphabet

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

const (
	// Domain is the number of character code values (one per byte).
	Domain = 256

	startCode = Domain
	endCode   = Domain + 1
	limit     = Domain + 2
)

var (
	// StartOfString is the boundary symbol fed before the first byte.
	StartOfString = Symbol{Lo: startCode, Hi: startCode + 1}

	// EndOfString is the boundary symbol fed after the last byte.
	EndOfString = Symbol{Lo: endCode, Hi: endCode + 1}

	// Any covers every character code value.
	Any = Symbol{Lo: 0, Hi: Domain}
)

// Symbol is the half-open range [Lo, Hi) of code values.
type Symbol struct {
	Lo, Hi uint32
}

// Char returns the symbol holding the single byte c.
func Char(c byte) Symbol {
	return Symbol{Lo: uint32(c), Hi: uint32(c) + 1}
}

// Range returns the symbol holding the bytes lo through hi inclusive.
func Range(lo, hi byte) Symbol {
	return Symbol{Lo: uint32(lo), Hi: uint32(hi) + 1}
}

// Compare orders symbols by Lo, then by Hi.
func (s Symbol) Compare(o Symbol) int {
	if s.Lo != o.Lo {
		if s.Lo < o.Lo {
			return -1
		}
		return 1
	}
	switch {
	case s.Hi < o.Hi:
		return -1
	case s.Hi > o.Hi:
		return 1
	}
	return 0
}

// Contains reports whether code value c lies in s.
func (s Symbol) Contains(c uint32) bool {
	return s.Lo <= c && c < s.Hi
}

// IsEmpty reports whether s holds no code values.
func (s Symbol) IsEmpty() bool {
	return s.Hi <= s.Lo
}

// IsBoundary reports whether s lies outside the character domain.
func (s Symbol) IsBoundary() bool {
	return s.Lo >= Domain
}

// String renders s in a regex-like form.
func (s Symbol) String() string {
	switch {
	case s == StartOfString:
		return "^"
	case s == EndOfString:
		return "$"
	case s.IsEmpty():
		return "[]"
	case s.Hi == s.Lo+1:
		return quote(s.Lo)
	}
	return "[" + quote(s.Lo) + "-" + quote(s.Hi-1) + "]"
}

func quote(c uint32) string {
	if c >= 0x21 && c < 0x7f && !strings.ContainsRune(`[]-^$\`, rune(c)) {
		return string(rune(c))
	}
	return fmt.Sprintf(`\x%02x`, c)
}

// Alphabet is a set of class boundaries over [0, Domain+2).
//
// Bit i of bits is set when a class begins at offset i. Offsets 0, Domain,
// Domain+1 and Domain+2 are always set, so the boundary symbols are always
// classes of their own.
type Alphabet struct {
	bits [(limit + 64) / 64]uint64
}

// New creates an alphabet whose only classes are the whole character domain
// and the two boundary symbols.
func New() *Alphabet {
	a := &Alphabet{}
	a.set(0)
	a.set(startCode)
	a.set(endCode)
	a.set(limit)
	return a
}

func (a *Alphabet) set(off uint32) {
	a.bits[off/64] |= 1 << (off % 64)
}

func (a *Alphabet) isSet(off uint32) bool {
	return a.bits[off/64]&(1<<(off%64)) != 0
}

// Insert records the offsets of s so that s becomes a union of classes.
func (a *Alphabet) Insert(s Symbol) {
	if s.IsEmpty() {
		return
	}
	a.set(min(s.Lo, limit))
	a.set(min(s.Hi, limit))
}

// Merge adds every boundary of other to a.
func (a *Alphabet) Merge(other *Alphabet) {
	for i := range a.bits {
		a.bits[i] |= other.bits[i]
	}
}

// floor returns the largest recorded offset <= c.
func (a *Alphabet) floor(c uint32) uint32 {
	word := c / 64
	mask := a.bits[word] & (^uint64(0) >> (63 - c%64))
	for mask == 0 {
		word--
		mask = a.bits[word]
	}
	return word*64 + uint32(63-bits.LeadingZeros64(mask))
}

// ceil returns the smallest recorded offset > c.
func (a *Alphabet) ceil(c uint32) uint32 {
	c++
	word := c / 64
	mask := a.bits[word] &^ (1<<(c%64) - 1)
	for mask == 0 {
		word++
		mask = a.bits[word]
	}
	return word*64 + uint32(bits.TrailingZeros64(mask))
}

// Get returns the class containing code value c.
// Panics if c is outside [0, Domain+2).
func (a *Alphabet) Get(c uint32) Symbol {
	if c >= limit {
		panic(fmt.Sprintf("alphabet: code value %d out of range", c))
	}
	return Symbol{Lo: a.floor(c), Hi: a.ceil(c)}
}

// AllSymbols returns every class in ascending order, boundaries included.
func (a *Alphabet) AllSymbols() []Symbol {
	var out []Symbol
	for lo := uint32(0); lo < limit; {
		hi := a.ceil(lo)
		out = append(out, Symbol{Lo: lo, Hi: hi})
		lo = hi
	}
	return out
}

// Len returns the number of classes, boundaries included.
func (a *Alphabet) Len() int {
	n := 0
	for _, w := range a.bits {
		n += bits.OnesCount64(w)
	}
	return n - 1
}

// Decimate splits s at every recorded offset strictly inside it. The
// returned pieces are ascending and cover s exactly.
func (a *Alphabet) Decimate(s Symbol) []Symbol {
	if s.IsEmpty() {
		return nil
	}
	var out []Symbol
	lo := s.Lo
	for lo < s.Hi {
		hi := s.Hi
		if lo < limit {
			hi = min(a.ceil(lo), s.Hi)
		}
		out = append(out, Symbol{Lo: lo, Hi: hi})
		lo = hi
	}
	return out
}

// DecimateMany normalizes syms and decimates each resulting range. The
// result is the finest partition of their union consistent with a.
func (a *Alphabet) DecimateMany(syms []Symbol) []Symbol {
	var out []Symbol
	for _, s := range Normalize(syms) {
		out = append(out, a.Decimate(s)...)
	}
	return out
}

// Normalize sorts syms and merges overlapping or adjacent ranges. Empty
// symbols are dropped.
func Normalize(syms []Symbol) []Symbol {
	sorted := slices.DeleteFunc(slices.Clone(syms), Symbol.IsEmpty)
	slices.SortFunc(sorted, Symbol.Compare)
	var out []Symbol
	for _, s := range sorted {
		if n := len(out); n > 0 && s.Lo <= out[n-1].Hi {
			out[n-1].Hi = max(out[n-1].Hi, s.Hi)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Invert returns the complement of syms within the character domain. The
// boundary symbols are never part of the result.
func Invert(syms []Symbol) []Symbol {
	var out []Symbol
	next := uint32(0)
	for _, s := range Normalize(syms) {
		if s.Lo >= Domain {
			break
		}
		if s.Lo > next {
			out = append(out, Symbol{Lo: next, Hi: s.Lo})
		}
		next = max(next, s.Hi)
	}
	if next < Domain {
		out = append(out, Symbol{Lo: next, Hi: Domain})
	}
	return out
}
