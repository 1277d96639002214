// Package vm provides the bytecode program representation and a Pike VM that
// executes it.
//
// A program is a sequence of instructions addressed by program counter. The
// executor runs every viable path ("thread") through the program in lock
// step, one input byte at a time, so matching is linear in the input length.
// Threads are kept in priority order and at most one thread per program
// counter survives each step; the first thread to reach Match wins.
package vm

import (
	"fmt"
	"strconv"
)

// PC is a program counter: an index into a program.
type PC uint32

// Op is the kind of an Instruction.
type Op uint8

const (
	// OpAny consumes any one byte.
	OpAny Op = iota
	// OpRange consumes one byte in [Lo, Hi).
	OpRange
	// OpChar consumes the byte Lo.
	OpChar
	// OpSpecial consumes the zero-width boundary Boundary.
	OpSpecial
	// OpMatch declares success.
	OpMatch
	// OpSplit continues at X, and with lower priority at Y.
	OpSplit
	// OpSave records the current position into capture slot Slot.
	OpSave
	// OpJump continues at X.
	OpJump
)

var opNames = [...]string{
	OpAny:     "any",
	OpRange:   "range",
	OpChar:    "char",
	OpSpecial: "special",
	OpMatch:   "match",
	OpSplit:   "split",
	OpSave:    "save",
	OpJump:    "jump",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Boundary is a zero-width input symbol fed around the input bytes.
type Boundary uint8

const (
	// StartOfString is fed before the first byte when a run starts at 0.
	StartOfString Boundary = iota
	// EndOfString is fed after the last byte.
	EndOfString
)

func (b Boundary) String() string {
	if b == StartOfString {
		return "start"
	}
	return "end"
}

// Instruction is one bytecode instruction. Which fields are meaningful
// depends on Op.
type Instruction struct {
	Op Op

	Lo, Hi uint32 // OpRange [Lo, Hi); OpChar Lo

	Boundary Boundary // OpSpecial

	X, Y PC // OpSplit X then Y; OpJump X

	Slot       int  // OpSave
	Lookbehind bool // OpSave: record the position before the current input
}

// Any returns an instruction consuming any byte.
func Any() Instruction { return Instruction{Op: OpAny} }

// Range returns an instruction consuming one byte in [lo, hi).
func Range(lo, hi uint32) Instruction { return Instruction{Op: OpRange, Lo: lo, Hi: hi} }

// Char returns an instruction consuming the byte c.
func Char(c byte) Instruction { return Instruction{Op: OpChar, Lo: uint32(c)} }

// Special returns an instruction consuming the boundary b.
func Special(b Boundary) Instruction { return Instruction{Op: OpSpecial, Boundary: b} }

// Match returns the success instruction.
func Match() Instruction { return Instruction{Op: OpMatch} }

// Split returns a branch preferring x over y.
func Split(x, y PC) Instruction { return Instruction{Op: OpSplit, X: x, Y: y} }

// Save returns an instruction recording the current position into slot.
func Save(slot int, lookbehind bool) Instruction {
	return Instruction{Op: OpSave, Slot: slot, Lookbehind: lookbehind}
}

// Jump returns an unconditional transfer to pc.
func Jump(pc PC) Instruction { return Instruction{Op: OpJump, X: pc} }

// consumes reports whether the instruction waits for an input byte.
func (i Instruction) consumes() bool {
	return i.Op == OpAny || i.Op == OpRange || i.Op == OpChar
}

// accepts reports whether a consuming instruction matches the byte c.
func (i Instruction) accepts(c uint32) bool {
	switch i.Op {
	case OpAny:
		return true
	case OpRange:
		return i.Lo <= c && c < i.Hi
	case OpChar:
		return c == i.Lo
	}
	return false
}

func (i Instruction) String() string {
	switch i.Op {
	case OpRange:
		return fmt.Sprintf("range %s-%s", byteString(i.Lo), byteString(i.Hi))
	case OpChar:
		return "char " + byteString(i.Lo)
	case OpSpecial:
		return "special " + i.Boundary.String()
	case OpSplit:
		return fmt.Sprintf("split %d, %d", i.X, i.Y)
	case OpSave:
		if i.Lookbehind {
			return fmt.Sprintf("save %d (lookbehind)", i.Slot)
		}
		return fmt.Sprintf("save %d", i.Slot)
	case OpJump:
		return fmt.Sprintf("jump %d", i.X)
	}
	return i.Op.String()
}

func byteString(c uint32) string {
	if c > 0x20 && c < 0x7f {
		return strconv.QuoteRune(rune(c))
	}
	return fmt.Sprintf("0x%02x", c)
}
