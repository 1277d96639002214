package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coregx/automata/internal/conv"
)

// ErrInvalidProgram indicates a program that cannot be executed safely.
var ErrInvalidProgram = errors.New("invalid program")

// ProgramError describes the instruction that makes a program invalid.
type ProgramError struct {
	PC      PC
	Message string
}

// Error implements the error interface
func (e *ProgramError) Error() string {
	return fmt.Sprintf("invalid program at pc %d: %s", e.PC, e.Message)
}

// Unwrap returns ErrInvalidProgram
func (e *ProgramError) Unwrap() error {
	return ErrInvalidProgram
}

// Program is the executor's view of compiled code.
type Program interface {
	// Fetch returns the instruction at pc and the pc that follows it.
	Fetch(pc PC) (Instruction, PC)

	// Len returns the number of instructions.
	Len() int
}

// VecProgram is a Program stored as a slice of instructions.
type VecProgram []Instruction

// Fetch implements Program.
func (p VecProgram) Fetch(pc PC) (Instruction, PC) {
	return p[pc], pc + 1
}

// Len implements Program.
func (p VecProgram) Len() int {
	return len(p)
}

// NumSlots returns one more than the largest capture slot written by a Save
// instruction, or 0 when there is none.
func (p VecProgram) NumSlots() int {
	n := 0
	for _, inst := range p {
		if inst.Op == OpSave && inst.Slot+1 > n {
			n = inst.Slot + 1
		}
	}
	return n
}

// Validate checks that every branch target is in range, that no
// instruction falls through past the end, and that capture slots are
// non-negative. The executor assumes a valid program.
func (p VecProgram) Validate() error {
	if len(p) == 0 {
		return &ProgramError{PC: 0, Message: "empty program"}
	}
	n := PC(conv.IntToUint32(len(p)))
	for i, inst := range p {
		pc := PC(conv.IntToUint32(i))
		switch inst.Op {
		case OpSplit:
			if inst.X >= n || inst.Y >= n {
				return &ProgramError{PC: pc, Message: fmt.Sprintf("split target out of range (%d, %d)", inst.X, inst.Y)}
			}
			continue
		case OpJump:
			if inst.X >= n {
				return &ProgramError{PC: pc, Message: fmt.Sprintf("jump target %d out of range", inst.X)}
			}
			continue
		case OpMatch:
			continue
		case OpSave:
			if inst.Slot < 0 {
				return &ProgramError{PC: pc, Message: fmt.Sprintf("negative capture slot %d", inst.Slot)}
			}
		case OpSpecial:
			if inst.Boundary > EndOfString {
				return &ProgramError{PC: pc, Message: fmt.Sprintf("unknown boundary %d", inst.Boundary)}
			}
		case OpAny, OpRange, OpChar:
		default:
			return &ProgramError{PC: pc, Message: "unknown opcode " + inst.Op.String()}
		}
		if pc+1 == n {
			return &ProgramError{PC: pc, Message: inst.Op.String() + " falls off the end of the program"}
		}
	}
	return nil
}

// Assembly returns a listing of the program, one instruction per line.
func (p VecProgram) Assembly() string {
	var b strings.Builder
	for i, inst := range p {
		fmt.Fprintf(&b, "%4d  %s\n", i, inst)
	}
	return b.String()
}
