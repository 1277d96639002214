// Package compiler lowers regex syntax trees into bytecode programs for the
// vm executor.
//
// Each node becomes a fragment of instructions that falls through to the
// instruction after it. Alternatives and repetitions are expressed with
// Split, whose first target has priority, so the order of Split targets
// decides between greedy and lazy repetition and between the branches of an
// alternation.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coregx/automata/alphabet"
	"github.com/coregx/automata/internal/conv"
	"github.com/coregx/automata/syntax"
	"github.com/coregx/automata/vm"
)

// ErrTooComplex indicates the program grew past Config.MaxProgramLen or the
// tree nests deeper than Config.MaxRecursionDepth.
var ErrTooComplex = errors.New("pattern too complex")

// Config limits the size of compiled programs.
type Config struct {
	// MaxProgramLen is the largest number of instructions a program may have.
	// Default: 100000
	MaxProgramLen int

	// MaxRecursionDepth limits the nesting depth of the syntax tree.
	// Default: 1000
	MaxRecursionDepth int
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		MaxProgramLen:     100_000,
		MaxRecursionDepth: 1000,
	}
}

// Compilation is a compiled program plus the layout of its capture slots.
type Compilation struct {
	Program vm.VecProgram

	// Groups holds, per capturing group, the slots recording its start and
	// end position.
	Groups [][2]int

	// GroupsByName maps a group name to its index in Groups. When a name is
	// used twice the first group keeps it.
	GroupsByName map[string]int

	// Names holds the name of every group, "" for unnamed ones.
	Names []string
}

// NumSlots returns the number of capture slots written by the program.
func (c *Compilation) NumSlots() int {
	return 2 * len(c.Groups)
}

// Assembly returns a listing of the program.
func (c *Compilation) Assembly() string {
	var b strings.Builder
	if len(c.Groups) > 0 {
		fmt.Fprintf(&b, "; %d groups\n", len(c.Groups))
	}
	b.WriteString(c.Program.Assembly())
	return b.String()
}

type compiler struct {
	config Config
	prog   vm.VecProgram
	groups map[*syntax.Node]int
	depth  int
}

// Compile lowers n into a program ending in Match. Capturing groups are
// numbered in pre-order and group g records into slots 2g and 2g+1; a group
// repeated by a quantifier reuses its slots in every copy.
func Compile(n *syntax.Node, config Config) (*Compilation, error) {
	defaults := DefaultConfig()
	if config.MaxProgramLen == 0 {
		config.MaxProgramLen = defaults.MaxProgramLen
	}
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = defaults.MaxRecursionDepth
	}

	out := &Compilation{GroupsByName: make(map[string]int)}
	c := &compiler{config: config, groups: make(map[*syntax.Node]int)}
	syntax.Walk(n, func(n *syntax.Node) bool {
		if n.Op != syntax.OpCapture || !n.Capturing {
			return true
		}
		g := len(out.Groups)
		c.groups[n] = g
		out.Groups = append(out.Groups, [2]int{2 * g, 2*g + 1})
		out.Names = append(out.Names, n.Name)
		if n.Name != "" {
			if _, dup := out.GroupsByName[n.Name]; !dup {
				out.GroupsByName[n.Name] = g
			}
		}
		return true
	})

	if err := c.node(n); err != nil {
		return nil, err
	}
	c.emit(vm.Match())
	if err := c.checkLen(); err != nil {
		return nil, err
	}
	if err := c.prog.Validate(); err != nil {
		return nil, fmt.Errorf("compiler produced an invalid program: %w", err)
	}
	out.Program = c.prog
	return out, nil
}

func (c *compiler) pc() vm.PC {
	return vm.PC(conv.IntToUint32(len(c.prog)))
}

func (c *compiler) emit(inst vm.Instruction) vm.PC {
	pc := c.pc()
	c.prog = append(c.prog, inst)
	return pc
}

// placeholder reserves an instruction to be patched once its targets are
// known.
func (c *compiler) placeholder() vm.PC {
	return c.emit(vm.Instruction{Op: vm.OpJump})
}

func (c *compiler) patch(pc vm.PC, inst vm.Instruction) {
	c.prog[pc] = inst
}

// split returns a Split preferring body over skip when greedy.
func split(body, skip vm.PC, greedy bool) vm.Instruction {
	if greedy {
		return vm.Split(body, skip)
	}
	return vm.Split(skip, body)
}

func (c *compiler) checkLen() error {
	if len(c.prog) > c.config.MaxProgramLen {
		return fmt.Errorf("%w: program exceeds %d instructions", ErrTooComplex, c.config.MaxProgramLen)
	}
	return nil
}

func (c *compiler) node(n *syntax.Node) error {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.config.MaxRecursionDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrTooComplex, c.config.MaxRecursionDepth)
	}
	if err := c.checkLen(); err != nil {
		return err
	}

	switch n.Op {
	case syntax.OpStart:
		c.emit(vm.Special(vm.StartOfString))

	case syntax.OpEnd:
		c.emit(vm.Special(vm.EndOfString))

	case syntax.OpLiteral:
		c.emit(vm.Char(n.Literal))

	case syntax.OpClass:
		return c.class(n)

	case syntax.OpExpr:
		for _, x := range n.Children {
			if err := c.node(x); err != nil {
				return err
			}
		}

	case syntax.OpAlt:
		if len(n.Children) == 0 {
			c.emit(never())
			return nil
		}
		return alternation(c, n.Children, (*compiler).node)

	case syntax.OpCapture:
		if !n.Capturing {
			return c.node(n.Children[0])
		}
		g := c.groups[n]
		c.emit(vm.Save(2*g, false))
		if err := c.node(n.Children[0]); err != nil {
			return err
		}
		c.emit(vm.Save(2*g+1, false))

	case syntax.OpQuantified:
		return c.quantified(n.Children[0], n.Quantifier)

	default:
		return fmt.Errorf("compiler: unknown node %v", n.Op)
	}
	return nil
}

// never returns an instruction that matches no byte.
func never() vm.Instruction {
	return vm.Range(0, 0)
}

func (c *compiler) class(n *syntax.Node) error {
	syms := n.Symbols()
	switch {
	case len(syms) == 0:
		c.emit(never())
		return nil
	case len(syms) == 1 && syms[0] == alphabet.Any:
		c.emit(vm.Any())
		return nil
	}
	return alternation(c, syms, func(c *compiler, s alphabet.Symbol) error {
		if err := c.checkLen(); err != nil {
			return err
		}
		if s.Hi == s.Lo+1 {
			c.emit(vm.Char(byte(s.Lo)))
		} else {
			c.emit(vm.Range(s.Lo, s.Hi))
		}
		return nil
	})
}

// alternation lowers items as a chain of Splits, each preferring the next
// item over the rest of the chain:
//
//	split L1, L2
//	L1: item 0
//	    jump END
//	L2: split L3, L4
//	...
//	END:
func alternation[T any](c *compiler, items []T, lower func(*compiler, T) error) error {
	var jumps []vm.PC
	for i, item := range items {
		if i == len(items)-1 {
			if err := lower(c, item); err != nil {
				return err
			}
			break
		}
		s := c.placeholder()
		if err := lower(c, item); err != nil {
			return err
		}
		jumps = append(jumps, c.placeholder())
		c.patch(s, vm.Split(s+1, c.pc()))
	}
	end := c.pc()
	for _, j := range jumps {
		c.patch(j, vm.Jump(end))
	}
	return nil
}

func (c *compiler) quantified(x *syntax.Node, q syntax.Quantifier) error {
	switch q.Kind {
	case syntax.ZeroOrOne:
		return c.optional(x, 1, q.Greedy)

	case syntax.ZeroOrMore:
		return c.star(x, q.Greedy)

	case syntax.OneOrMore:
		start := c.pc()
		if err := c.node(x); err != nil {
			return err
		}
		c.emit(split(start, c.pc()+1, q.Greedy))
		return nil

	case syntax.ExactlyN:
		return c.repeat(x, q.Min)

	case syntax.NOrMore:
		if err := c.repeat(x, q.Min); err != nil {
			return err
		}
		return c.star(x, q.Greedy)

	case syntax.Between:
		if err := c.repeat(x, q.Min); err != nil {
			return err
		}
		return c.optional(x, q.Max-q.Min, q.Greedy)
	}
	return fmt.Errorf("compiler: unknown quantifier kind %d", q.Kind)
}

func (c *compiler) repeat(x *syntax.Node, n int) error {
	for range n {
		if err := c.node(x); err != nil {
			return err
		}
	}
	return nil
}

// star lowers x*:
//
//	L: split BODY, END
//	BODY: x
//	   jump L
//	END:
func (c *compiler) star(x *syntax.Node, greedy bool) error {
	s := c.placeholder()
	if err := c.node(x); err != nil {
		return err
	}
	c.emit(vm.Jump(s))
	c.patch(s, split(s+1, c.pc(), greedy))
	return nil
}

// optional lowers n nested optional copies of x, (x(x)?)? for n = 2. Every
// Split skips to the common end.
func (c *compiler) optional(x *syntax.Node, n int, greedy bool) error {
	splits := make([]vm.PC, 0, n)
	for range n {
		splits = append(splits, c.placeholder())
		if err := c.node(x); err != nil {
			return err
		}
	}
	end := c.pc()
	for _, s := range splits {
		c.patch(s, split(s+1, end, greedy))
	}
	return nil
}
