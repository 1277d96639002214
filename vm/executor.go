package vm

import (
	"fmt"

	"github.com/coregx/automata/internal/conv"
	"github.com/coregx/automata/internal/sparse"
)

// thread is one execution path: a program counter resting on a consuming,
// boundary or Match instruction, plus its capture snapshot.
type thread struct {
	pc    PC
	saved Saved
}

// threadList holds the threads of one generation in priority order. seen
// records every pc visited while scheduling into the list, which limits the
// list to one thread per instruction.
type threadList struct {
	threads []thread
	seen    *sparse.Set
}

func newThreadList(capacity int) threadList {
	return threadList{
		threads: make([]thread, 0, capacity),
		seen:    sparse.New(conv.IntToUint32(capacity)),
	}
}

func (l *threadList) clear() {
	l.threads = l.threads[:0]
	l.seen.Clear()
}

// frame is a deferred branch of a Split waiting on the scheduling stack.
type frame struct {
	pc    PC
	saved Saved
}

// input is one value fed to a step: a byte or a boundary.
type input struct {
	boundary bool
	value    uint32 // byte value, or Boundary when boundary is set
}

func byteInput(c byte) input         { return input{value: uint32(c)} }
func boundaryInput(b Boundary) input { return input{boundary: true, value: uint32(b)} }

// StepResult is the outcome of one executor step.
type StepResult uint8

const (
	// NeedMoreInput means threads are still alive.
	NeedMoreInput StepResult = iota
	// Matched means no thread is alive and a match was recorded.
	Matched
	// Terminated means no thread is alive and nothing matched.
	Terminated
)

// Stats describes the work done by the last Run.
type Stats struct {
	// Steps is the number of input values processed.
	Steps int
	// MaxThreads is the largest number of threads alive after a step.
	MaxThreads int
}

// Executor runs a Program with the Pike VM algorithm.
//
// An Executor holds mutable per-run state and is not safe for concurrent
// use. It may be reused for any number of sequential runs.
type Executor struct {
	prog Program

	lists [2]threadList
	cur   int

	stack []frame

	best    Saved
	matched bool

	stats Stats
}

// NewExecutor creates an executor for prog. The thread lists are sized to
// the program length up front.
func NewExecutor(prog Program) *Executor {
	n := prog.Len()
	return &Executor{
		prog:  prog,
		lists: [2]threadList{newThreadList(n), newThreadList(n)},
		stack: make([]frame, 0, n),
	}
}

// Program returns the executed program.
func (e *Executor) Program() Program {
	return e.prog
}

// Stats returns statistics about the last Run.
func (e *Executor) Stats() Stats {
	return e.stats
}

// Run executes the program on input starting at byte offset start and
// returns the captures of the highest priority match. Slots never written
// on the winning path are -1; the result has as many slots as the largest
// slot written, so callers should index it through Captures.Group.
//
// A StartOfString boundary is fed first when start is 0, then every byte
// from start on, then EndOfString. Each capture slot holds a byte offset into
// input.
func (e *Executor) Run(input []byte, start int) (Captures, bool) {
	e.reset()
	e.schedule(&e.lists[e.cur], 0, Saved{}, start, start)
	e.stats.MaxThreads = len(e.lists[e.cur].threads)

	if start == 0 {
		if r := e.step(boundaryInput(StartOfString), 0, 0); r != NeedMoreInput {
			return e.result()
		}
	}
	for i := start; i < len(input); i++ {
		if r := e.step(byteInput(input[i]), i, i+1); r != NeedMoreInput {
			return e.result()
		}
	}
	end := max(start, len(input))
	if r := e.step(boundaryInput(EndOfString), end, end); r != NeedMoreInput {
		return e.result()
	}
	e.finalStep()
	return e.result()
}

func (e *Executor) reset() {
	e.lists[0].clear()
	e.lists[1].clear()
	e.cur = 0
	e.best = Saved{}
	e.matched = false
	e.stats = Stats{}
}

func (e *Executor) result() (Captures, bool) {
	if !e.matched {
		return nil, false
	}
	return e.best.Captures(-1), true
}

// step evaluates every current thread against in. inPos is the offset of
// in and nextPos the offset after it; both are equal for boundaries.
func (e *Executor) step(in input, inPos, nextPos int) StepResult {
	current := &e.lists[e.cur]
	next := &e.lists[1-e.cur]
	next.clear()
	e.stats.Steps++

loop:
	for _, t := range current.threads {
		inst, npc := e.prog.Fetch(t.pc)
		switch {
		case inst.consumes():
			if in.boundary {
				// Boundaries never consume bytes; wait for the next one.
				e.schedule(next, t.pc, t.saved, inPos, nextPos)
				continue
			}
			if inst.accepts(in.value) {
				e.schedule(next, npc, t.saved, inPos, nextPos)
			}
		case inst.Op == OpSpecial:
			switch {
			case !in.boundary:
			case in.value == uint32(inst.Boundary):
				e.schedule(next, npc, t.saved, inPos, nextPos)
			default:
				// Boundaries are zero-width; the other kind may still follow.
				e.schedule(next, t.pc, t.saved, inPos, nextPos)
			}
		case inst.Op == OpMatch:
			e.best = t.saved
			e.matched = true
			// Remaining threads have lower priority than this match.
			break loop
		default:
			panic(fmt.Sprintf("vm: %s instruction reached the step loop at pc %d", inst.Op, t.pc))
		}
	}
	current.clear()
	e.cur = 1 - e.cur
	e.stats.MaxThreads = max(e.stats.MaxThreads, len(next.threads))

	switch {
	case len(next.threads) > 0:
		return NeedMoreInput
	case e.matched:
		return Matched
	}
	return Terminated
}

// finalStep promotes the highest priority thread resting on Match after
// the end of input has been fed.
func (e *Executor) finalStep() {
	for _, t := range e.lists[e.cur].threads {
		if inst, _ := e.prog.Fetch(t.pc); inst.Op == OpMatch {
			e.best = t.saved
			e.matched = true
			return
		}
	}
}

// schedule adds the thread at pc to list, first resolving every Jump, Split
// and Save reachable without consuming input. Split targets are explored
// depth first with X before Y, so list order follows program priority. A pc
// already visited for list is not entered again.
func (e *Executor) schedule(list *threadList, pc PC, saved Saved, inPos, nextPos int) {
	e.stack = append(e.stack[:0], frame{pc: pc, saved: saved})
	for len(e.stack) > 0 {
		f := e.stack[len(e.stack)-1]
		e.stack = e.stack[:len(e.stack)-1]
		e.follow(list, f.pc, f.saved, inPos, nextPos)
	}
}

func (e *Executor) follow(list *threadList, pc PC, saved Saved, inPos, nextPos int) {
	for list.seen.Insert(uint32(pc)) {
		inst, npc := e.prog.Fetch(pc)
		switch inst.Op {
		case OpJump:
			pc = inst.X
		case OpSplit:
			e.stack = append(e.stack, frame{pc: inst.Y, saved: saved})
			pc = inst.X
		case OpSave:
			pos := nextPos
			if inst.Lookbehind {
				pos = inPos
			}
			saved = saved.With(inst.Slot, pos)
			pc = npc
		default:
			list.threads = append(list.threads, thread{pc: pc, saved: saved})
			return
		}
	}
}
