package automaton

import (
	"cmp"
	"fmt"
	"slices"
)

// EventKind is the kind of a capture Event.
type EventKind uint8

const (
	// StartMatch marks the position where the overall match begins.
	StartMatch EventKind = iota
	// StartGroup marks the position where a capture group begins.
	StartGroup
	// EndGroup marks the position where a capture group ends.
	EndGroup
)

// Event is a zero-width tag carried as a transducer output on automaton
// edges.
type Event struct {
	Kind  EventKind
	Group int // StartGroup and EndGroup only
}

func (e Event) String() string {
	switch e.Kind {
	case StartMatch:
		return "StartMatch"
	case StartGroup:
		return fmt.Sprintf("StartGroup(%d)", e.Group)
	case EndGroup:
		return fmt.Sprintf("EndGroup(%d)", e.Group)
	}
	return "Event(?)"
}

func compareEvents(a, b Event) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.Group, b.Group)
}

// Events is a sorted set of events. The zero value is the empty set.
type Events []Event

// Merge returns the union of e and o. Neither operand is modified.
func (e Events) Merge(o Events) Events {
	switch {
	case len(o) == 0:
		return e
	case len(e) == 0:
		return o
	}
	out := make(Events, 0, len(e)+len(o))
	out = append(out, e...)
	out = append(out, o...)
	slices.SortFunc(out, compareEvents)
	return slices.Compact(out)
}

// Contains reports whether ev is in the set.
func (e Events) Contains(ev Event) bool {
	_, ok := slices.BinarySearchFunc(e, ev, compareEvents)
	return ok
}

// Metadata accumulates capture group information while compiling a tree.
type Metadata struct {
	// NumGroups is the number of capturing groups seen so far; group ids are
	// assigned in traversal order starting at 0.
	NumGroups int

	// NamedGroups maps group names to ids.
	NamedGroups map[string]int

	// Names lists the name of each group by id ("" when unnamed).
	Names []string
}

// NewMetadata returns empty metadata.
func NewMetadata() *Metadata {
	return &Metadata{NamedGroups: make(map[string]int)}
}

// allocGroup assigns the next group id and records its name.
func (m *Metadata) allocGroup(name string) int {
	id := m.NumGroups
	m.NumGroups++
	m.Names = append(m.Names, name)
	if name != "" {
		if m.NamedGroups == nil {
			m.NamedGroups = make(map[string]int)
		}
		if _, dup := m.NamedGroups[name]; !dup {
			m.NamedGroups[name] = id
		}
	}
	return id
}
