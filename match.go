package automata

// Match is one match of a Regexp in an input.
//
// Group 0 is the whole match; groups 1 through NumSubexp are the
// parenthesized subexpressions in the order of their opening parenthesis.
type Match struct {
	re    *Regexp
	input []byte
	caps  []int
}

// Index returns the offset of the first byte of the match.
func (m *Match) Index() int {
	return m.caps[0]
}

// LastIndex returns the offset just past the match.
func (m *Match) LastIndex() int {
	return m.caps[1]
}

// Indices returns a copy of the capture slots: the start and end of group i
// are at 2i and 2i+1, -1 for groups that did not participate.
func (m *Match) Indices() []int {
	return append([]int(nil), m.caps...)
}

// Group returns the text captured by group i, or nil when the group did not
// participate or does not exist.
func (m *Match) Group(i int) []byte {
	if i < 0 || 2*i+1 >= len(m.caps) {
		return nil
	}
	start, end := m.caps[2*i], m.caps[2*i+1]
	if start < 0 || end < 0 {
		return nil
	}
	return m.input[start:end:end]
}

// GroupString is like Group but returns a string. ok is false when the group
// did not participate or does not exist.
func (m *Match) GroupString(i int) (s string, ok bool) {
	b := m.Group(i)
	if b == nil {
		return "", false
	}
	return string(b), true
}

// NamedGroup returns the text captured by the group called name. It
// returns ErrNoSuchGroup when the pattern has no such group; a group that did
// not participate yields nil and no error.
func (m *Match) NamedGroup(name string) ([]byte, error) {
	g := m.re.SubexpIndex(name)
	if g < 0 {
		return nil, ErrNoSuchGroup
	}
	return m.Group(g), nil
}

// Groups returns the text of every group, nil for the ones that did not
// participate.
func (m *Match) Groups() [][]byte {
	out := make([][]byte, len(m.caps)/2)
	for i := range out {
		out[i] = m.Group(i)
	}
	return out
}

// Next returns the following non-overlapping match, or nil.
//
// The search resumes at LastIndex. After an empty match it resumes one byte
// later, and an empty match abutting a non-empty one is skipped, so
// iteration always makes progress.
func (m *Match) Next() *Match {
	prevEmpty := m.Index() == m.LastIndex()
	start := m.LastIndex()
	if prevEmpty {
		start++
	}
	for start <= len(m.input) {
		caps := m.re.exec(m.input, start)
		if caps == nil {
			return nil
		}
		if caps[0] == caps[1] && caps[0] == m.LastIndex() && !prevEmpty {
			start = caps[0] + 1
			continue
		}
		return &Match{re: m.re, input: m.input, caps: caps}
	}
	return nil
}
