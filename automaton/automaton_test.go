package automaton

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/automata/alphabet"
	"github.com/coregx/automata/fsm"
	"github.com/coregx/automata/syntax"
)

// dfaAccepts determinizes m and runs it on the classes of input, without
// boundary symbols.
func dfaAccepts(m *Machine, alpha *alphabet.Alphabet, input string) bool {
	syms := make([]alphabet.Symbol, len(input))
	for i := 0; i < len(input); i++ {
		syms[i] = alpha.Get(uint32(input[i]))
	}
	return m.Accepts(slices.Values(syms))
}

func build(t *testing.T, n *syntax.Node) (*Machine, *alphabet.Alphabet) {
	t.Helper()
	m, _, alpha := Build(n)
	return m.ComputeDFA(), alpha
}

func TestCompile_Concatenation(t *testing.T) {
	m, alpha := build(t, syntax.Concat(syntax.Lit('a'), syntax.Lit('b')))
	assert.True(t, dfaAccepts(m, alpha, "ab"))
	for _, s := range []string{"a", "b", "", "abc"} {
		assert.False(t, dfaAccepts(m, alpha, s), "%q", s)
	}
}

func TestCompile_Optional(t *testing.T) {
	alpha := alphabet.New()
	alpha.Insert(alphabet.Char('a'))
	m := fsm.Zero[alphabet.Symbol, Events]().Join(oneOf([]alphabet.Symbol{alphabet.Char('a')})).ComputeDFA()
	assert.True(t, dfaAccepts(m, alpha, ""))
	assert.True(t, dfaAccepts(m, alpha, "a"))
	assert.False(t, dfaAccepts(m, alpha, "aa"))
}

func TestCompile_Star(t *testing.T) {
	alpha := alphabet.New()
	alpha.Insert(alphabet.Char('a'))
	m := oneOf([]alphabet.Symbol{alphabet.Char('a')}).ThenLoop().Join(fsm.Zero[alphabet.Symbol, Events]()).ComputeDFA()
	for _, s := range []string{"", "a", "aaa"} {
		assert.True(t, dfaAccepts(m, alpha, s), "%q", s)
	}
}

func TestCompile_Quantifiers(t *testing.T) {
	tests := []struct {
		pattern string
		accept  []string
		reject  []string
	}{
		{"a?", []string{"", "a"}, []string{"aa"}},
		{"a*", []string{"", "a", "aaaa"}, []string{"b"}},
		{"a+", []string{"a", "aaa"}, []string{""}},
		{"a{3}", []string{"aaa"}, []string{"aa", "aaaa"}},
		{"a{0}", []string{""}, []string{"a"}},
		{"(?:ab){2,}", []string{"abab", "ababab"}, []string{"ab", "aba"}},
		{"a{0,}", []string{"", "aa"}, []string{"b"}},
		{"a{1,}", []string{"a", "aa"}, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			n, err := syntax.Parse(tt.pattern, 0)
			require.NoError(t, err)
			m, alpha := build(t, n)
			for _, s := range tt.accept {
				assert.True(t, dfaAccepts(m, alpha, s), "should accept %q", s)
			}
			for _, s := range tt.reject {
				assert.False(t, dfaAccepts(m, alpha, s), "should reject %q", s)
			}
		})
	}
}

func TestCompile_Classes(t *testing.T) {
	n, err := syntax.Parse("[^a-c][a-c]", 0)
	require.NoError(t, err)
	m, alpha := build(t, n)
	assert.True(t, dfaAccepts(m, alpha, "xb"))
	assert.True(t, dfaAccepts(m, alpha, "\xffa"))
	assert.False(t, dfaAccepts(m, alpha, "ab"))
	assert.False(t, dfaAccepts(m, alpha, "xx"))
}

func TestCompile_EmptyAlternationAcceptsNothing(t *testing.T) {
	m, alpha := build(t, syntax.Alt())
	assert.False(t, dfaAccepts(m, alpha, ""))
	assert.False(t, dfaAccepts(m, alpha, "a"))
}

func TestCompile_BetweenPanics(t *testing.T) {
	n, err := syntax.Parse("a{1,2}", 0)
	require.NoError(t, err)
	assert.PanicsWithValue(t, "automaton: bounded repetition {1,2} is not supported", func() {
		Build(n)
	})
}

func TestCompile_GroupNumbering(t *testing.T) {
	n, err := syntax.Parse("(a)((b)(?P<x>c))(?:d)", 0)
	require.NoError(t, err)
	_, meta, _ := Build(n)

	assert.Equal(t, 4, meta.NumGroups)
	assert.Equal(t, []string{"", "", "", "x"}, meta.Names)
	assert.Equal(t, map[string]int{"x": 3}, meta.NamedGroups)
}

func TestCompile_CaptureEvents(t *testing.T) {
	m, meta, _ := Build(syntax.Group(syntax.Lit('a'), ""))
	require.Equal(t, 1, meta.NumGroups)

	var events Events
	for _, e := range m.Edges() {
		events = events.Merge(e.Output)
	}
	assert.Equal(t, Events{{Kind: StartGroup, Group: 0}, {Kind: EndGroup, Group: 0}}, events)

	// After epsilon removal the end event rides on the consuming edge.
	r := m.WithoutEpsilons()
	found := false
	for _, e := range r.Edges() {
		if e.Output.Contains(Event{Kind: EndGroup, Group: 0}) {
			assert.Equal(t, alphabet.Char('a'), e.Symbol)
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvents_Merge(t *testing.T) {
	a := Events{{Kind: StartGroup, Group: 1}}
	b := Events{{Kind: StartMatch}, {Kind: StartGroup, Group: 1}, {Kind: EndGroup, Group: 0}}
	got := a.Merge(b)
	assert.Equal(t, Events{{Kind: StartMatch}, {Kind: StartGroup, Group: 1}, {Kind: EndGroup, Group: 0}}, got)
	assert.Len(t, a, 1, "receiver must not change")
	assert.Equal(t, "StartGroup(1)", a[0].String())
}

func TestMatcher(t *testing.T) {
	tests := []struct {
		pattern string
		match   []string
		reject  []string
	}{
		{"a(Xc|Yc)", []string{"aXc", "aYc", "zzaYcz"}, []string{"a", "c", "Y", "Yc", ""}},
		{"a", []string{"a", "za"}, []string{"b", ""}},
		{"[a-z0-9]*", []string{"a9034343", ""}, nil},
		{"[a-b]", []string{"a", "b", "zzzzzzzaxxxxx"}, []string{"c", "d"}},
		{"^a$", []string{"a"}, []string{"za", "az", ""}},
		{"^ab", []string{"abc"}, []string{"cab"}},
		{"ab$", []string{"cab"}, []string{"abc"}},
		{"x(a|b)*y", []string{"xy", "..xababy.."}, []string{"x", "yx"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			n, err := syntax.Parse(tt.pattern, 0)
			require.NoError(t, err)
			plain := NewMatcher(n, false)
			minimal := NewMatcher(n, true)
			assert.LessOrEqual(t, minimal.NumStates(), plain.NumStates())
			for _, s := range tt.match {
				assert.True(t, plain.Test([]byte(s)), "%q", s)
				assert.True(t, minimal.Test([]byte(s)), "minimal %q", s)
			}
			for _, s := range tt.reject {
				assert.False(t, plain.Test([]byte(s)), "%q", s)
				assert.False(t, minimal.Test([]byte(s)), "minimal %q", s)
			}
		})
	}
}

func TestMatcher_Metadata(t *testing.T) {
	n, err := syntax.Parse("(?P<a>x)(y)", 0)
	require.NoError(t, err)
	m := NewMatcher(n, true)
	assert.Equal(t, 2, m.Metadata().NumGroups)
	assert.Equal(t, 0, m.Metadata().NamedGroups["a"])
	assert.False(t, m.Machine().HasEpsilon())
}

func TestMatcher_Exec(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    []int
	}{
		{"ab", "xxabab", []int{2, 4}},
		{"a+", "baaab", []int{1, 4}},
		{"^a", "ba", nil},
		{"^a", "ab", []int{0, 1}},
		{"b$", "abab", []int{3, 4}},
		{"$", "", []int{0, 0}},
		{"(a)(b)?", "xa", []int{1, 2, 1, 2, -1, -1}},
		{"(a)(b)?", "ab", []int{0, 2, 0, 1, 1, 2}},
		{"x(a|b)*y", "xaby", []int{0, 4, 2, 3}},
		{"x(a|b)*y", "xy", []int{0, 2, -1, -1}},
		{"(a*)b", "b", []int{0, 1, 0, 0}},
		{"a()b", "ab", []int{0, 2, 1, 1}},
		{"(?P<k>[a-z]+)=(?P<v>[0-9]*)", "id: key=42;", []int{4, 10, 4, 7, 8, 10}},
		{"a|ab", "ab", []int{0, 2}},
		{"z", "abc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			n, err := syntax.Parse(tt.pattern, 0)
			require.NoError(t, err)
			caps, ok := NewMatcher(n, false).Exec([]byte(tt.input))
			assert.Equal(t, tt.want != nil, ok)
			assert.Equal(t, tt.want, caps)
		})
	}
}

func TestLive(t *testing.T) {
	n, err := syntax.Parse("ab", 0)
	require.NoError(t, err)
	m, _, _ := Build(n)
	d := m.ComputeDFA()
	alive := live(d)
	require.Len(t, alive, d.NumStates())
	assert.True(t, alive[0])

	dead := 0
	for _, ok := range alive {
		if !ok {
			dead++
		}
	}
	assert.Equal(t, 1, dead, "only the sink is dead")
}
