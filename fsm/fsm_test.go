package fsm

import (
	"cmp"
	"slices"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sym is a byte symbol used by the tests.
type sym byte

func (s sym) Compare(o sym) int { return cmp.Compare(s, o) }

// tags is a set-like output used to check transducer merging.
type tags []string

func (t tags) Merge(o tags) tags {
	out := make(tags, 0, len(t)+len(o))
	out = append(out, t...)
	out = append(out, o...)
	slices.Sort(out)
	return slices.Compact(out)
}

type plain = Machine[sym, NoOutput]

func lit(s string) *plain {
	m := New[sym, NoOutput]()
	cur := m.AddState()
	m.MarkStart(cur)
	for i := 0; i < len(s); i++ {
		next := m.AddState()
		m.AddTransition(cur, sym(s[i]), next)
		cur = next
	}
	m.MarkAccept(cur)
	return m
}

func star(m *plain) *plain {
	return m.ThenLoop().Join(Zero[sym, NoOutput]())
}

func accepts[O Output[O]](m *Machine[sym, O], s string) bool {
	syms := make([]sym, len(s))
	for i := 0; i < len(s); i++ {
		syms[i] = sym(s[i])
	}
	return m.Accepts(slices.Values(syms))
}

// allStrings returns every string over alphabet of length <= n.
func allStrings(alphabet string, n int) []string {
	out := []string{""}
	level := []string{""}
	for i := 0; i < n; i++ {
		var next []string
		for _, prefix := range level {
			for j := 0; j < len(alphabet); j++ {
				next = append(next, prefix+alphabet[j:j+1])
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}

// assertTotal checks that every state has exactly one edge per symbol.
func assertTotal[O Output[O]](t *testing.T, m *Machine[sym, O]) {
	t.Helper()
	alphabet := m.UsedSymbols()
	for q := 0; q < m.NumStates(); q++ {
		for _, s := range alphabet {
			assert.Len(t, m.Lookup(StateID(q), s), 1, "state %d symbol %q", q, byte(s))
		}
	}
}

func TestZero(t *testing.T) {
	m := Zero[sym, NoOutput]()
	assert.Equal(t, 1, m.NumStates())
	assert.True(t, accepts(m, ""))
	assert.False(t, accepts(m, "a"))
}

func TestNew_AcceptsNothing(t *testing.T) {
	m := New[sym, NoOutput]()
	assert.False(t, accepts(m, ""))
	assert.False(t, accepts(m.ComputeDFA(), ""))
}

func TestAddTransition_Lookup(t *testing.T) {
	m := New[sym, NoOutput]()
	a, b, c := m.AddState(), m.AddState(), m.AddState()
	m.AddTransition(a, 'x', c)
	m.AddTransition(a, 'x', b)
	m.AddTransition(a, 'x', b)
	m.AddEpsilon(b, c)

	assert.Equal(t, []StateID{b, c}, m.Lookup(a, 'x'))
	assert.Empty(t, m.Lookup(a, 'y'))
	assert.Equal(t, 3, m.NumTransitions())
	assert.True(t, m.HasEpsilon())
	assert.Equal(t, []sym{'x'}, m.UsedSymbols())
}

func TestEdges_Ordered(t *testing.T) {
	m := New[sym, NoOutput]()
	a, b := m.AddState(), m.AddState()
	m.AddEpsilon(a, b)
	m.AddTransition(a, 'z', b)
	m.AddTransition(a, 'b', a)
	m.AddTransition(b, 'a', a)

	var got []string
	for _, e := range m.Edges() {
		if e.Epsilon {
			got = append(got, "eps")
			continue
		}
		got = append(got, string(rune(e.Symbol)))
	}
	assert.Equal(t, []string{"b", "z", "eps", "a"}, got)
}

func TestThen(t *testing.T) {
	m := lit("ab").Then(lit("c")).ComputeDFA()
	assert.True(t, accepts(m, "abc"))
	assert.False(t, accepts(m, "ab"))
	assert.False(t, accepts(m, "abcc"))
}

func TestJoin(t *testing.T) {
	m := lit("ab").Join(lit("cd"))
	assert.Len(t, m.Starts(), 2)
	d := m.ComputeDFA()
	assert.True(t, accepts(d, "ab"))
	assert.True(t, accepts(d, "cd"))
	assert.False(t, accepts(d, "ad"))
	assert.False(t, accepts(d, ""))
}

func TestThenLoop_Star(t *testing.T) {
	d := star(lit("ab")).ComputeDFA()
	for _, s := range []string{"", "ab", "abab", "ababab"} {
		assert.True(t, accepts(d, s), "%q", s)
	}
	for _, s := range []string{"a", "aba", "ba", "abb"} {
		assert.False(t, accepts(d, s), "%q", s)
	}
}

func TestWithSingleStart(t *testing.T) {
	m := lit("a").Join(lit("b"))
	require.Len(t, m.Starts(), 2)
	m = m.WithSingleStart()
	assert.Len(t, m.Starts(), 1)
	assert.Equal(t, 5, m.NumStates())

	one := lit("a")
	assert.Same(t, one, one.WithSingleStart())
}

func TestWithoutEpsilons_PreservesLanguage(t *testing.T) {
	build := func() *plain {
		return lit("a").Then(star(lit("b"))).Join(star(lit("ca")))
	}
	ref := build().ComputeDFA()
	m := build().WithoutEpsilons()
	require.False(t, m.HasEpsilon())
	d := m.ComputeDFA()
	for _, s := range allStrings("abc", 5) {
		assert.Equal(t, accepts(ref, s), accepts(d, s), "%q", s)
	}
}

func TestWithoutEpsilons_OnlyMergesMutuallyReachable(t *testing.T) {
	// a|b* must not accept "ba" or "ab".
	m := lit("a").Join(star(lit("b"))).WithSingleStart().WithoutEpsilons()
	d := m.ComputeDFA()
	for _, s := range []string{"", "a", "b", "bbb"} {
		assert.True(t, accepts(d, s), "%q", s)
	}
	for _, s := range []string{"ba", "ab", "aa", "bba"} {
		assert.False(t, accepts(d, s), "%q", s)
	}
}

func TestWithoutEpsilons_CollapsesEpsilonCycle(t *testing.T) {
	m := New[sym, NoOutput]()
	s0, s1, s2 := m.AddState(), m.AddState(), m.AddState()
	m.MarkStart(s0)
	m.MarkAccept(s2)
	m.AddEpsilon(s0, s1)
	m.AddEpsilon(s1, s0)
	m.AddTransition(s1, 'a', s2)

	r := m.WithoutEpsilons()
	assert.Equal(t, 2, r.NumStates())
	assert.False(t, r.HasEpsilon())
	assert.Equal(t, []StateID{0}, r.Starts())
	assert.Equal(t, []StateID{1}, r.AcceptingStates())
	assert.True(t, accepts(r, "a"))
}

func TestWithoutEpsilons_NoEpsilonIsIdentity(t *testing.T) {
	m := lit("abc")
	assert.Same(t, m, m.WithoutEpsilons())
}

func TestWithoutEpsilons_AttachesFollowingOutputs(t *testing.T) {
	m := New[sym, tags]()
	s0, s1, s2, s3 := m.AddState(), m.AddState(), m.AddState(), m.AddState()
	m.MarkStart(s0)
	m.MarkAccept(s3)
	m.AddEpsilonTransducer(s0, s1, tags{"before"})
	m.AddTransducer(s1, 'a', s2, tags{"edge"})
	m.AddEpsilonTransducer(s2, s3, tags{"after"})

	r := m.WithoutEpsilons()
	require.Equal(t, []StateID{0}, r.Starts())
	targets := r.LookupTransducer(0, 'a')
	require.Len(t, targets, 1)
	assert.Equal(t, tags{"after", "edge"}, targets[0].Output)
	assert.True(t, r.IsAccepting(targets[0].To))
}

func TestComputeDFA_Total(t *testing.T) {
	d := lit("ab").Join(lit("b")).ComputeDFA()
	assertTotal(t, d)
	assert.Equal(t, []StateID{0}, d.Starts())
	assert.False(t, d.HasEpsilon())

	// "a" then "a" falls into the sink, which loops on every symbol.
	sink := d.Lookup(d.Lookup(0, 'a')[0], 'a')[0]
	assert.False(t, d.IsAccepting(sink))
	assert.Equal(t, []StateID{sink}, d.Lookup(sink, 'a'))
	assert.Equal(t, []StateID{sink}, d.Lookup(sink, 'b'))
}

func TestComputeDFA_MergesOutputs(t *testing.T) {
	m := New[sym, tags]()
	s, x, y := m.AddState(), m.AddState(), m.AddState()
	m.MarkStart(s)
	m.MarkAccept(x)
	m.AddTransducer(s, 'a', x, tags{"x"})
	m.AddTransducer(s, 'a', y, tags{"y"})

	d := m.ComputeDFA()
	targets := d.LookupTransducer(0, 'a')
	require.Len(t, targets, 1)
	assert.Equal(t, tags{"x", "y"}, targets[0].Output)
	assert.True(t, d.IsAccepting(targets[0].To))
}

func TestAccepts_UnknownSymbolRejects(t *testing.T) {
	d := lit("ab").ComputeDFA()
	assert.False(t, accepts(d, "az"))
}

func TestReverse(t *testing.T) {
	r := lit("abc").Reverse().ComputeDFA()
	assert.True(t, accepts(r, "cba"))
	assert.False(t, accepts(r, "abc"))
}

func TestMinimal(t *testing.T) {
	// (a|b)*abb has a four state minimal DFA.
	build := func() *plain {
		return star(lit("a").Join(lit("b"))).Then(lit("abb"))
	}
	ref := build().ComputeDFA()
	min := build().Minimal()

	assert.Equal(t, 4, min.NumStates())
	assertTotal(t, min)
	for _, s := range allStrings("ab", 7) {
		assert.Equal(t, accepts(ref, s), accepts(min, s), "%q", s)
	}

	again := min.Clone().Minimal()
	assert.Equal(t, min.NumStates(), again.NumStates())
}

func TestComputeDFA_StartSetIsInterned(t *testing.T) {
	// Both states start; reading 'a' swaps them, so the start subset {0,1}
	// is reached again and the result needs a single state.
	m := New[sym, NoOutput]()
	p, q := m.AddState(), m.AddState()
	m.MarkStart(p)
	m.MarkStart(q)
	m.MarkAccept(q)
	m.AddTransition(p, 'a', q)
	m.AddTransition(q, 'a', p)

	d := m.ComputeDFA()
	assert.Equal(t, 1, d.NumStates())
	assert.Equal(t, []StateID{0}, d.Starts())
	require.Len(t, d.Lookup(0, 'a'), 1)
	assert.Equal(t, StateID(0), d.Lookup(0, 'a')[0])
	assert.True(t, accepts(d, "aaa"))
	assert.True(t, accepts(d, ""))
}

func TestMinimal_Idempotent(t *testing.T) {
	builds := map[string]func() *plain{
		"(a|b)*abb": func() *plain { return star(lit("a").Join(lit("b"))).Then(lit("abb")) },
		"ab|ac|a*":  func() *plain { return lit("ab").Join(lit("ac")).Join(star(lit("a"))) },
		"(ab)*":     func() *plain { return star(lit("ab")) },
	}
	for name, build := range builds {
		t.Run(name, func(t *testing.T) {
			once := build().Minimal()
			twice := once.Clone().Minimal()
			assert.Equal(t, once.NumStates(), twice.NumStates())
			for _, s := range allStrings("abc", 5) {
				assert.Equal(t, accepts(once, s), accepts(twice, s), "%q", s)
			}
		})
	}
}

func TestMinimal_NeverLargerThanDFA(t *testing.T) {
	build := func() *plain {
		return lit("ab").Join(lit("ac")).Join(star(lit("a")))
	}
	d := build().ComputeDFA()
	m := build().Minimal()
	assert.LessOrEqual(t, m.NumStates(), d.NumStates())
	for _, s := range allStrings("abc", 4) {
		assert.Equal(t, accepts(d, s), accepts(m, s), "%q", s)
	}
}

func TestClone_Independent(t *testing.T) {
	m := lit("a")
	c := m.Clone()
	c.AddTransition(0, 'b', 1)
	c.MarkAccept(0)

	assert.Equal(t, 1, m.NumTransitions())
	assert.False(t, m.IsAccepting(0))
	if diff := gocmp.Diff(m.Edges()[0], c.Edges()[0]); diff != "" {
		t.Errorf("first edge differs (-orig +clone):\n%s", diff)
	}
}
