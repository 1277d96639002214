package automata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDFA_AgreesWithRegexp(t *testing.T) {
	patterns := []string{
		`a`,
		`ab*c`,
		`(a|ab)(c|bcd)`,
		`^ab`,
		`ab$`,
		`^$`,
		`[^a-c]+x`,
		`(foo|bar){2}`,
		`x{2,}`,
		`(?i)ok`,
		`.a`,
	}
	inputs := []string{"", "a", "abbc", "xabcd", "cab", "abx", "dx", "foobar", "barbar", "xx", "OK", "\na", "ba"}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			re := MustCompile(pattern)
			for _, minimize := range []bool{false, true} {
				dfa, err := CompileDFA(pattern, minimize)
				require.NoError(t, err)
				assert.Equal(t, pattern, dfa.String())
				for _, in := range inputs {
					assert.Equal(t, re.MatchString(in), dfa.MatchString(in), "minimize=%v input %q", minimize, in)
					assert.Equal(t, re.MatchString(in), dfa.Test([]byte(in)), "minimize=%v input %q", minimize, in)
				}
			}
		})
	}
}

func TestDFA_ExecAgreesWithRegexp(t *testing.T) {
	// Patterns whose leftmost-first and leftmost-longest matches coincide.
	patterns := []string{
		`a`,
		`a+`,
		`a*`,
		``,
		`b|`,
		`\d+`,
		`(\w+)@(\w+)\.com`,
		`^a*`,
		`a*$`,
		`$`,
		`[^,]*`,
		`(?P<key>\w+)=(?P<value>\w*)`,
		`x(a|b)*y`,
		`(?i)hello`,
		`[[:upper:]][a-z]+`,
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			re := MustCompile(pattern)
			dfa, err := CompileDFA(pattern, false)
			require.NoError(t, err)
			assert.Equal(t, re.NumSubexp(), dfa.NumSubexp())

			for _, in := range stdlibInputs {
				var want []int
				if m := re.ExecString(in); m != nil {
					want = m.Indices()
				}
				assert.Equal(t, want, dfa.ExecString(in), "input %q", in)
			}
		})
	}
}

func TestDFA_ExecLongest(t *testing.T) {
	dfa, err := CompileDFA(`a+?|ab`, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, dfa.ExecString("xab"))
	assert.Equal(t, []int{0, 3}, dfa.ExecString("aaa"))
	assert.Nil(t, dfa.ExecString("bbb"))

	dfa, err = CompileDFA(`(a|ab)(c|bcd)`, false)
	require.NoError(t, err)
	caps := dfa.ExecString("xabcd")
	require.Len(t, caps, 6)
	assert.Equal(t, []int{1, 5}, caps[:2])
}

func TestDFA_MinimalIsSmaller(t *testing.T) {
	plain, err := CompileDFA(`(a|b)*abb`, false)
	require.NoError(t, err)
	minimal, err := CompileDFA(`(a|b)*abb`, true)
	require.NoError(t, err)
	assert.LessOrEqual(t, minimal.NumStates(), plain.NumStates())
	assert.True(t, minimal.MatchString("babb"))
	assert.False(t, minimal.MatchString("abab"))
}

func TestCompileDFA_Errors(t *testing.T) {
	_, err := CompileDFA(`a{2,4}`, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, `a{2,4}`, ce.Pattern)

	_, err = CompileDFA(`a(`, false)
	assert.Error(t, err)

	_, err = CompileDFA(`\ba`, true)
	assert.True(t, errors.Is(err, ErrUnsupported))
}
