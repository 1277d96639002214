// Package automata provides a byte-oriented regular expression engine built
// from finite automata.
//
// Patterns use Perl syntax as parsed by regexp/syntax. A compiled Regexp runs
// a Pike VM over a bytecode program, so matching takes time linear in the
// input for every pattern. Matches are leftmost-first like the standard
// library's, and so are capture positions, with one exception: a group
// inside a repetition whose body can match empty may be reported unset where
// package regexp reports an empty capture. For example ((.b)*?)* on "a"
// gives [0 0 -1 -1 -1 -1] here and [0 0 0 0 -1 -1] in package regexp, which
// rewrites x* as (x+)?. A pattern whose matches must contain one of a few
// literals is prefiltered: inputs without any of them are rejected before the
// VM runs.
//
// Basic usage:
//
//	re := automata.MustCompile(`(\w+)@(\w+)\.com`)
//	m := re.ExecString("mail bob@example.com now")
//	if m != nil {
//	    user, _ := m.GroupString(1) // "bob"
//	}
//
// The package also exposes the automaton pipeline itself. CompileDFA builds a
// deterministic (optionally minimal) automaton answering yes/no questions,
// and Load rebuilds a Regexp from a program generated ahead of time by the
// codegen package.
//
// Limitations:
//   - Matching is over bytes: '.' and classes consume single bytes, and
//     non-ASCII literals match their UTF-8 encoding
//   - No multi-line anchors and no word boundaries
//   - Each anchor consumes its own boundary, so anchors that must all match in
//     sequence, such as $$ or (^){2}, never match
package automata

import (
	"fmt"
	"slices"
	"sync"

	"github.com/coregx/automata/compiler"
	"github.com/coregx/automata/literal"
	"github.com/coregx/automata/prefilter"
	"github.com/coregx/automata/syntax"
	"github.com/coregx/automata/vm"
)

// Regexp is a compiled regular expression.
//
// A Regexp is safe for concurrent use by multiple goroutines.
//
// Example:
//
//	re := automata.MustCompile(`\d+`)
//	if re.MatchString("hello 123") {
//	    println("contains digits")
//	}
type Regexp struct {
	pattern string
	comp    *compiler.Compilation
	filter  *prefilter.Tracker
	pool    sync.Pool
}

// Compile parses a regular expression and returns, if successful, a Regexp
// that can be used to match against byte slices and strings.
//
// Example:
//
//	re, err := automata.Compile(`(?P<year>\d{4})-(?P<month>\d{2})`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regexp, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables holding compiled
// regular expressions.
//
// Example:
//
//	var datePattern = automata.MustCompile(`\d{4}-\d{2}-\d{2}`)
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic("regexp: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a regular expression with custom configuration.
//
// Errors are a *ConfigError for an invalid config, otherwise a *CompileError
// wrapping the parse error, ErrUnsupported or ErrTooComplex.
func CompileWithConfig(pattern string, config Config) (*Regexp, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var flags syntax.Flags
	if config.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	n, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	// .*?(pattern): the lazy prefix lets the match start anywhere and group 0
	// spans the whole match.
	dot := syntax.Class(false, syntax.Char{Kind: syntax.KindWildcard})
	root := syntax.Concat(syntax.Star(dot, false), syntax.Group(n, ""))
	comp, err := compiler.Compile(root, compiler.Config{
		MaxProgramLen:     config.MaxProgramLen,
		MaxRecursionDepth: config.MaxRecursionDepth,
	})
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	var pf prefilter.Prefilter
	if config.EnablePrefilter {
		pf = prefilter.New(literal.Required(n, literal.ExtractorConfig{
			MaxLiterals:   config.MaxLiterals,
			MinLiteralLen: config.MinLiteralLen,
		}))
	}

	re := newRegexp(pattern, comp, prefilter.NewTracker(pf))
	strategy := "none"
	if pf != nil {
		strategy = pf.String()
	}
	config.logger().Debug("compiled pattern",
		"pattern", pattern,
		"instructions", len(comp.Program),
		"groups", len(comp.Groups),
		"prefilter", strategy,
	)
	return re, nil
}

// Load rebuilds a Regexp from a precompiled program, as emitted by the
// codegen package. names lists the name of every group, starting with group
// 0 (the whole match), and the program records group g into slots 2g and
// 2g+1. Loaded patterns are not prefiltered.
func Load(pattern string, prog vm.VecProgram, names []string) (*Regexp, error) {
	if len(names) == 0 {
		return nil, &CompileError{Pattern: pattern, Err: fmt.Errorf("%w: no groups", vm.ErrInvalidProgram)}
	}
	if err := prog.Validate(); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	if slots := prog.NumSlots(); slots < 2 || slots > 2*len(names) {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     fmt.Errorf("%w: program writes %d slots for %d groups", vm.ErrInvalidProgram, slots, len(names)),
		}
	}

	comp := &compiler.Compilation{
		Program:      slices.Clone(prog),
		Names:        slices.Clone(names),
		GroupsByName: make(map[string]int),
	}
	for g, name := range names {
		comp.Groups = append(comp.Groups, [2]int{2 * g, 2*g + 1})
		if _, dup := comp.GroupsByName[name]; name != "" && !dup {
			comp.GroupsByName[name] = g
		}
	}
	return newRegexp(pattern, comp, nil), nil
}

// MustLoad is like Load but panics on an invalid program.
func MustLoad(pattern string, prog vm.VecProgram, names []string) *Regexp {
	re, err := Load(pattern, prog, names)
	if err != nil {
		panic("regexp: Load(`" + pattern + "`): " + err.Error())
	}
	return re
}

func newRegexp(pattern string, comp *compiler.Compilation, filter *prefilter.Tracker) *Regexp {
	re := &Regexp{pattern: pattern, comp: comp, filter: filter}
	re.pool.New = func() any {
		return vm.NewExecutor(comp.Program)
	}
	return re
}

// exec runs the VM from start and returns every capture slot, or nil.
func (r *Regexp) exec(b []byte, start int) []int {
	if start < 0 || start > len(b) {
		return nil
	}
	if r.filter.Reject(b, start) {
		return nil
	}

	e := r.pool.Get().(*vm.Executor)
	caps, ok := e.Run(b, start)
	r.pool.Put(e)
	if !ok {
		return nil
	}
	for len(caps) < r.comp.NumSlots() {
		caps = append(caps, -1)
	}
	return caps
}

// String returns the source text used to compile the regular expression.
func (r *Regexp) String() string {
	return r.pattern
}

// Match reports whether the byte slice b contains any match of the pattern.
func (r *Regexp) Match(b []byte) bool {
	return r.exec(b, 0) != nil
}

// MatchString reports whether the string s contains any match of the pattern.
func (r *Regexp) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Exec returns the leftmost match in b, or nil. Further matches are reached
// with Match.Next.
//
// Example:
//
//	re := automata.MustCompile(`\d+`)
//	for m := re.Exec([]byte("1 22 333")); m != nil; m = m.Next() {
//	    fmt.Println(m.Index(), m.LastIndex())
//	}
func (r *Regexp) Exec(b []byte) *Match {
	caps := r.exec(b, 0)
	if caps == nil {
		return nil
	}
	return &Match{re: r, input: b, caps: caps}
}

// ExecString is like Exec but searches s.
func (r *Regexp) ExecString(s string) *Match {
	return r.Exec([]byte(s))
}

// FindAllIndex returns the start and end offsets of successive
// non-overlapping matches. If n >= 0, at most n matches are returned. An
// empty match abutting a preceding match is skipped, as in package regexp.
//
// Example:
//
//	re := automata.MustCompile(`a+`)
//	idx := re.FindAllIndex([]byte("baaab a"), -1)
//	// idx = [[1 4] [6 7]]
func (r *Regexp) FindAllIndex(b []byte, n int) [][]int {
	var out [][]int
	for m := r.Exec(b); m != nil && (n < 0 || len(out) < n); m = m.Next() {
		out = append(out, []int{m.Index(), m.LastIndex()})
	}
	return out
}

// Split slices s into substrings separated by the matches of the pattern.
//
// The count determines the number of substrings to return:
//
//	n > 0: at most n substrings; the last substring will be the unsplit remainder.
//	n == 0: the result is nil (zero substrings)
//	n < 0: all substrings
//
// Example:
//
//	re := automata.MustCompile(`,\s*`)
//	parts := re.Split("a, b,c", -1)
//	// parts = ["a", "b", "c"]
func (r *Regexp) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}

	var out []string
	last := 0
	for m := r.ExecString(s); m != nil; m = m.Next() {
		if n > 0 && len(out) == n-1 {
			break
		}
		out = append(out, s[last:m.Index()])
		last = m.LastIndex()
	}
	return append(out, s[last:])
}

// NumSubexp returns the number of parenthesized subexpressions. Group 0,
// the entire match, is not counted.
func (r *Regexp) NumSubexp() int {
	return len(r.comp.Groups) - 1
}

// SubexpNames returns the names of the parenthesized subexpressions. The
// name for group i is SubexpNames()[i]; names[0] is always the empty
// string. The slice must not be modified.
func (r *Regexp) SubexpNames() []string {
	return r.comp.Names
}

// SubexpIndex returns the index of the first group with the given name, or
// -1 if there is none.
func (r *Regexp) SubexpIndex(name string) int {
	if g, ok := r.comp.GroupsByName[name]; ok {
		return g
	}
	return -1
}

// Assembly returns a listing of the compiled program.
func (r *Regexp) Assembly() string {
	return r.comp.Assembly()
}

// Program returns a copy of the compiled program.
func (r *Regexp) Program() vm.VecProgram {
	return slices.Clone(r.comp.Program)
}
