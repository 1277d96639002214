package automata

import (
	"errors"
	"fmt"

	"github.com/coregx/automata/compiler"
	"github.com/coregx/automata/syntax"
)

// Common errors
var (
	// ErrUnsupported indicates the pattern uses a feature the selected engine
	// cannot express: line anchors and word boundaries, or bounded repetition
	// on the DFA path.
	ErrUnsupported = syntax.ErrUnsupported

	// ErrTooComplex indicates the compiled program or the pattern nesting
	// exceeds the configured limits.
	ErrTooComplex = compiler.ErrTooComplex

	// ErrNoSuchGroup is returned when looking up a group name the pattern
	// does not define.
	ErrNoSuchGroup = errors.New("no such group")
)

// CompileError wraps compilation errors with the offending pattern.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("regexp: compiling %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}
