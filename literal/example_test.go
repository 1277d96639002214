package literal_test

import (
	"fmt"

	"github.com/coregx/automata/literal"
	"github.com/coregx/automata/syntax"
)

// Example demonstrates extracting the literals every match must contain.
func Example() {
	n, err := syntax.Parse(`(error|warn):\s+\w+`, 0)
	if err != nil {
		panic(err)
	}

	seq := literal.Required(n, literal.DefaultConfig())
	for i := 0; i < seq.Len(); i++ {
		fmt.Println(seq.Get(i))
	}

	// Output:
	// literal{warn:, complete=false}
	// literal{error:, complete=false}
}

// ExampleSeq_Minimize demonstrates removing redundant literals
func ExampleSeq_Minimize() {
	seq := literal.NewSeq(
		literal.NewLiteral([]byte("foo"), true),
		literal.NewLiteral([]byte("xfoobar"), true),
	)

	fmt.Printf("Before minimize: %d literals\n", seq.Len())
	seq.Minimize()
	fmt.Printf("After minimize: %d literals\n", seq.Len())
	fmt.Printf("Remaining: %s\n", seq.Get(0).Bytes)

	// Output:
	// Before minimize: 2 literals
	// After minimize: 1 literals
	// Remaining: foo
}
