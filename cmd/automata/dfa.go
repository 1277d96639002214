package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coregx/automata"
	"github.com/coregx/automata/automaton"
	"github.com/coregx/automata/syntax"
)

func newDFACmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dfa PATTERN [INPUT...]",
		Short: "Report automaton sizes and search inputs with the DFA",
		Long: `Build the automaton of PATTERN and print its state count after each
stage: the Thompson construction, epsilon removal, subset construction and
minimization. Every INPUT is then searched with the minimal DFA and the
leftmost-longest match is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			if a.v.GetBool("case-insensitive") {
				pattern = "(?i)" + pattern
			}

			n, err := syntax.Parse(pattern, 0)
			if err != nil {
				return &automata.CompileError{Pattern: pattern, Err: err}
			}
			if syntax.HasBetween(n) {
				return &automata.CompileError{
					Pattern: pattern,
					Err:     fmt.Errorf("%w: bounded repetition {m,n}", automata.ErrUnsupported),
				}
			}

			nfa, meta, alpha := automaton.Build(n)
			det := nfa.ComputeDFA()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nfa states:          %d\n", nfa.NumStates())
			fmt.Fprintf(out, "epsilon-free states: %d\n", nfa.WithoutEpsilons().NumStates())
			fmt.Fprintf(out, "dfa states:          %d\n", det.NumStates())
			fmt.Fprintf(out, "minimal states:      %d\n", det.Minimal().NumStates())
			a.logger.Debug("built automaton",
				"pattern", pattern,
				"symbols", alpha.Len(),
				"groups", meta.NumGroups,
			)

			if len(args) == 1 {
				return nil
			}
			dfa, err := automata.CompileDFA(pattern, true)
			if err != nil {
				return err
			}
			for _, in := range args[1:] {
				caps := dfa.ExecString(in)
				if caps == nil {
					fmt.Fprintf(out, "%q: no match\n", in)
					continue
				}
				fmt.Fprintf(out, "%q: match %d-%d\n", in, caps[0], caps[1])
			}
			return nil
		},
	}
}
