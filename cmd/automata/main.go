// Command automata compiles and runs regular expressions with the automata
// engine and inspects the programs and automata it builds.
//
// Usage:
//
//	automata match PATTERN [INPUT...]   search inputs, stdin lines or --file
//	automata asm PATTERN                print the compiled program
//	automata dfa PATTERN [INPUT...]     report automaton sizes and DFA verdicts
//	automata gen PATTERN                write Go source with the precompiled program
//
// Flags can also be set from the environment (AUTOMATA_CASE_INSENSITIVE=true)
// or from a YAML file passed with --config.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
