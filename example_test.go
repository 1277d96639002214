package automata_test

import (
	"fmt"

	"github.com/coregx/automata"
)

// ExampleCompile demonstrates basic pattern compilation and matching.
func ExampleCompile() {
	re, err := automata.Compile(`\d+`)
	if err != nil {
		panic(err)
	}

	fmt.Println(re.Match([]byte("hello 123")))
	// Output: true
}

// ExampleMustCompile demonstrates panic-on-error compilation.
func ExampleMustCompile() {
	re := automata.MustCompile(`hello`)
	fmt.Println(re.MatchString("hello world"))
	// Output: true
}

// ExampleRegexp_ExecString demonstrates reading capture groups.
func ExampleRegexp_ExecString() {
	re := automata.MustCompile(`(?P<user>\w+)@(\w+)\.com`)
	m := re.ExecString("Contact: alice@example.com")
	user, _ := m.NamedGroup("user")
	host, _ := m.GroupString(2)
	fmt.Println(m.Index(), m.LastIndex())
	fmt.Println(string(user), host)
	// Output:
	// 9 26
	// alice example
}

// ExampleMatch_Next demonstrates iterating over all matches.
func ExampleMatch_Next() {
	re := automata.MustCompile(`[a-z]+=\d+`)
	for m := re.ExecString("a=1, bb=22, c=x, ddd=333"); m != nil; m = m.Next() {
		fmt.Println(string(m.Group(0)))
	}
	// Output:
	// a=1
	// bb=22
	// ddd=333
}

// ExampleRegexp_Split demonstrates splitting around matches.
func ExampleRegexp_Split() {
	re := automata.MustCompile(`\s*;\s*`)
	fmt.Printf("%q\n", re.Split("a ; b;c  ;d", -1))
	fmt.Printf("%q\n", re.Split("a ; b;c  ;d", 2))
	// Output:
	// ["a" "b" "c" "d"]
	// ["a" "b;c  ;d"]
}

// ExampleRegexp_SubexpNames demonstrates group names.
func ExampleRegexp_SubexpNames() {
	re := automata.MustCompile(`(?P<year>\d{4})-(?P<month>\d{2})`)
	fmt.Println(re.NumSubexp())
	fmt.Printf("%q\n", re.SubexpNames())
	fmt.Println(re.SubexpIndex("month"))
	// Output:
	// 2
	// ["" "year" "month"]
	// 2
}

// ExampleRegexp_Assembly demonstrates the program listing.
func ExampleRegexp_Assembly() {
	re := automata.MustCompile(`ab|cd`)
	fmt.Print(re.Assembly())
	// Output:
	// ; 1 groups
	//    0  split 3, 1
	//    1  any
	//    2  jump 0
	//    3  save 0
	//    4  split 5, 8
	//    5  char 'a'
	//    6  char 'b'
	//    7  jump 10
	//    8  char 'c'
	//    9  char 'd'
	//   10  save 1
	//   11  match
}

// ExampleCompileDFA demonstrates the deterministic automaton.
func ExampleCompileDFA() {
	dfa, err := automata.CompileDFA(`ab*c`, true)
	if err != nil {
		panic(err)
	}
	fmt.Println(dfa.MatchString("xabbbc"), dfa.MatchString("abb"))
	// Output: true false
}

// ExampleDFA_ExecString demonstrates positions reported by the DFA.
func ExampleDFA_ExecString() {
	dfa, err := automata.CompileDFA(`(\w+)=(\d+)`, false)
	if err != nil {
		panic(err)
	}
	fmt.Println(dfa.ExecString("id: key=42"))
	// Output: [4 10 4 7 8 10]
}
