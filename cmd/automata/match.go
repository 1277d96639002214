package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coregx/automata"
)

var errNoMatch = errors.New("no match")

func newMatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match PATTERN [INPUT...]",
		Short: "Search inputs for a pattern and print match offsets and groups",
		Long: `Search every INPUT argument for PATTERN. Without arguments each line of
stdin is an input; with --file the whole file is one input.

Each match prints as LABEL:START-END "TEXT" followed by the groups.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			s := &searcher{re: re, out: cmd.OutOrStdout(), all: a.v.GetBool("all")}

			switch path := a.v.GetString("file"); {
			case path != "":
				data, unmap, err := mapFile(path)
				if err != nil {
					return err
				}
				defer func() {
					if err := unmap(); err != nil {
						a.logger.Warn("unmapping file", "path", path, "error", err)
					}
				}()
				a.logger.Debug("searching file", "path", path, "bytes", len(data))
				s.search(path, data)
			case len(args) > 1:
				for i, in := range args[1:] {
					s.search(strconv.Itoa(i+1), []byte(in))
				}
			default:
				if err := s.lines(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			if s.matched == 0 {
				return errNoMatch
			}
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "search the whole file as one input")
	cmd.Flags().BoolP("all", "a", false, "print every match, not just the first")
	return cmd
}

type searcher struct {
	re      *automata.Regexp
	out     io.Writer
	all     bool
	matched int
}

func (s *searcher) lines(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; sc.Scan(); n++ {
		s.search(strconv.Itoa(n), sc.Bytes())
	}
	return sc.Err()
}

func (s *searcher) search(label string, input []byte) {
	for m := s.re.Exec(input); m != nil; m = m.Next() {
		s.matched++
		fmt.Fprintf(s.out, "%s:%d-%d %q%s\n", label, m.Index(), m.LastIndex(), m.Group(0), s.groups(m))
		if !s.all {
			return
		}
	}
}

func (s *searcher) groups(m *automata.Match) string {
	var b strings.Builder
	for i, name := range s.re.SubexpNames() {
		if i == 0 {
			continue
		}
		if name == "" {
			name = strconv.Itoa(i)
		}
		if g := m.Group(i); g != nil {
			fmt.Fprintf(&b, " %s=%q", name, g)
		} else {
			fmt.Fprintf(&b, " %s=<unset>", name)
		}
	}
	return b.String()
}
