package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAsmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "asm PATTERN",
		Short: "Print the compiled program of a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), re.Assembly())
			return err
		},
	}
}
