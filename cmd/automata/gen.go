package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coregx/automata/codegen"
)

func newGenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen PATTERN",
		Short: "Generate Go source declaring a precompiled pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := codegen.Config{
				Pattern:         args[0],
				Name:            a.v.GetString("name"),
				Package:         a.v.GetString("package"),
				CaseInsensitive: a.v.GetBool("case-insensitive"),
			}

			var w io.Writer = cmd.OutOrStdout()
			if path := a.v.GetString("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if err := codegen.Render(w, config); err != nil {
				return err
			}
			a.logger.Debug("generated source", "name", config.Name, "package", config.Package)
			return nil
		},
	}
	cmd.Flags().String("name", "Pattern", "name of the generated variable")
	cmd.Flags().String("package", "main", "package of the generated file")
	cmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	return cmd
}
