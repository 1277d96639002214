package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/coregx/automata"
)

// app holds state shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	var bindErr error
	root := &cobra.Command{
		Use:           "automata",
		Short:         "Compile, run and inspect regular expressions",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if bindErr != nil {
				return fmt.Errorf("binding flags: %w", bindErr)
			}
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML file with flag defaults")
	flags.BoolP("verbose", "v", false, "log compilation details to stderr")
	addCompileFlags(flags)

	a.v.SetEnvPrefix("AUTOMATA")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	// Binding the persistent set covers every subcommand.
	bindErr = a.v.BindPFlags(flags)

	root.AddCommand(
		newMatchCmd(a),
		newAsmCmd(a),
		newDFACmd(a),
		newGenCmd(a),
	)
	return root
}

func addCompileFlags(fs *pflag.FlagSet) {
	def := automata.DefaultConfig()
	fs.BoolP("case-insensitive", "i", false, "match letters regardless of case")
	fs.Bool("no-prefilter", false, "disable literal prefiltering")
	fs.Int("max-program-len", def.MaxProgramLen, "largest compiled program")
	fs.Int("max-literals", def.MaxLiterals, "largest required literal set")
}

func (a *app) init(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	level := slog.LevelInfo
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// compileConfig turns the bound settings into an automata.Config.
func (a *app) compileConfig() automata.Config {
	config := automata.DefaultConfig()
	config.CaseInsensitive = a.v.GetBool("case-insensitive")
	config.EnablePrefilter = !a.v.GetBool("no-prefilter")
	config.MaxProgramLen = a.v.GetInt("max-program-len")
	config.MaxLiterals = a.v.GetInt("max-literals")
	config.Logger = a.logger
	return config
}

func (a *app) compile(pattern string) (*automata.Regexp, error) {
	return automata.CompileWithConfig(pattern, a.compileConfig())
}
