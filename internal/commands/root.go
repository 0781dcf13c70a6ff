package commands

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/tlgen"
	"github.com/simonhull/tlgen/internal/config"
	"github.com/simonhull/tlgen/internal/logger"
	"github.com/simonhull/tlgen/internal/output"
)

// ErrStale is returned by check when generated files differ from disk.
var ErrStale = errors.New("generated code is out of date")

// RootCmd creates and returns the root command for the tlgen CLI
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tlgen",
		Short: "TL schema compiler for typed Go codecs and conversions",
		Long: `tlgen compiles TL schema files into Go types with binary encode and
decode routines, plus conversions to and from an external API package.

Everything it needs is described by tlgen.yml: where the schemas live,
namespaces and name prefixes, output sections, skipped declarations,
builtins and the conversion target.

Flags can also be set through TLGEN_* environment variables
(TLGEN_CONFIG, TLGEN_OUTPUT, TLGEN_WORKERS, TLGEN_VERBOSE).`,
		Version:       tlgen.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP(config.KeyConfig, "c", config.DefaultFile, "Path to the manifest")
	cmd.PersistentFlags().Int(config.KeyWorkers, 0, "Schema files parsed in parallel (default: number of CPUs)")
	cmd.PersistentFlags().BoolP(config.KeyVerbose, "v", false, "Enable verbose output for debugging")

	return cmd
}

// loadSettings layers flags over TLGEN_* variables and defaults.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	v := config.NewViper()
	for _, key := range []string{config.KeyConfig, config.KeyOutput, config.KeyWorkers, config.KeyVerbose} {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Settings{}, err
			}
		}
	}
	s := config.LoadSettings(v)
	output.SetVerbose(s.Verbose)
	return s, nil
}

// newLogger writes pipeline logs to stderr; only warnings unless verbose.
func newLogger(s config.Settings) logger.Logger {
	level := logger.LevelWarn
	if s.Verbose {
		level = logger.LevelDebug
	}
	return logger.NewLogger(level, os.Stderr)
}
