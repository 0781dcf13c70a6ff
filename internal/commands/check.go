package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/tlgen/internal/config"
	"github.com/simonhull/tlgen/internal/generator"
	"github.com/simonhull/tlgen/internal/output"
)

// CheckCmd creates and returns the 'check' command
func CheckCmd() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that the generated units are up to date",
		Long: `Compile the schemas without writing anything and compare the result with
the files on disk. Exits with status 1 when any unit differs.

Examples:
  tlgen check
  tlgen check --diff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			r, err := compile(cmd, s, newLogger(s))
			if err != nil {
				return err
			}

			stale := r.Stale()
			if len(stale) == 0 {
				output.Success(fmt.Sprintf("%d units are up to date", len(r.Files)))
				return nil
			}

			output.Error(fmt.Sprintf("%d of %d units are out of date", len(stale), len(r.Files)))
			for _, f := range stale {
				rel, err := filepath.Rel(r.OutputDir, f.Path)
				if err != nil {
					rel = f.Path
				}
				output.Step(rel)
				if !showDiff {
					continue
				}
				old, err := os.ReadFile(f.Path)
				if err != nil && !os.IsNotExist(err) {
					return err
				}
				diff := generator.GenerateDiff("a/"+rel, "b/"+rel, old, f.Content, nil)
				if err := generator.ShowDiff(cmd.OutOrStdout(), rel, diff); err != nil {
					return err
				}
			}
			output.Info("Run 'tlgen generate' to update them")
			return ErrStale
		},
	}

	cmd.Flags().StringP(config.KeyOutput, "o", "", "Output directory (overrides the manifest)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff of every stale unit")

	return cmd
}
