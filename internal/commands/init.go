package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/tlgen/internal/config"
	"github.com/simonhull/tlgen/internal/generator"
)

// InitCmd creates and returns the 'init' command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a tlgen.yml for the Tdb types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			op := &generator.WriteFileOp{
				Path:    s.ConfigFile,
				Content: config.TdbManifestYAML(),
				Mode:    0o644,
			}
			return generator.Execute(cmd.Context(), []generator.Operation{op}, generator.ExecuteOptions{
				Force:  force,
				Writer: cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing manifest")

	return cmd
}
