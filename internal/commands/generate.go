package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/tlgen/internal/compiler"
	"github.com/simonhull/tlgen/internal/config"
	"github.com/simonhull/tlgen/internal/generator"
	"github.com/simonhull/tlgen/internal/logger"
	"github.com/simonhull/tlgen/internal/output"
	"github.com/simonhull/tlgen/internal/project"
)

// GenerateCmd creates and returns the 'generate' command
func GenerateCmd() *cobra.Command {
	var dryRun, force bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile the schemas and write the generated units",
		Long: `Compile every schema file named by the manifest and write the generated
units. All units are written together: on any error nothing is changed.

Examples:
  tlgen generate
  tlgen generate --config scheme/tlgen.yml --output internal/tdb
  tlgen generate --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log := newLogger(s)

			r, err := compile(cmd, s, log)
			if err != nil {
				return err
			}
			describePackage(r.OutputDir)

			err = generator.Execute(cmd.Context(), r.Operations(), generator.ExecuteOptions{
				DryRun: dryRun,
				Force:  force,
				Writer: cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if !dryRun {
				output.Success(fmt.Sprintf("Generated %d units from %d schema files", len(r.Files), len(r.Schemas)))
			}
			return nil
		},
	}

	cmd.Flags().StringP(config.KeyOutput, "o", "", "Output directory (overrides the manifest)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be written without writing")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that were not generated by tlgen")

	return cmd
}

func compile(cmd *cobra.Command, s config.Settings, log logger.Logger) (*compiler.Result, error) {
	m, err := config.Load(s.ConfigFile)
	if err != nil {
		return nil, err
	}
	output.Verbose(fmt.Sprintf("Manifest %s", s.ConfigFile))

	r, err := compiler.Compile(cmd.Context(), compiler.Options{
		Manifest: m,
		Output:   s.Output,
		Workers:  s.Workers,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	for _, name := range r.Unmapped {
		output.Verbose(fmt.Sprintf("%s has no external counterpart; no conversion generated", name))
	}
	return r, nil
}

// describePackage reports the import path of the output package.
func describePackage(dir string) {
	mod, err := project.FindModule(dir)
	if err != nil {
		output.Verbose(fmt.Sprintf("Output %s is not inside a Go module", dir))
		return
	}
	path, err := mod.ImportPath(dir)
	if err != nil {
		output.Verbose(err.Error())
		return
	}
	output.Verbose(fmt.Sprintf("Output package %s", path))
}
