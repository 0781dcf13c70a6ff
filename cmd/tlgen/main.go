package main

import (
	"errors"
	"os"

	"github.com/simonhull/tlgen/internal/commands"
	"github.com/simonhull/tlgen/internal/output"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.GenerateCmd())
	rootCmd.AddCommand(commands.CheckCmd())
	rootCmd.AddCommand(commands.InitCmd())
	rootCmd.AddCommand(commands.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrStale) {
			output.Error(err.Error())
		}
		os.Exit(1)
	}
}
