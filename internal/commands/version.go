package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/tlgen"
)

// VersionCmd creates and returns the 'version' command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tlgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tlgen %s\n", tlgen.Version)
		},
	}
}
