package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/wsgen/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of wsgen.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		fmt.Fprint(c.OutOrStdout(), cmd.Summary())
	},
}
