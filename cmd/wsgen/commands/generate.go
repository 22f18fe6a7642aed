package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/writer"
)

var (
	generateDryRun   bool
	generateNoBackup bool
)

func init() {
	for _, c := range []*cobra.Command{rootCmd, generateCmd} {
		c.Flags().BoolVar(&generateDryRun, "dry-run", false,
			"show what would be written without writing")
		c.Flags().BoolVar(&generateNoBackup, "no-backup", false,
			"do not back up files before overwriting them")
	}
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the workspace settings and launch script",
	Long: `Write .vscode/settings.json for the host platform and, on Windows,
run.bat at the workspace root.

All files are staged before any is replaced, so a failure leaves the
workspace as it was. Files that would change are backed up first unless
backups are disabled in the config or --no-backup is given.`,
	Example: `  # Generate for this machine
  wsgen generate

  # Preview the Windows output from any host
  WSGEN_PLATFORM=windows wsgen generate --dry-run

  See Also: wsgen show, wsgen backup list`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	pl, err := buildPlan(detectProfile())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if generateDryRun {
		planned, err := writer.New(appFs).Plan(pl.artifacts)
		if err != nil {
			return errors.NewSystemError(err, "check permissions on the workspace directory")
		}
		if !quiet {
			fmt.Fprintf(w, "Dry run for %s (nothing written):\n", pl.profile)
			printResults(cmd, planned)
		}
		return nil
	}

	results, manifest, err := commitPlan(cmd.Context(), pl, generateNoBackup)
	if err != nil {
		return err
	}

	if quiet {
		return nil
	}
	printResults(cmd, results)
	if manifest != nil {
		fmt.Fprintf(w, "Backed up previous files as %s\n", manifest.ID)
	}
	return nil
}

func printResults(cmd *cobra.Command, results []writer.Result) {
	w := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(w, "  %-9s %s\n", r.Status, r.Artifact.Path)
	}
}
