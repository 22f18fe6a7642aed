package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/settings"
)

var (
	showFormat   string
	showArtifact string
)

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "json",
		"settings output format: json, yaml")
	showCmd.Flags().StringVar(&showArtifact, "artifact", artifactSettings,
		"artifact to print: settings, launch")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a generated artifact without writing it",
	Long: `Print the settings document or launch script that generate would
write, using the same platform detection and configuration.

The launch script exists only on Windows; use WSGEN_PLATFORM=windows to
preview it from another host.`,
	Example: `  # Print the settings
  wsgen show

  # Print the settings as YAML
  wsgen show --format yaml

  # Print the Windows launch script
  WSGEN_PLATFORM=windows wsgen show --artifact launch

  See Also: wsgen generate`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, _ []string) error {
	pl, err := buildPlan(detectProfile())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	switch showArtifact {
	case artifactSettings:
		var data []byte
		switch showFormat {
		case "json":
			data, err = settings.Encode(pl.result.Settings)
		case "yaml":
			data, err = settings.EncodeYAML(pl.result.Settings)
		default:
			return errors.NewUserError(errors.Newf("invalid --format %q", showFormat),
				"use --format json or --format yaml")
		}
		if err != nil {
			return errors.Wrap(err, "encoding settings")
		}
		_, err = w.Write(data)
		return err

	case artifactLaunch:
		if pl.result.Launch == nil {
			return errors.NewUserError(
				errors.Newf("no launch script is generated on %s", pl.profile),
				"set WSGEN_PLATFORM=windows to preview it")
		}
		_, err = w.Write(pl.result.Launch.Bytes())
		return err

	default:
		return errors.NewUserError(errors.Newf("unknown artifact %q", showArtifact),
			fmt.Sprintf("use --artifact %s or --artifact %s", artifactSettings, artifactLaunch))
	}
}
