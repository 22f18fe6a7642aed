package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/wsgen/internal/config"
	"github.com/thoreinstein/wsgen/internal/editor"
	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/paths"
	"github.com/thoreinstein/wsgen/pkg/fileutil"
)

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect wsgen configuration",
	Long: `Inspect the effective wsgen configuration.

Configuration is read from the first config.yaml found in the workspace's
.wsgen directory, the current directory, or the user config directory.
WSGEN_* environment variables override file values, e.g.
WSGEN_TOOLCHAIN_VERSION=18.1.8.

Without a subcommand, lists all configuration values.`,
	Example: `  # List the effective configuration
  wsgen config

  # Show which file was loaded
  wsgen config path

See Also: wsgen doctor`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where configuration is read from",
	Long: `Print the config file in use and the directories searched.

This command still runs when the config file is invalid, so it can be used
to find the file that needs fixing.`,
	Annotations: map[string]string{annotationLenientConfig: "true"},
	Args:        cobra.NoArgs,
	RunE:        runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the config file in use in your editor.

When no config file exists, a workspace config holding the defaults is
created at .wsgen/config.yaml first. Uses $EDITOR, then $VISUAL, then nano
or vi.`,
	Example: `  # Edit the config
  wsgen config edit

  # With a specific editor
  EDITOR="code --wait" wsgen config edit

See Also: wsgen config path`,
	Annotations: map[string]string{annotationLenientConfig: "true"},
	Args:        cobra.NoArgs,
	RunE:        runConfigEdit,
}

// openEditor is replaced in tests.
var openEditor = func(ctx context.Context, path string) error {
	return editor.New().Open(ctx, path)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(appConfig)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	used := config.Used()
	if used == "" {
		used = "(none, using defaults)"
	}
	fmt.Fprintf(w, "config:    %s\n", used)
	fmt.Fprintf(w, "workspace: %s (from %s)\n", appWorkspace.Root, appWorkspace.Source)
	fmt.Fprintln(w, "searched:")
	fmt.Fprintf(w, "  %s\n", appWorkspace.ConfigDir())
	fmt.Fprintln(w, "  .")
	fmt.Fprintf(w, "  %s\n", paths.ConfigDir())
	fmt.Fprintf(w, "backups:   %s\n", appConfig.Backup.BackupDir())
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	path := config.Used()
	if path == "" {
		path = filepath.Join(appWorkspace.ConfigDir(), config.FileName+".yaml")
		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return errors.Wrap(err, "encoding default config")
		}
		if err := appFs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
		}
		if err := fileutil.AtomicWriteFile(appFs, path, data, 0o644); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "writing default config"), "")
		}
		fmt.Fprintf(w, "Created %s\n", path)
	}

	fmt.Fprintf(w, "Location: %s\n", path)
	if err := openEditor(cmd.Context(), path); err != nil {
		return errors.NewUserError(err, "set $EDITOR to an installed editor")
	}
	return nil
}
