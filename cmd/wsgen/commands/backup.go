package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/wsgen/internal/backup"
	"github.com/thoreinstein/wsgen/internal/cli/prompt"
	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/logging"
)

var (
	backupListJSON      bool
	backupRestoreLatest bool
)

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "output in JSON format")
	backupRestoreCmd.Flags().BoolVar(&backupRestoreLatest, "latest", false,
		"restore the most recent backup without prompting")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of generated files",
	Long: `Manage backups of the workspace's settings and launch script.

generate backs up any file it is about to change. Backups are kept per
workspace under the data directory and pruned to the configured retention.`,
	Example: `  wsgen backup list
  wsgen backup restore --latest`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the current settings and launch script",
	Example: `  wsgen backup create

  See Also: wsgen backup list`,
	Args: cobra.NoArgs,
	RunE: runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups for the workspace",
	Long:  `List the workspace's backups, most recent first.`,
	Example: `  # List backups
  wsgen backup list

  # Output as JSON
  wsgen backup list --json

  See Also: wsgen backup restore`,
	Args: cobra.NoArgs,
	RunE: runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore files from a backup",
	Long: `Restore every file in a backup to its original location.

Stored files are checked against the hashes in the backup manifest before
anything is written, and all files are replaced together. Without a backup
ID you are asked to pick one, unless --latest is given.`,
	Example: `  # Pick a backup interactively
  wsgen backup restore

  # Restore a specific backup
  wsgen backup restore 20260123T100712

  See Also: wsgen backup list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupRestore,
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete backups beyond the retention count",
	Args:  cobra.NoArgs,
	RunE:  runBackupPrune,
}

func runBackupCreate(cmd *cobra.Command, _ []string) error {
	mgr := newBackupManager(cmd.Context())
	manifest, err := mgr.Backup(appWorkspace.Root, []string{
		appWorkspace.SettingsPath(),
		appWorkspace.LaunchScriptPath(),
	})
	if err != nil {
		if errors.Is(err, backup.ErrNothingToBackUp) {
			return errors.NewUserError(err, "run wsgen generate first")
		}
		return errors.NewSystemError(err, "check permissions on the backup directory")
	}
	if _, err := mgr.Prune(appWorkspace.Root); err != nil {
		logging.FromContext(cmd.Context()).Warn("pruning backups failed", "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created backup %s (%d file%s)\n",
		manifest.ID, len(manifest.Files), pluralS(len(manifest.Files)))
	return nil
}

// backupInfoOutput represents a single backup in JSON output.
type backupInfoOutput struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	FileCount    int       `json:"file_count"`
	WsgenVersion string    `json:"wsgen_version"`
}

// backupListOutput represents the JSON output for backup list.
type backupListOutput struct {
	Root    string             `json:"root"`
	Dir     string             `json:"dir"`
	Backups []backupInfoOutput `json:"backups"`
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	mgr := newBackupManager(cmd.Context())

	manifests, err := mgr.List(appWorkspace.Root)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrap(err, "listing backups")
	}

	w := cmd.OutOrStdout()
	if backupListJSON {
		return outputBackupListJSON(w, mgr, manifests)
	}
	outputBackupListTabular(w, manifests)
	return nil
}

func outputBackupListJSON(w io.Writer, mgr *backup.Manager, manifests []backup.Manifest) error {
	out := backupListOutput{
		Root:    appWorkspace.Root,
		Dir:     mgr.Dir(appWorkspace.Root),
		Backups: make([]backupInfoOutput, len(manifests)),
	}
	for i, m := range manifests {
		out.Backups[i] = backupInfoOutput{
			ID:           m.ID,
			CreatedAt:    m.CreatedAt,
			FileCount:    len(m.Files),
			WsgenVersion: m.WsgenVersion,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputBackupListTabular(w io.Writer, manifests []backup.Manifest) {
	if len(manifests) == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before wsgen overwrites a file.")
		fmt.Fprintln(w, "You can also create one with: wsgen backup create")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tFILES\tVERSION")
	for _, m := range manifests {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			m.ID,
			m.CreatedAt.Local().Format(time.DateTime),
			len(m.Files),
			m.WsgenVersion)
	}
	tw.Flush()
}

// newSelector builds the restore prompt. Overridable in tests.
var newSelector = func(cmd *cobra.Command) *prompt.Selector {
	if logging.IsTTY(os.Stdin) {
		return prompt.NewSelector()
	}
	return prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	mgr := newBackupManager(cmd.Context())
	w := cmd.OutOrStdout()

	var backupID string
	switch {
	case len(args) > 0:
		backupID = args[0]
	case backupRestoreLatest:
		latest, err := mgr.Latest(appWorkspace.Root)
		if err != nil {
			return restoreError(err)
		}
		backupID = latest.ID
		fmt.Fprintf(w, "Using most recent backup: %s\n", backupID)
	default:
		manifests, err := mgr.List(appWorkspace.Root)
		if err != nil {
			return restoreError(err)
		}
		selected, err := newSelector(cmd).SelectBackup(manifests)
		if err != nil {
			if errors.Is(err, prompt.ErrSelectionCancelled) {
				return errors.NewUserError(err, "pass a backup ID or --latest")
			}
			return errors.NewUserError(err, "run: wsgen backup list")
		}
		backupID = selected.ID
	}

	manifest, err := mgr.Restore(appWorkspace.Root, backupID)
	if err != nil {
		return restoreError(err)
	}

	fmt.Fprintf(w, "Restored %d file%s from backup %s\n",
		len(manifest.Files), pluralS(len(manifest.Files)), manifest.ID)
	for _, f := range manifest.Files {
		fmt.Fprintf(w, "  %s\n", f.OriginalPath)
	}
	return nil
}

func restoreError(err error) error {
	switch {
	case errors.Is(err, backup.ErrNoBackupsFound):
		return errors.NewUserError(err, "run: wsgen backup list")
	case errors.Is(err, backup.ErrBackupCorrupted):
		return errors.NewSystemError(err, "pick another backup with: wsgen backup list")
	default:
		return errors.NewSystemError(err, "check permissions on the workspace directory")
	}
}

func runBackupPrune(cmd *cobra.Command, _ []string) error {
	mgr := newBackupManager(cmd.Context())
	removed, err := mgr.Prune(appWorkspace.Root)
	if err != nil {
		return errors.NewSystemError(err, "check permissions on the backup directory")
	}

	w := cmd.OutOrStdout()
	if len(removed) == 0 {
		fmt.Fprintf(w, "Nothing to prune (keeping %d)\n", mgr.RetentionCount())
		return nil
	}
	for _, id := range removed {
		fmt.Fprintf(w, "Removed %s\n", id)
	}
	return nil
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
