// Package backup snapshots workspace artifacts before wsgen overwrites them.
//
// Each backup is a timestamped directory under the workspace's key:
//
//	$XDG_DATA_HOME/wsgen/backups/
//	└── {workspace}-{hash}/
//	    └── {timestamp}/
//	        ├── manifest.json
//	        ├── .vscode/settings.json
//	        └── run.bat
//
// The manifest records a SHA256 hash per file. [Manager.Restore] verifies
// every hash before writing anything and returns [ErrBackupCorrupted] on a
// mismatch.
//
//	mgr := backup.NewManager(backup.WithRetentionCount(cfg.Backup.Retention))
//	if _, err := mgr.Backup(root, []string{settingsPath}); err != nil &&
//	    !errors.Is(err, backup.ErrNothingToBackUp) {
//	    return err
//	}
//	_, err := mgr.Prune(root)
package backup
