package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names wsgen's directories under the XDG homes.
const AppName = "wsgen"

// Environment overrides for the XDG-derived directories.
const (
	EnvConfigDir = "WSGEN_CONFIG_DIR"
	EnvDataDir   = "WSGEN_DATA_DIR"
)

// DefaultDirPerm is the default permission for directories wsgen creates
// outside the workspace.
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any parents.
// If perm is 0, DefaultDirPerm is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the user-level config directory, <ConfigHome>/wsgen,
// unless WSGEN_CONFIG_DIR is set.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// DataDir returns <DataHome>/wsgen unless WSGEN_DATA_DIR is set.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return filepath.Join(DataHome(), AppName)
}

// BackupDir returns the root of all workspace backups, <DataDir>/backups.
func BackupDir() string {
	return filepath.Join(DataDir(), "backups")
}
