package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/wsgen/internal/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// ManifestFile is the manifest name inside each backup directory.
const ManifestFile = "manifest.json"

// IDLayout formats backup IDs from their creation time.
const IDLayout = "20060102T150405"

// DefaultRetentionCount is the default number of backups kept per workspace.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the workspace.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored file no longer matches the
	// SHA256 hash recorded in its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrNothingToBackUp indicates none of the given paths exist.
	ErrNothingToBackUp = errors.New("no files to back up")
)

// Manifest describes one backup. It is stored as manifest.json in the
// backup directory.
type Manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	// Root is the workspace root the files belong to.
	Root string `json:"root"`

	Files []File `json:"files"`

	// WsgenVersion is the version of wsgen that created this backup.
	WsgenVersion string `json:"wsgen_version"`

	// ID is the backup directory name. Populated on load, not stored.
	ID string `json:"-"`
}

// File describes one backed up file.
type File struct {
	// OriginalPath is the absolute path the file was copied from.
	OriginalPath string `json:"original_path"`

	// RelPath is the slash-separated location inside the backup directory.
	RelPath string `json:"rel_path"`

	SHA256Hash string      `json:"sha256_hash"`
	Mode       fs.FileMode `json:"mode"`
	Size       int64       `json:"size"`
}
