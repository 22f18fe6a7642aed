package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// WorkspaceKey names the backup directory for a workspace root: the root's
// base name plus a short hash of the cleaned absolute path, so two
// checkouts named alike never share backups.
func WorkspaceKey(root string) string {
	clean := filepath.Clean(root)
	sum := sha256.Sum256([]byte(clean))

	base := filepath.Base(clean)
	if base == string(filepath.Separator) || base == "." || strings.HasSuffix(base, ":") || strings.HasSuffix(base, `\`) {
		base = "root"
	}
	return base + "-" + hex.EncodeToString(sum[:])[:12]
}

// storageRelPath maps an original file to its location inside a backup.
// Files under root keep their workspace-relative path; anything else is
// stored under "external/" with separators and drive colons flattened.
func storageRelPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(rel)
	}

	clean := strings.ReplaceAll(filepath.Clean(path), ":", "")
	clean = strings.TrimLeft(filepath.ToSlash(clean), "/")
	return "external/" + clean
}
