// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/wsgen/internal/errors"
)

// tempPattern names staged files so stray ones are recognizable.
const tempPattern = ".wsgen-atomic-*.tmp"

// WriteTemp stages data in a temp file next to path and returns its name.
// The temp file lives in the same directory so a later rename stays on one
// filesystem. On error nothing is left behind.
//
// The caller is responsible for ensuring the parent directory exists.
func WriteTemp(fs afero.Fs, path string, data []byte, perm os.FileMode) (string, error) {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), tempPattern)
	if err != nil {
		return "", errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	fail := func(err error, msg string) (string, error) {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
		return "", errors.Wrap(err, msg)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err, "writing temp file")
	}
	if err := tmp.Sync(); err != nil {
		return fail(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return "", errors.Wrap(err, "closing temp file")
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		_ = fs.Remove(tmpName)
		return "", errors.Wrap(err, "setting file permissions")
	}

	return tmpName, nil
}

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// An interrupted write leaves the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	tmpName, err := WriteTemp(fs, path, data, perm)
	if err != nil {
		return err
	}
	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// AtomicWriteJSON writes v as 2-space indented JSON with a trailing newline.
//
// The caller is responsible for ensuring the parent directory exists.
// The file is created with 0644 permissions.
func AtomicWriteJSON(fs afero.Fs, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	data = append(data, '\n')
	return AtomicWriteFile(fs, path, data, 0o644)
}
