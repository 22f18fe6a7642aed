package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/paths"
	"github.com/thoreinstein/wsgen/internal/writer"
	"github.com/thoreinstein/wsgen/pkg/fileutil"
)

// Version is recorded in new manifests. The CLI sets it from the build.
var Version = "dev"

// Manager creates, lists, restores and prunes workspace backups.
type Manager struct {
	fs             afero.Fs
	rootDir        string
	retentionCount int
	now            func() time.Time
	logger         *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = dir
		}
	}
}

// WithRetentionCount sets the number of backups Prune keeps.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		fs:             afero.NewOsFs(),
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RetentionCount returns the number of backups Prune keeps.
func (m *Manager) RetentionCount() int {
	return m.retentionCount
}

// Backup copies the existing files among filePaths into a new backup for the
// workspace at root. Missing files are skipped; if none exist
// ErrNothingToBackUp is returned and nothing is created.
func (m *Manager) Backup(root string, filePaths []string) (*Manifest, error) {
	if root == "" {
		return nil, errors.New("workspace root is required")
	}

	type source struct {
		path string
		data []byte
		mode os.FileMode
	}
	var sources []source
	for _, p := range filePaths {
		info, err := m.fs.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		if info.IsDir() {
			return nil, errors.Newf("%s is a directory", p)
		}
		data, err := fileutil.ReadFileWithLimit(m.fs, p)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", p)
		}
		sources = append(sources, source{path: p, data: data, mode: info.Mode().Perm()})
	}
	if len(sources) == 0 {
		return nil, ErrNothingToBackUp
	}

	created := m.now().UTC()
	id, err := m.allocateID(root, created)
	if err != nil {
		return nil, err
	}
	dir := m.backupPath(root, id)

	manifest := &Manifest{
		Version:      ManifestVersion,
		CreatedAt:    created,
		Root:         filepath.Clean(root),
		WsgenVersion: Version,
		ID:           id,
	}

	for _, src := range sources {
		rel := storageRelPath(root, src.path)
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if err := m.fs.MkdirAll(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
			_ = m.fs.RemoveAll(dir)
			return nil, errors.Wrap(err, "creating backup directory")
		}
		if err := afero.WriteFile(m.fs, dst, src.data, src.mode); err != nil {
			_ = m.fs.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up %s", src.path)
		}
		manifest.Files = append(manifest.Files, File{
			OriginalPath: src.path,
			RelPath:      rel,
			SHA256Hash:   hashBytes(src.data),
			Mode:         src.mode,
			Size:         int64(len(src.data)),
		})
	}

	if err := fileutil.AtomicWriteJSON(m.fs, filepath.Join(dir, ManifestFile), manifest); err != nil {
		_ = m.fs.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	m.logger.Debug("created backup", "id", id, "root", root, "files", len(manifest.Files))
	return manifest, nil
}

// allocateID returns an unused backup ID for created. Backups made within
// the same second get a numeric suffix.
func (m *Manager) allocateID(root string, created time.Time) (string, error) {
	base := created.Format(IDLayout)
	id := base
	for n := 1; ; n++ {
		exists, err := afero.DirExists(m.fs, m.backupPath(root, id))
		if err != nil {
			return "", errors.Wrap(err, "checking backup directory")
		}
		if !exists {
			if err := m.fs.MkdirAll(m.backupPath(root, id), paths.DefaultDirPerm); err != nil {
				return "", errors.Wrap(err, "creating backup directory")
			}
			return id, nil
		}
		id = base + "-" + strconv.Itoa(n)
	}
}

// Verify checks every file in a backup against its recorded hash and returns
// the stored contents keyed by original path.
func (m *Manager) Verify(root, backupID string) (*Manifest, map[string][]byte, error) {
	manifest, err := m.Get(root, backupID)
	if err != nil {
		return nil, nil, err
	}

	dir := m.backupPath(root, backupID)
	contents := make(map[string][]byte, len(manifest.Files))
	for _, f := range manifest.Files {
		if !filepath.IsLocal(filepath.FromSlash(f.RelPath)) || path.IsAbs(f.RelPath) {
			return nil, nil, errors.Wrapf(ErrBackupCorrupted, "file %s escapes backup directory", f.RelPath)
		}
		data, err := fileutil.ReadFileWithLimit(m.fs, filepath.Join(dir, filepath.FromSlash(f.RelPath)))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, errors.Wrapf(ErrBackupCorrupted, "file %s missing", f.RelPath)
			}
			return nil, nil, errors.Wrapf(err, "reading backup file %s", f.RelPath)
		}
		if hashBytes(data) != f.SHA256Hash {
			return nil, nil, errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", f.RelPath)
		}
		contents[f.OriginalPath] = data
	}
	return manifest, contents, nil
}

// Restore writes every file in a backup back to its original location.
// All hashes are verified before anything is written, and the files are
// committed together so a failed restore leaves the workspace untouched.
func (m *Manager) Restore(root, backupID string) (*Manifest, error) {
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}

	manifest, contents, err := m.Verify(root, backupID)
	if err != nil {
		return nil, err
	}

	artifacts := make([]writer.Artifact, 0, len(manifest.Files))
	for _, f := range manifest.Files {
		artifacts = append(artifacts, writer.Artifact{
			Name: f.RelPath,
			Path: f.OriginalPath,
			Data: contents[f.OriginalPath],
			Perm: f.Mode,
		})
	}

	if _, err := writer.New(m.fs, writer.WithLogger(m.logger)).Commit(artifacts); err != nil {
		return nil, errors.Wrapf(err, "restoring backup %s", backupID)
	}
	return manifest, nil
}

// List returns the backups for a workspace, newest first.
func (m *Manager) List(root string) ([]Manifest, error) {
	entries, err := afero.ReadDir(m.fs, m.workspaceDir(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(root, entry.Name())
		if err != nil {
			m.logger.Debug("skipping invalid backup", "id", entry.Name(), "error", err)
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})

	return manifests, nil
}

// compareIDs orders IDs sharing a timestamp by their numeric suffix.
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Latest returns the newest backup for a workspace.
func (m *Manager) Latest(root string) (*Manifest, error) {
	manifests, err := m.List(root)
	if err != nil {
		return nil, err
	}
	return &manifests[0], nil
}

// Prune removes all but the newest RetentionCount backups and returns the
// IDs it removed.
func (m *Manager) Prune(root string) ([]string, error) {
	manifests, err := m.List(root)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for i := m.retentionCount; i < len(manifests); i++ {
		id := manifests[i].ID
		if err := m.fs.RemoveAll(m.backupPath(root, id)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", id)
		}
		removed = append(removed, id)
	}
	if len(removed) > 0 {
		m.logger.Debug("pruned backups", "root", root, "removed", len(removed), "kept", m.retentionCount)
	}
	return removed, nil
}

// Get returns the manifest for a specific backup.
func (m *Manager) Get(root, backupID string) (*Manifest, error) {
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}
	if !validID(backupID) {
		return nil, errors.Wrapf(ErrNoBackupsFound, "backup %q not found", backupID)
	}

	data, err := fileutil.ReadFileWithLimit(m.fs, filepath.Join(m.backupPath(root, backupID), ManifestFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	if manifest.Version > ManifestVersion {
		return nil, errors.Newf("backup %s has unsupported manifest version %d", backupID, manifest.Version)
	}

	manifest.ID = backupID
	return &manifest, nil
}

// Dir returns the directory holding a workspace's backups.
func (m *Manager) Dir(root string) string {
	return m.workspaceDir(root)
}

func (m *Manager) workspaceDir(root string) string {
	return filepath.Join(m.rootDir, WorkspaceKey(root))
}

// validID reports whether backupID names a single entry inside the
// workspace backup directory.
func validID(backupID string) bool {
	return filepath.IsLocal(backupID) && backupID != "." && !strings.ContainsAny(backupID, `/\`)
}

func (m *Manager) backupPath(root, backupID string) string {
	return filepath.Join(m.workspaceDir(root), backupID)
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
