package backup

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/logging"
)

const wsRoot = "/src/ws"

var (
	settingsPath = filepath.Join(wsRoot, ".vscode", "settings.json")
	launchPath   = filepath.Join(wsRoot, "run.bat")
)

// fakeClock returns a clock that advances by step on every call.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func newTestManager(t *testing.T, fs afero.Fs, opts ...Option) *Manager {
	t.Helper()
	base := []Option{
		WithFs(fs),
		WithBackupDir("/backups"),
		WithClock(fakeClock(time.Date(2026, 1, 23, 10, 7, 12, 0, time.UTC), time.Minute)),
		WithLogger(logging.ForTest(t)),
	}
	return NewManager(append(base, opts...)...)
}

func seed(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestBackup_RestoreRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, settingsPath, `{"a": 1}`)
	seed(t, fs, launchPath, "@echo off\r\n")
	m := newTestManager(t, fs)

	manifest, err := m.Backup(wsRoot, []string{settingsPath, launchPath})
	require.NoError(t, err)
	assert.Equal(t, "20260123T100712", manifest.ID)
	require.Len(t, manifest.Files, 2)
	assert.Equal(t, ".vscode/settings.json", manifest.Files[0].RelPath)

	seed(t, fs, settingsPath, "overwritten")
	seed(t, fs, launchPath, "overwritten")

	_, err = m.Restore(wsRoot, manifest.ID)
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(got))
	got, err = afero.ReadFile(fs, launchPath)
	require.NoError(t, err)
	assert.Equal(t, "@echo off\r\n", string(got))
}

func TestBackup_SkipsMissingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, settingsPath, "{}")
	m := newTestManager(t, fs)

	manifest, err := m.Backup(wsRoot, []string{settingsPath, launchPath})
	require.NoError(t, err)
	assert.Len(t, manifest.Files, 1)
}

func TestBackup_NothingToBackUp(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newTestManager(t, fs)

	_, err := m.Backup(wsRoot, []string{settingsPath})
	assert.True(t, errors.Is(err, ErrNothingToBackUp))

	_, err = m.List(wsRoot)
	assert.True(t, errors.Is(err, ErrNoBackupsFound))
}

func TestBackup_SameSecondGetsUniqueID(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, settingsPath, "{}")
	fixed := time.Date(2026, 1, 23, 10, 7, 12, 0, time.UTC)
	m := newTestManager(t, fs, WithClock(func() time.Time { return fixed }))

	first, err := m.Backup(wsRoot, []string{settingsPath})
	require.NoError(t, err)
	second, err := m.Backup(wsRoot, []string{settingsPath})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "20260123T100712-1", second.ID)

	latest, err := m.Latest(wsRoot)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestRestore_CorruptedBackup(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, settingsPath, "original")
	m := newTestManager(t, fs)

	manifest, err := m.Backup(wsRoot, []string{settingsPath})
	require.NoError(t, err)

	stored := filepath.Join(m.Dir(wsRoot), manifest.ID, ".vscode", "settings.json")
	require.NoError(t, afero.WriteFile(fs, stored, []byte("tampered"), 0o644))
	seed(t, fs, settingsPath, "current")

	_, err = m.Restore(wsRoot, manifest.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackupCorrupted))

	got, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "current", string(got), "corrupted restore must not write")
}

func TestRestore_UnknownID(t *testing.T) {
	m := newTestManager(t, afero.NewMemMapFs())
	_, err := m.Restore(wsRoot, "20990101T000000")
	assert.True(t, errors.Is(err, ErrNoBackupsFound))
}

func TestGet_RejectsIDsOutsideBackupDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, settingsPath, "current")
	m := newTestManager(t, fs)
	manifest, err := m.Backup(wsRoot, []string{settingsPath})
	require.NoError(t, err)

	// A manifest one level up from the workspace backup directory must not
	// be reachable through a crafted ID.
	outside := filepath.Join(filepath.Dir(m.Dir(wsRoot)), "x")
	seed(t, fs, filepath.Join(outside, ManifestFile), `{"version":1,"files":[]}`)

	for _, id := range []string{"../x", "../../x", "/etc", manifest.ID + "/..", `..\x`, ".", ".."} {
		t.Run(id, func(t *testing.T) {
			_, err := m.Get(wsRoot, id)
			assert.True(t, errors.Is(err, ErrNoBackupsFound), "Get: %v", err)

			_, err = m.Restore(wsRoot, id)
			assert.True(t, errors.Is(err, ErrNoBackupsFound), "Restore: %v", err)
		})
	}

	got, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "current", string(got))
}

func TestListAndPrune(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, settingsPath, "{}")
	m := newTestManager(t, fs, WithRetentionCount(2))

	var ids []string
	for range 4 {
		manifest, err := m.Backup(wsRoot, []string{settingsPath})
		require.NoError(t, err)
		ids = append(ids, manifest.ID)
	}

	list, err := m.List(wsRoot)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, ids[3], list[0].ID, "newest first")

	removed, err := m.Prune(wsRoot)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids[:2], removed)

	list, err = m.List(wsRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[3], ids[2]}, []string{list[0].ID, list[1].ID})
}

func TestPrune_NoBackups(t *testing.T) {
	m := newTestManager(t, afero.NewMemMapFs())
	removed, err := m.Prune(wsRoot)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestList_SkipsInvalidDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, settingsPath, "{}")
	m := newTestManager(t, fs)

	_, err := m.Backup(wsRoot, []string{settingsPath})
	require.NoError(t, err)
	require.NoError(t, fs.MkdirAll(filepath.Join(m.Dir(wsRoot), "junk"), 0o755))

	list, err := m.List(wsRoot)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWorkspaceKey(t *testing.T) {
	a := WorkspaceKey("/src/a/ws")
	b := WorkspaceKey("/src/b/ws")

	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^ws-[0-9a-f]{12}$`, a)
	assert.Equal(t, a, WorkspaceKey("/src/a/ws/"))
}

func TestStorageRelPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(wsRoot, "run.bat"), "run.bat"},
		{filepath.Join(wsRoot, ".vscode", "settings.json"), ".vscode/settings.json"},
		{"/etc/other.json", "external/etc/other.json"},
	}

	for _, tt := range tests {
		got := storageRelPath(wsRoot, tt.path)
		assert.Equal(t, tt.want, got)
		assert.NotContains(t, got, ":")
	}
}
