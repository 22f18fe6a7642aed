package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/generator"
	"github.com/thoreinstein/wsgen/internal/platform"
	"github.com/thoreinstein/wsgen/internal/settings"
)

func expectedSettings(t *testing.T, p platform.Profile, root string) string {
	t.Helper()
	res, err := generator.Generate(p, generator.Options{Root: root})
	require.NoError(t, err)
	data, err := settings.Encode(res.Settings)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_Linux(t *testing.T) {
	root := newWorkspace(t, "linux")

	out, err := runCLI(t, "generate")
	require.NoError(t, err)

	settingsPath := filepath.Join(root, ".vscode", "settings.json")
	assert.Equal(t, expectedSettings(t, platform.Linux(), root), readFile(t, settingsPath))
	assert.NoFileExists(t, filepath.Join(root, "run.bat"))
	assert.Contains(t, out, "created")
	assert.Contains(t, out, settingsPath)
}

func TestGenerate_Windows(t *testing.T) {
	root := newWorkspace(t, "windows")

	_, err := runCLI(t)
	require.NoError(t, err)

	assert.Equal(t, expectedSettings(t, platform.Windows(), root),
		readFile(t, filepath.Join(root, ".vscode", "settings.json")))

	script := readFile(t, filepath.Join(root, "run.bat"))
	assert.True(t, strings.HasPrefix(script, "@echo off\r\n"), "script: %q", script)
	assert.Contains(t, script, "set LIBCLANG_PATH="+filepath.Join(root, "extern", "clang-llvm-21.1.3")+"\r\n")
}

func TestGenerate_UnsupportedPlatformWritesNothing(t *testing.T) {
	root := newWorkspace(t, "darwin")
	settingsPath := filepath.Join(root, ".vscode", "settings.json")
	writeFile(t, settingsPath, `{"keep": true}`)

	_, err := runCLI(t, "generate")
	require.Error(t, err)
	assert.True(t, errors.Is(err, platform.ErrUnsupportedPlatform))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Suggestion, platform.EnvOverride)

	assert.Equal(t, `{"keep": true}`, readFile(t, settingsPath))
	assert.NoFileExists(t, filepath.Join(root, "run.bat"))
}

func TestGenerate_Idempotent(t *testing.T) {
	root := newWorkspace(t, "windows")

	_, err := runCLI(t, "generate")
	require.NoError(t, err)
	first := readFile(t, filepath.Join(root, ".vscode", "settings.json"))

	out, err := runCLI(t, "generate")
	require.NoError(t, err)
	assert.Equal(t, first, readFile(t, filepath.Join(root, ".vscode", "settings.json")))
	assert.Equal(t, 2, strings.Count(out, "unchanged"))
	assert.NotContains(t, out, "Backed up")
}

func TestGenerate_BacksUpAndRestores(t *testing.T) {
	root := newWorkspace(t, "linux")
	settingsPath := filepath.Join(root, ".vscode", "settings.json")
	writeFile(t, settingsPath, `{"stale": true}`)

	out, err := runCLI(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "updated")
	assert.Contains(t, out, "Backed up previous files as ")

	out, err = runCLI(t, "backup", "list", "--json")
	require.NoError(t, err)
	var listed backupListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed.Backups, 1)
	assert.Equal(t, root, listed.Root)
	assert.Equal(t, 1, listed.Backups[0].FileCount)

	out, err = runCLI(t, "backup", "restore", listed.Backups[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 file from backup")
	assert.Equal(t, `{"stale": true}`, readFile(t, settingsPath))
}

func TestGenerate_NoBackup(t *testing.T) {
	root := newWorkspace(t, "linux")
	writeFile(t, filepath.Join(root, ".vscode", "settings.json"), `{}`)

	out, err := runCLI(t, "generate", "--no-backup")
	require.NoError(t, err)
	assert.NotContains(t, out, "Backed up")

	out, err = runCLI(t, "backup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups available")
}

func TestGenerate_DryRun(t *testing.T) {
	root := newWorkspace(t, "windows")

	out, err := runCLI(t, "generate", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run for windows")
	assert.Equal(t, 2, strings.Count(out, "created"))

	_, err = os.Stat(filepath.Join(root, ".vscode"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_RootFlag(t *testing.T) {
	newWorkspace(t, "linux")
	other := t.TempDir()

	_, err := runCLI(t, "--root", other, "generate")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(other, ".vscode", "settings.json"))

	_, err = runCLI(t, "--root", filepath.Join(other, "missing"), "generate")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}
