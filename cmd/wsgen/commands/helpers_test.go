package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/wsgen/internal/logging"
	"github.com/thoreinstein/wsgen/internal/paths"
	"github.com/thoreinstein/wsgen/internal/platform"
)

// resetGlobals restores flag variables and loaded state between runs of
// the shared rootCmd.
func resetGlobals(t *testing.T) {
	t.Helper()

	rootFlag, configFlag = "", ""
	verbosity, quiet = 0, false
	logFormat, logFile = "text", ""
	colorFlag = string(logging.ColorNever)

	generateDryRun, generateNoBackup = false, false
	showFormat, showArtifact = "json", artifactSettings
	doctorJSON, doctorQuiet, doctorVerbose, doctorFix = false, false, false, false
	backupListJSON, backupRestoreLatest = false, false

	appFs = afero.NewOsFs()
	appConfig, appWorkspace = nil, nil

	t.Cleanup(viper.Reset)
}

// newWorkspace isolates config, data and platform detection and returns an
// empty workspace root that is also the working directory.
func newWorkspace(t *testing.T, platformID string) string {
	t.Helper()

	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv(paths.EnvDataDir, t.TempDir())
	t.Setenv(platform.EnvOverride, platformID)
	t.Setenv(debugEnv, "")

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(root)
	return root
}

// runCLI executes the CLI with args and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetGlobals(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
