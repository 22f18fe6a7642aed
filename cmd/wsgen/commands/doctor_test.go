package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/wsgen/internal/doctor"
	"github.com/thoreinstein/wsgen/internal/errors"
)

// seedCrates creates the Cargo projects the Linux settings link to.
func seedCrates(t *testing.T, root string) {
	t.Helper()
	writeFile(t, filepath.Join(root, "common-ffi", "Cargo.toml"), "[package]\nname = \"common-ffi\"\n")
	writeFile(t, filepath.Join(root, "linux-listener", "Cargo.toml"), "[package]\nname = \"linux-listener\"\n")
}

// reportJSON mirrors the parts of doctor --json output the tests read.
type reportJSON struct {
	Results []*struct {
		Name    string `json:"name"`
		Status  string `json:"status"`
		Message string `json:"message"`
		Fixable bool   `json:"fixable"`
	} `json:"results"`
	Fixes []doctor.FixResult `json:"fixes"`
}

func parseReport(t *testing.T, out string) (*reportJSON, map[string]string) {
	t.Helper()
	var report reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	status := make(map[string]string, len(report.Results))
	for _, r := range report.Results {
		status[r.Name] = r.Status
	}
	return &report, status
}

func TestDoctor_MissingSettingsIsWarning(t *testing.T) {
	root := newWorkspace(t, "linux")
	seedCrates(t, root)

	out, err := runCLI(t, "doctor", "--json")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	report, status := parseReport(t, out)
	require.Contains(t, status, "settings-drift")
	assert.Equal(t, "warning", status["settings-drift"])
	assert.Equal(t, "pass", status["platform"])
	for _, r := range report.Results {
		if r.Name == "settings-drift" {
			assert.True(t, r.Fixable)
		}
	}
}

func TestDoctor_Fix(t *testing.T) {
	root := newWorkspace(t, "linux")
	seedCrates(t, root)
	writeFile(t, filepath.Join(root, ".vscode", "settings.json"), `{"editor.tabSize": 2}`)

	out, err := runCLI(t, "doctor", "--json", "--fix")
	require.NoError(t, err, out)

	report, status := parseReport(t, out)
	assert.NotEmpty(t, report.Fixes)
	for _, f := range report.Fixes {
		assert.True(t, f.Fixed, f.Description)
	}
	assert.Equal(t, "pass", status["settings-drift"])
	assert.Equal(t, "pass", status["settings-schema"])

	// The drifted file was backed up before it was replaced.
	out, err = runCLI(t, "backup", "list", "--json")
	require.NoError(t, err)
	var listed backupListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed.Backups, 1)
}

func TestDoctor_ToolchainBelowMinimumIsError(t *testing.T) {
	root := newWorkspace(t, "linux")
	seedCrates(t, root)
	t.Setenv("WSGEN_TOOLCHAIN_MIN_VERSION", "99.0.0")
	_, err := runCLI(t, "generate")
	require.NoError(t, err)

	out, err := runCLI(t, "doctor", "--json")
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, errors.ExitCode(err))

	_, status := parseReport(t, out)
	assert.Equal(t, "error", status["toolchain"])
}

func TestDoctor_UnsupportedPlatformIsError(t *testing.T) {
	newWorkspace(t, "freebsd")

	out, err := runCLI(t, "doctor")
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, errors.ExitCode(err))
	assert.Contains(t, out, "✗ [platform] platform:")
	assert.Contains(t, out, "Summary: ")
}

func TestDoctor_QuietPrintsNothing(t *testing.T) {
	root := newWorkspace(t, "linux")
	seedCrates(t, root)

	out, err := runCLI(t, "doctor", "--quiet")
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestDoctor_VerboseShowsPassedChecks(t *testing.T) {
	root := newWorkspace(t, "linux")
	seedCrates(t, root)
	_, err := runCLI(t, "generate")
	require.NoError(t, err)

	out, err := runCLI(t, "doctor", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ [platform] platform:")
	assert.Contains(t, out, "Summary: 6 passed, 1 info, 0 warnings, 0 errors")
}

func TestDoctor_FlagsMutuallyExclusive(t *testing.T) {
	newWorkspace(t, "linux")

	_, err := runCLI(t, "doctor", "--json", "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
