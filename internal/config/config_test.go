package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/paths"
	"github.com/thoreinstein/wsgen/internal/toolchain"
)

// isolate keeps tests away from the developer's real config.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Chdir(t.TempDir())
	t.Cleanup(viper.Reset)
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestInit(t *testing.T) {
	isolate(t)
	Init("")

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if got := viper.GetString("toolchain.version"); got != toolchain.DefaultVersion {
		t.Errorf("toolchain.version = %q, want %q", got, toolchain.DefaultVersion)
	}
	if got := viper.GetInt("backup.retention"); got != DefaultRetention {
		t.Errorf("backup.retention = %d, want %d", got, DefaultRetention)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolate(t)
	Init("")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Empty(t, Used())
}

func TestLoad_WorkspaceConfig(t *testing.T) {
	isolate(t)
	ws := t.TempDir()
	writeConfig(t, filepath.Join(ws, ".wsgen"), "toolchain:\n  version: 22.0.0\n  min_version: 20.0.0\nbackup:\n  retention: 2\n")

	Init(ws)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "22.0.0", cfg.Toolchain.Version)
	assert.Equal(t, "20.0.0", cfg.Toolchain.MinVersion)
	assert.Equal(t, toolchain.DefaultName, cfg.Toolchain.Name, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Backup.Retention)
	assert.Equal(t, filepath.Join(ws, ".wsgen", "config.yaml"), Used())
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("WSGEN_TOOLCHAIN_ENV", "CLANG_HOME")
	t.Setenv("WSGEN_BACKUP_ENABLED", "false")

	Init("")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "CLANG_HOME", cfg.Toolchain.Env)
	assert.False(t, cfg.Backup.Enabled)
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	p := writeConfig(t, t.TempDir(), "root: /src/ws\n")

	Init("")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/src/ws", cfg.Root)
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	isolate(t)
	Init("")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLoad_InvalidConfig(t *testing.T) {
	isolate(t)
	p := writeConfig(t, t.TempDir(), "version: 2\ntoolchain:\n  version: latest\n")

	Init("")
	_, err := Load(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	assert.Contains(t, err.Error(), "validating config")
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolate(t)
	p := writeConfig(t, t.TempDir(), "toolchain: [\n")

	Init("")
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}
