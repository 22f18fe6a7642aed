package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigHome(t *testing.T) {
	if ConfigHome() == "" {
		t.Error("ConfigHome() returned empty string")
	}
}

func TestDataHome(t *testing.T) {
	if DataHome() == "" {
		t.Error("DataHome() returned empty string")
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	got := ConfigDir()
	if !strings.HasSuffix(got, AppName) {
		t.Errorf("ConfigDir() = %q, want suffix %q", got, AppName)
	}

	override := t.TempDir()
	t.Setenv(EnvConfigDir, override)
	if got := ConfigDir(); got != override {
		t.Errorf("ConfigDir() = %q, want override %q", got, override)
	}
}

func TestDataDirAndBackupDir(t *testing.T) {
	override := t.TempDir()
	t.Setenv(EnvDataDir, override)

	if got := DataDir(); got != override {
		t.Errorf("DataDir() = %q, want %q", got, override)
	}
	if got, want := BackupDir(), filepath.Join(override, "backups"); got != want {
		t.Errorf("BackupDir() = %q, want %q", got, want)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir() did not create a directory")
	}

	// idempotent
	if err := EnsureDir(dir, 0o755); err != nil {
		t.Errorf("EnsureDir() second call error: %v", err)
	}
}
