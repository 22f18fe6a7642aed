// Package workspace resolves the workspace root and the locations of the
// artifacts wsgen writes inside it.
package workspace

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/git"
)

// Workspace-relative artifact locations.
const (
	SettingsRel     = ".vscode/settings.json"
	LaunchScriptRel = "run.bat"
	ConfigDirRel    = ".wsgen"
	CompileDBRel    = "build/compile_commands.json"
)

// ErrRootNotDirectory indicates the resolved root is missing or not a directory.
var ErrRootNotDirectory = errors.New("workspace root is not a directory")

// Source records how the root was chosen.
type Source string

const (
	SourceFlag   Source = "flag"
	SourceConfig Source = "config"
	SourceGit    Source = "git"
	SourceCwd    Source = "cwd"
)

// Workspace is a resolved workspace root.
type Workspace struct {
	Root   string
	Source Source
}

// Resolver picks the workspace root.
type Resolver struct {
	// TopLevel finds the enclosing git work tree. Defaults to git.TopLevel.
	TopLevel func(ctx context.Context, dir string) (string, error)

	// Getwd returns the working directory. Defaults to os.Getwd.
	Getwd func() (string, error)
}

// Resolve returns the first of: flagRoot, cfgRoot, the git top level of the
// working directory, the working directory itself. Relative roots are made
// absolute against the working directory.
func (r *Resolver) Resolve(ctx context.Context, flagRoot, cfgRoot string) (*Workspace, error) {
	getwd := r.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	topLevel := r.TopLevel
	if topLevel == nil {
		topLevel = git.TopLevel
	}

	cwd, err := getwd()
	if err != nil {
		return nil, errors.Wrap(err, "determining working directory")
	}

	var ws *Workspace
	switch {
	case flagRoot != "":
		ws = &Workspace{Root: absolute(cwd, flagRoot), Source: SourceFlag}
	case cfgRoot != "":
		ws = &Workspace{Root: absolute(cwd, cfgRoot), Source: SourceConfig}
	default:
		top, err := topLevel(ctx, cwd)
		if err == nil {
			ws = &Workspace{Root: top, Source: SourceGit}
		} else {
			slog.Debug("no git work tree, using working directory", "cwd", cwd, "reason", err)
			ws = &Workspace{Root: filepath.Clean(cwd), Source: SourceCwd}
		}
	}

	info, err := os.Stat(ws.Root)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrRootNotDirectory, "%s", ws.Root)
	}

	return ws, nil
}

// Resolve uses a default Resolver.
func Resolve(ctx context.Context, flagRoot, cfgRoot string) (*Workspace, error) {
	return (&Resolver{}).Resolve(ctx, flagRoot, cfgRoot)
}

func absolute(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}

// SettingsPath returns the settings document location.
func (w *Workspace) SettingsPath() string {
	return w.Join(SettingsRel)
}

// LaunchScriptPath returns the launch script location.
func (w *Workspace) LaunchScriptPath() string {
	return w.Join(LaunchScriptRel)
}

// ConfigDir returns the workspace-local config directory.
func (w *Workspace) ConfigDir() string {
	return w.Join(ConfigDirRel)
}

// CompileDBPath returns the compile database location referenced by the
// settings document.
func (w *Workspace) CompileDBPath() string {
	return w.Join(CompileDBRel)
}

// Join joins a slash-separated workspace-relative path onto Root.
func (w *Workspace) Join(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}
