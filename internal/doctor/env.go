package doctor

import (
	"sync"

	"github.com/spf13/afero"

	"github.com/thoreinstein/wsgen/internal/generator"
	"github.com/thoreinstein/wsgen/internal/platform"
	"github.com/thoreinstein/wsgen/internal/settings"
	"github.com/thoreinstein/wsgen/internal/toolchain"
	"github.com/thoreinstein/wsgen/internal/workspace"
	"github.com/thoreinstein/wsgen/internal/writer"
)

// RegenerateFunc rewrites the workspace artifacts and reports what it wrote.
type RegenerateFunc func() ([]writer.Result, error)

// Env is the workspace under diagnosis. It is shared by all checks.
type Env struct {
	Fs        afero.Fs
	Workspace *workspace.Workspace
	Profile   platform.Profile
	Toolchain toolchain.Spec

	// Regenerate backs --fix. Checks report nothing as fixable when nil.
	Regenerate RegenerateFunc

	genOnce sync.Once
	gen     *generator.Result
	genErr  error

	fixOnce    sync.Once
	fixResults []writer.Result
	fixErr     error
}

// expected returns what a fresh generation would write.
func (e *Env) expected() (*generator.Result, error) {
	e.genOnce.Do(func() {
		e.gen, e.genErr = generator.Generate(e.Profile, generator.Options{
			Root:      e.Workspace.Root,
			Toolchain: e.Toolchain,
		})
	})
	return e.gen, e.genErr
}

// expectedSettings returns the encoded settings a fresh generation would write.
func (e *Env) expectedSettings() ([]byte, *settings.Document, error) {
	res, err := e.expected()
	if err != nil {
		return nil, nil, err
	}
	data, err := settings.Encode(res.Settings)
	if err != nil {
		return nil, nil, err
	}
	return data, res.Settings, nil
}

func (e *Env) canRegenerate() bool {
	return e.Regenerate != nil && e.Profile.Supported()
}

// regenerate runs Regenerate at most once however many checks ask for it.
func (e *Env) regenerate() ([]writer.Result, error) {
	e.fixOnce.Do(func() {
		e.fixResults, e.fixErr = e.Regenerate()
	})
	return e.fixResults, e.fixErr
}

// DefaultChecks returns every workspace check in display order.
func DefaultChecks(env *Env) []Check {
	return []Check{
		NewPlatformCheck(env),
		NewSettingsDriftCheck(env),
		NewSettingsSchemaCheck(env),
		NewLaunchScriptCheck(env),
		NewLinkedProjectsCheck(env),
		NewToolchainCheck(env),
		NewCompileCommandsCheck(env),
	}
}
