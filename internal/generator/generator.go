package generator

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/platform"
	"github.com/thoreinstein/wsgen/internal/settings"
	"github.com/thoreinstein/wsgen/internal/toolchain"
)

// Settings keys written by Generate.
const (
	KeyCompileCommands       = "C_Cpp.default.compileCommands"
	KeyFilesExclude          = "C_Cpp.files.exclude"
	KeyFormatOnSave          = "editor.formatOnSave"
	KeyTabSize               = "editor.tabSize"
	KeyIgnoreRecommendations = "extensions.ignoreRecommendations"
	KeyInsertFinalNewline    = "files.insertFinalNewline"
	KeyGitAutorefresh        = "git.autorefresh"
	KeyGitEnabled            = "git.enabled"
	KeyCheckOverrideCommand  = "rust-analyzer.check.overrideCommand"
	KeyLinkedProjects        = "rust-analyzer.linkedProjects"
	KeyRustfmtExtraArgs      = "rust-analyzer.rustfmt.extraArgs"
)

const (
	workspaceFolder         = "${workspaceFolder}"
	compileCommandsPath     = workspaceFolder + "/build/compile_commands.json"
	commonProjectManifest   = workspaceFolder + "/common-ffi/Cargo.toml"
	windowsListenerManifest = workspaceFolder + "/windows-listener/Cargo.toml"
	linuxListenerManifest   = workspaceFolder + "/linux-listener/Cargo.toml"
	excludeLinuxSources     = "**/linux/**"
	excludeWindowsSources   = "**/win32/**"
)

// ErrRootRequired is returned when a launch script is needed but no
// workspace root was given.
var ErrRootRequired = errors.New("workspace root is required to build the launch script")

// Options are the explicit inputs to Generate.
type Options struct {
	// Root is the absolute workspace root. Only the launch script uses it.
	Root string

	// Toolchain locates the vendored libclang. Empty fields take defaults.
	Toolchain toolchain.Spec
}

// Result holds the generated artifacts.
type Result struct {
	Settings *settings.Document

	// Launch is nil on platforms without a launch script.
	Launch *LaunchScript
}

// overlay is the platform-specific part of the settings document.
type overlay struct {
	exclude  string
	listener string
	launch   bool
}

var overlays = map[platform.Kind]overlay{
	platform.KindWindows: {exclude: excludeLinuxSources, listener: windowsListenerManifest, launch: true},
	platform.KindLinux:   {exclude: excludeWindowsSources, listener: linuxListenerManifest},
}

// Base returns the platform-independent settings document. The exclude map
// is empty and linkedProjects lists only the shared project.
func Base() *settings.Document {
	return settings.New().
		Set(KeyCompileCommands, compileCommandsPath).
		Set(KeyFilesExclude, settings.New()).
		Set(KeyFormatOnSave, true).
		Set(KeyTabSize, 4).
		Set(KeyIgnoreRecommendations, false).
		Set(KeyInsertFinalNewline, true).
		Set(KeyGitAutorefresh, true).
		Set(KeyGitEnabled, true).
		Set(KeyCheckOverrideCommand, []string{"cargo", "check", "--message-format=json"}).
		Set(KeyLinkedProjects, []string{commonProjectManifest}).
		Set(KeyRustfmtExtraArgs, []string{"+nightly"})
}

// Generate builds the settings document, and on Windows the launch script,
// for profile p. It has no side effects.
func Generate(p platform.Profile, opts Options) (*Result, error) {
	if err := p.Err(); err != nil {
		return nil, err
	}
	ov, ok := overlays[p.Kind]
	if !ok {
		return nil, &platform.UnsupportedPlatformError{ID: p.ID}
	}

	doc := Base()

	exclude, _ := doc.Sub(KeyFilesExclude)
	exclude.Set(ov.exclude, true)

	linked, _ := doc.Strings(KeyLinkedProjects)
	doc.Set(KeyLinkedProjects, append(linked, ov.listener))

	res := &Result{Settings: doc}

	if ov.launch {
		if opts.Root == "" {
			return nil, ErrRootRequired
		}
		res.Launch = NewLaunchScript(opts.Root, opts.Toolchain.WithDefaults())
	}

	return res, nil
}

// ExpandWorkspaceFolder resolves a "${workspaceFolder}/..." reference against
// root. Values without the prefix are returned unchanged.
func ExpandWorkspaceFolder(value, root string) string {
	rel, ok := strings.CutPrefix(value, workspaceFolder+"/")
	if !ok {
		return value
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}
