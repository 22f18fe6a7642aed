package doctor

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/generator"
	"github.com/thoreinstein/wsgen/internal/toolchain"
)

// LinkedProjectsCheck verifies that every linked Cargo manifest exists and
// declares a package or workspace.
type LinkedProjectsCheck struct {
	env *Env
}

var _ Check = (*LinkedProjectsCheck)(nil)

// NewLinkedProjectsCheck creates a new linked projects check.
func NewLinkedProjectsCheck(env *Env) *LinkedProjectsCheck {
	return &LinkedProjectsCheck{env: env}
}

// Name returns the unique identifier for this check.
func (c *LinkedProjectsCheck) Name() string {
	return "linked-projects"
}

// Category returns the grouping for this check.
func (c *LinkedProjectsCheck) Category() string {
	return "projects"
}

type projectIssue struct {
	Path    string `json:"path"`
	Problem string `json:"problem"`
}

// Run executes the linked projects check.
func (c *LinkedProjectsCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	res, err := c.env.expected()
	if err != nil {
		result.Status = SeverityInfo
		result.Message = "skipped: " + err.Error()
		return result
	}

	linked, _ := res.Settings.Strings(generator.KeyLinkedProjects)
	kinds := make(map[string]string, len(linked))
	var missing, invalid []projectIssue

	for _, ref := range linked {
		path := generator.ExpandWorkspaceFolder(ref, c.env.Workspace.Root)
		m, err := toolchain.ReadCargoManifest(c.env.Fs, path)
		switch {
		case err == nil:
			kinds[path] = m.Kind()
		case errors.Is(err, os.ErrNotExist):
			missing = append(missing, projectIssue{Path: path, Problem: "not found"})
		default:
			invalid = append(invalid, projectIssue{Path: path, Problem: err.Error()})
		}
	}

	result.Details = map[string]any{"projects": kinds}
	switch {
	case len(invalid) > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d linked project(s) have an invalid Cargo.toml", len(invalid))
		result.Details["invalid"] = invalid
		result.Details["missing"] = missing
		result.FixHint = "each linked Cargo.toml needs a [package] or [workspace] table"
	case len(missing) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d of %d linked project(s) not found", len(missing), len(linked))
		result.Details["missing"] = missing
		result.FixHint = "check out the missing crates or run wsgen from the workspace root (--root)"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d linked project(s) found", len(linked))
	}
	return result
}

// ToolchainCheck verifies the vendored toolchain the launch script exports.
type ToolchainCheck struct {
	env *Env
}

var _ Check = (*ToolchainCheck)(nil)

// NewToolchainCheck creates a new toolchain check.
func NewToolchainCheck(env *Env) *ToolchainCheck {
	return &ToolchainCheck{env: env}
}

// Name returns the unique identifier for this check.
func (c *ToolchainCheck) Name() string {
	return "toolchain"
}

// Category returns the grouping for this check.
func (c *ToolchainCheck) Category() string {
	return "launch"
}

// Run executes the toolchain check.
func (c *ToolchainCheck) Run() *CheckResult {
	tc := c.env.Toolchain.WithDefaults()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"name":    tc.Name,
			"version": tc.Version,
			"env":     tc.Env,
		},
	}

	if errs := tc.Validate(); len(errs) > 0 {
		result.Status = SeverityError
		result.Message = "toolchain configuration is invalid: " + errors.Join(errs...).Error()
		result.FixHint = "fix the toolchain section of the wsgen config"
		return result
	}
	if tc.MinVersion != "" {
		result.Details["min_version"] = tc.MinVersion
	}
	if err := tc.CheckMinimum(); err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s %s does not meet toolchain.min_version %s", tc.Name, tc.Version, tc.MinVersion)
		result.FixHint = "raise toolchain.version or unpack a newer toolchain"
		return result
	}

	res, err := c.env.expected()
	if err != nil {
		result.Status = SeverityInfo
		result.Message = "skipped: " + err.Error()
		return result
	}
	if res.Launch == nil {
		result.Status = SeverityPass
		result.Message = "no vendored toolchain needed on " + c.env.Profile.String()
		return result
	}

	dir := res.Launch.Value
	result.Details["path"] = dir
	ok, err := afero.DirExists(c.env.Fs, dir)
	if err != nil {
		result.Status = SeverityError
		result.Message = "cannot stat toolchain directory: " + err.Error()
		return result
	}
	if !ok {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%s %s not found; %s will point at a missing directory", tc.Name, tc.Version, tc.Env)
		result.FixHint = fmt.Sprintf("unpack %s into %s", tc.DirName(), dir)
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s %s found", tc.Name, tc.Version)
	return result
}

// CompileCommandsCheck reports whether the compile database the C/C++
// extension reads has been built.
type CompileCommandsCheck struct {
	env *Env
}

var _ Check = (*CompileCommandsCheck)(nil)

// NewCompileCommandsCheck creates a new compile commands check.
func NewCompileCommandsCheck(env *Env) *CompileCommandsCheck {
	return &CompileCommandsCheck{env: env}
}

// Name returns the unique identifier for this check.
func (c *CompileCommandsCheck) Name() string {
	return "compile-commands"
}

// Category returns the grouping for this check.
func (c *CompileCommandsCheck) Category() string {
	return "projects"
}

// Run executes the compile commands check.
func (c *CompileCommandsCheck) Run() *CheckResult {
	path := c.env.Workspace.CompileDBPath()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": path},
	}

	ok, err := afero.Exists(c.env.Fs, path)
	if err != nil || !ok {
		result.Status = SeverityInfo
		result.Message = "compile_commands.json not built yet; C/C++ IntelliSense will be limited"
		result.FixHint = "configure the native build with CMAKE_EXPORT_COMPILE_COMMANDS=ON"
		return result
	}

	result.Status = SeverityPass
	result.Message = "compile_commands.json present"
	return result
}
