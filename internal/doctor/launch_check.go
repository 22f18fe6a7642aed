package doctor

import (
	"bytes"
	"os"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/pkg/fileutil"
)

// LaunchScriptCheck verifies run.bat on Windows workspaces.
type LaunchScriptCheck struct {
	RegenerateFixer
}

var (
	_ Check = (*LaunchScriptCheck)(nil)
	_ Fixer = (*LaunchScriptCheck)(nil)
)

// NewLaunchScriptCheck creates a new launch script check.
func NewLaunchScriptCheck(env *Env) *LaunchScriptCheck {
	return &LaunchScriptCheck{RegenerateFixer{env: env}}
}

// Name returns the unique identifier for this check.
func (c *LaunchScriptCheck) Name() string {
	return "launch-script"
}

// Category returns the grouping for this check.
func (c *LaunchScriptCheck) Category() string {
	return "launch"
}

// Run executes the launch script check.
func (c *LaunchScriptCheck) Run() *CheckResult {
	c.markFixable(false)
	path := c.env.Workspace.LaunchScriptPath()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": path},
	}

	res, err := c.env.expected()
	if err != nil {
		result.Status = SeverityInfo
		result.Message = "skipped: " + err.Error()
		return result
	}
	if res.Launch == nil {
		result.Status = SeverityPass
		result.Message = "no launch script on " + c.env.Profile.String()
		return result
	}

	got, err := fileutil.ReadFileWithLimit(c.env.Fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Status = SeverityWarning
			result.Message = "launch script has not been generated"
			result.Fixable, result.FixHint = c.markFixable(true)
			return result
		}
		result.Status = SeverityError
		result.Message = "cannot read launch script: " + err.Error()
		return result
	}

	if !bytes.Equal(got, res.Launch.Bytes()) {
		result.Status = SeverityWarning
		result.Message = "launch script differs from generated output"
		result.Details["expected_value"] = res.Launch.Value
		result.Fixable, result.FixHint = c.markFixable(true)
		return result
	}

	result.Status = SeverityPass
	result.Message = "launch script is up to date"
	return result
}
