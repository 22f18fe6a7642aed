package doctor

import (
	"bytes"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/schema"
	"github.com/thoreinstein/wsgen/internal/settings"
	"github.com/thoreinstein/wsgen/pkg/fileutil"
)

// SettingsDriftCheck compares the settings file on disk with a fresh
// generation.
type SettingsDriftCheck struct {
	RegenerateFixer
}

var (
	_ Check = (*SettingsDriftCheck)(nil)
	_ Fixer = (*SettingsDriftCheck)(nil)
)

// NewSettingsDriftCheck creates a new settings drift check.
func NewSettingsDriftCheck(env *Env) *SettingsDriftCheck {
	return &SettingsDriftCheck{RegenerateFixer{env: env}}
}

// Name returns the unique identifier for this check.
func (c *SettingsDriftCheck) Name() string {
	return "settings-drift"
}

// Category returns the grouping for this check.
func (c *SettingsDriftCheck) Category() string {
	return "settings"
}

// Run executes the drift check.
func (c *SettingsDriftCheck) Run() *CheckResult {
	path := c.env.Workspace.SettingsPath()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": path},
	}

	want, wantDoc, err := c.env.expectedSettings()
	if err != nil {
		c.markFixable(false)
		result.Status = SeverityInfo
		result.Message = "skipped: " + err.Error()
		return result
	}

	got, err := fileutil.ReadFileWithLimit(c.env.Fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Status = SeverityWarning
			result.Message = "settings file has not been generated"
			result.Fixable, result.FixHint = c.markFixable(true)
			return result
		}
		c.markFixable(false)
		result.Status = SeverityError
		result.Message = "cannot read settings file: " + err.Error()
		return result
	}

	if bytes.Equal(got, want) {
		c.markFixable(false)
		result.Status = SeverityPass
		result.Message = "settings file is up to date"
		return result
	}

	result.Status = SeverityWarning
	result.Fixable, result.FixHint = c.markFixable(true)

	current, err := settings.Decode(got)
	if err != nil {
		result.Message = "settings file differs from generated output and is not a JSON object"
		return result
	}
	if diff := cmp.Diff(wantDoc.Map(), current.Map()); diff != "" {
		result.Message = "settings file differs from generated output"
		result.Details["diff"] = diff
		return result
	}
	result.Message = "settings file content matches but formatting or key order differs"
	return result
}

// SettingsSchemaCheck validates the settings file against the schema.
type SettingsSchemaCheck struct {
	RegenerateFixer
}

var (
	_ Check = (*SettingsSchemaCheck)(nil)
	_ Fixer = (*SettingsSchemaCheck)(nil)
)

// NewSettingsSchemaCheck creates a new settings schema check.
func NewSettingsSchemaCheck(env *Env) *SettingsSchemaCheck {
	return &SettingsSchemaCheck{RegenerateFixer{env: env}}
}

// Name returns the unique identifier for this check.
func (c *SettingsSchemaCheck) Name() string {
	return "settings-schema"
}

// Category returns the grouping for this check.
func (c *SettingsSchemaCheck) Category() string {
	return "settings"
}

// Run executes the schema check.
func (c *SettingsSchemaCheck) Run() *CheckResult {
	path := c.env.Workspace.SettingsPath()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": path},
	}

	data, err := fileutil.ReadFileWithLimit(c.env.Fs, path)
	if err != nil {
		c.markFixable(false)
		if errors.Is(err, os.ErrNotExist) {
			result.Status = SeverityInfo
			result.Message = "skipped: settings file not found"
			return result
		}
		result.Status = SeverityError
		result.Message = "cannot read settings file: " + err.Error()
		return result
	}

	res, err := schema.Validate(data)
	if err != nil {
		result.Status = SeverityError
		result.Message = "settings file is not valid JSON: " + err.Error()
		result.Fixable, result.FixHint = c.markFixable(true)
		return result
	}

	if !res.Valid {
		issues := make([]string, 0, len(res.Issues))
		for _, issue := range res.Issues {
			issues = append(issues, issue.String())
		}
		result.Status = SeverityError
		result.Message = "settings file does not match the schema"
		result.Details["issues"] = issues
		result.Fixable, result.FixHint = c.markFixable(true)
		return result
	}

	c.markFixable(false)
	result.Status = SeverityPass
	result.Message = "settings file matches the schema"
	return result
}
