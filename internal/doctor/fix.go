package doctor

import (
	"fmt"
	"path/filepath"
)

// Fixer is an optional interface that checks can implement to support auto-remediation.
// Checks that implement Fixer can fix issues they detect when the --fix flag is used.
type Fixer interface {
	// CanFix returns true if this check has fixable issues.
	// Must be called after Run() to check if there are issues that can be fixed.
	CanFix() bool

	// Fix attempts to remediate the issues found by Run().
	// Must be called after Run().
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file that was targeted for fixing.
	Path string `json:"path"`

	// Fixed indicates whether the fix was successfully applied.
	Fixed bool `json:"fixed"`

	// Description explains what was fixed or why it couldn't be fixed.
	Description string `json:"description"`

	// Error contains the error if the fix failed.
	Error error `json:"-"`
}

// RegenerateFixer repairs drifted or invalid artifacts by regenerating them.
// It is embedded in the settings and launch script checks.
type RegenerateFixer struct {
	env     *Env
	pending bool
}

// CanFix returns true if the last Run found an artifact to regenerate.
func (f *RegenerateFixer) CanFix() bool {
	return f.pending && f.env.canRegenerate()
}

// Fix regenerates the workspace artifacts. The first fixer to run does the
// work; the others report the same outcome.
func (f *RegenerateFixer) Fix() []FixResult {
	results, err := f.env.regenerate()
	if err != nil {
		return []FixResult{{
			Path:        f.env.Workspace.Root,
			Description: fmt.Sprintf("regeneration failed: %v", err),
			Error:       err,
		}}
	}

	out := make([]FixResult, 0, len(results))
	for _, r := range results {
		out = append(out, FixResult{
			Path:        r.Artifact.Path,
			Fixed:       true,
			Description: fmt.Sprintf("regenerated %s (%s)", r.Artifact.Name, r.Status),
		})
	}
	f.pending = false
	return out
}

// markFixable records whether Run found something Fix can repair and
// returns the matching CheckResult fields. Without a Regenerate func the
// issue is reported as not fixable and the hint points at generate.
func (f *RegenerateFixer) markFixable(needsRegen bool) (bool, string) {
	f.pending = needsRegen && f.env.canRegenerate()
	switch {
	case f.pending:
		return true, "run: wsgen doctor --fix"
	case needsRegen:
		return false, "run: wsgen generate"
	default:
		return false, ""
	}
}

// ApplyFixes runs every fixer and de-duplicates results by path.
func ApplyFixes(fixers []Fixer) []FixResult {
	seen := make(map[string]bool)
	var out []FixResult
	for _, f := range fixers {
		for _, r := range f.Fix() {
			key := filepath.Clean(r.Path) + "|" + r.Description
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, r)
		}
	}
	return out
}
