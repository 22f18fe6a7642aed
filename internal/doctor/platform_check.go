package doctor

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/wsgen/internal/platform"
)

// PlatformCheck verifies that the host platform has a configuration profile.
type PlatformCheck struct {
	env *Env
}

// Ensure PlatformCheck implements Check interface.
var _ Check = (*PlatformCheck)(nil)

// NewPlatformCheck creates a new platform check.
func NewPlatformCheck(env *Env) *PlatformCheck {
	return &PlatformCheck{env: env}
}

// Name returns the unique identifier for this check.
func (c *PlatformCheck) Name() string {
	return "platform"
}

// Category returns the grouping for this check.
func (c *PlatformCheck) Category() string {
	return "platform"
}

// Run executes the platform check and returns its result.
func (c *PlatformCheck) Run() *CheckResult {
	p := c.env.Profile
	details := map[string]any{
		"id":        p.ID,
		"supported": platform.Names(),
	}

	if !p.Supported() {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  p.Err().Error(),
			Details:  details,
			FixHint:  fmt.Sprintf("run wsgen on one of: %s (or set %s)", strings.Join(platform.Names(), ", "), platform.EnvOverride),
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("host platform %s is supported", p),
		Details:  details,
	}
}
