package platform

import (
	"os"
	"runtime"
)

// EnvOverride names the environment variable that replaces the runtime
// identifier when set. CI uses it to render another platform's artifacts.
const EnvOverride = "WSGEN_PLATFORM"

// Probe reports the host operating system identifier.
type Probe struct {
	// GOOS is the runtime identifier. Defaults to runtime.GOOS.
	GOOS string

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// NewProbe returns a Probe bound to the running process.
func NewProbe() *Probe {
	return &Probe{
		GOOS:      runtime.GOOS,
		LookupEnv: os.LookupEnv,
	}
}

// ID returns the raw host identifier.
func (p *Probe) ID() string {
	lookup := p.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvOverride); ok && v != "" {
		return v
	}
	if p.GOOS == "" {
		return runtime.GOOS
	}
	return p.GOOS
}

// Detect resolves the host identifier into a Profile.
func (p *Probe) Detect() Profile {
	return Resolve(p.ID())
}

// Detect resolves the profile of the running process.
func Detect() Profile {
	return NewProbe().Detect()
}
