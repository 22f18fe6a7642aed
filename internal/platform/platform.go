package platform

import (
	"fmt"

	"github.com/thoreinstein/wsgen/internal/errors"
)

// Kind is the closed set of host platforms wsgen knows how to configure.
type Kind int

const (
	// KindUnsupported is any host without a configuration profile.
	KindUnsupported Kind = iota

	// KindWindows selects the Windows overlay and the launch script.
	KindWindows

	// KindLinux selects the Linux overlay.
	KindLinux
)

// Platform identifiers as reported by the Go runtime.
const (
	IDWindows = "windows"
	IDLinux   = "linux"
)

// aliases maps every accepted raw identifier to its Kind.
// win32 is what Python-based tooling reports on Windows hosts.
var aliases = map[string]Kind{
	IDWindows: KindWindows,
	"win32":   KindWindows,
	IDLinux:   KindLinux,
}

// String returns the canonical platform name.
func (k Kind) String() string {
	switch k {
	case KindWindows:
		return IDWindows
	case KindLinux:
		return IDLinux
	default:
		return "unsupported"
	}
}

// Profile is the resolved host platform.
// It is computed once per run and never changes afterwards.
type Profile struct {
	// Kind is the recognized platform, or KindUnsupported.
	Kind Kind

	// ID is the raw identifier the profile was resolved from.
	ID string
}

// Resolve maps a raw host identifier to a Profile.
// Identifiers are matched exactly; anything unknown yields KindUnsupported.
func Resolve(id string) Profile {
	return Profile{Kind: aliases[id], ID: id}
}

// Windows returns the profile for a Windows host.
func Windows() Profile { return Profile{Kind: KindWindows, ID: IDWindows} }

// Linux returns the profile for a Linux host.
func Linux() Profile { return Profile{Kind: KindLinux, ID: IDLinux} }

// Supported reports whether the profile has a configuration overlay.
func (p Profile) Supported() bool {
	return p.Kind != KindUnsupported
}

// String returns the canonical name for supported profiles and the raw
// identifier otherwise.
func (p Profile) String() string {
	if p.Supported() {
		return p.Kind.String()
	}
	return p.ID
}

// Err returns an *UnsupportedPlatformError for unsupported profiles and nil
// otherwise.
func (p Profile) Err() error {
	if p.Supported() {
		return nil
	}
	return &UnsupportedPlatformError{ID: p.ID}
}

// Names returns the canonical names of all supported platforms.
func Names() []string {
	return []string{IDWindows, IDLinux}
}

// ErrUnsupportedPlatform is matched by every *UnsupportedPlatformError.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// UnsupportedPlatformError reports a host platform with no known
// configuration profile.
type UnsupportedPlatformError struct {
	// ID is the raw host identifier.
	ID string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnsupportedPlatform, e.ID)
}

// Is makes errors.Is(err, ErrUnsupportedPlatform) succeed.
func (e *UnsupportedPlatformError) Is(target error) bool {
	return target == ErrUnsupportedPlatform
}
