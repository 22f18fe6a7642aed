// Package toolchain describes the vendored native toolchain the launch script
// points at, and inspects the Cargo manifests of linked projects.
package toolchain

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/thoreinstein/wsgen/internal/errors"
)

// Defaults for the vendored libclang toolchain.
const (
	DefaultName    = "clang-llvm"
	DefaultVersion = "21.1.3"
	DefaultDir     = "extern"
	DefaultEnv     = "LIBCLANG_PATH"
)

// Validation errors.
var (
	ErrInvalidVersion = errors.New("invalid toolchain version")
	ErrInvalidEnv     = errors.New("invalid environment variable name")
	ErrInvalidName    = errors.New("invalid toolchain name")
	ErrTooOld         = errors.New("toolchain version below minimum")
)

var (
	envNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	// The name is spliced into a cmd.exe "set" line, so shell
	// metacharacters are rejected.
	nameRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// Spec identifies a vendored toolchain directory inside the workspace.
// The directory is <root>/<Dir>/<Name>-<Version>. MinVersion, when set,
// is the oldest Version the workspace accepts.
type Spec struct {
	Name       string `mapstructure:"name" yaml:"name"`
	Version    string `mapstructure:"version" yaml:"version"`
	Dir        string `mapstructure:"dir" yaml:"dir"`
	Env        string `mapstructure:"env" yaml:"env"`
	MinVersion string `mapstructure:"min_version" yaml:"min_version,omitempty"`
}

// Default returns the libclang toolchain shipped under extern/.
func Default() Spec {
	return Spec{
		Name:    DefaultName,
		Version: DefaultVersion,
		Dir:     DefaultDir,
		Env:     DefaultEnv,
	}
}

// WithDefaults fills empty fields from Default.
func (s Spec) WithDefaults() Spec {
	d := Default()
	if s.Name == "" {
		s.Name = d.Name
	}
	if s.Version == "" {
		s.Version = d.Version
	}
	if s.Dir == "" {
		s.Dir = d.Dir
	}
	if s.Env == "" {
		s.Env = d.Env
	}
	return s
}

// DirName returns the directory name, e.g. clang-llvm-21.1.3.
func (s Spec) DirName() string {
	return s.Name + "-" + s.Version
}

// Path returns the absolute toolchain directory below root.
func (s Spec) Path(root string) string {
	return filepath.Join(root, s.Dir, s.DirName())
}

// SemVer parses Version. A leading "v" is tolerated.
func (s Spec) SemVer() (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(s.Version, "v"))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidVersion, "%q: %v", s.Version, err)
	}
	return v, nil
}

// Satisfies reports whether the toolchain version meets constraint,
// e.g. ">= 18".
func (s Spec) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(err, "parsing constraint %q", constraint)
	}
	v, err := s.SemVer()
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}

// CheckMinimum returns ErrTooOld when Version is below MinVersion.
// An empty MinVersion always passes.
func (s Spec) CheckMinimum() error {
	if s.MinVersion == "" {
		return nil
	}
	ok, err := s.Satisfies(">= " + strings.TrimPrefix(s.MinVersion, "v"))
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrTooOld, "%s < %s", s.Version, s.MinVersion)
	}
	return nil
}

// Validate checks that the spec can be rendered into a launch script.
func (s Spec) Validate() []error {
	var errs []error
	if !nameRe.MatchString(s.Name) {
		errs = append(errs, errors.Wrapf(ErrInvalidName, "%q", s.Name))
	}
	if _, err := s.SemVer(); err != nil {
		errs = append(errs, err)
	}
	if s.MinVersion != "" {
		if _, err := semver.NewVersion(strings.TrimPrefix(s.MinVersion, "v")); err != nil {
			errs = append(errs, errors.Wrapf(ErrInvalidVersion, "min_version %q: %v", s.MinVersion, err))
		}
	}
	if !envNameRe.MatchString(s.Env) {
		errs = append(errs, errors.Wrapf(ErrInvalidEnv, "%q", s.Env))
	}
	return errs
}
