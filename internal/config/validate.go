package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/wsgen/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a config version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidRetention indicates a backup retention below one.
	ErrInvalidRetention = errors.New("backup retention must be >= 1")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "got %d, want %d", cfg.Version, CurrentVersion))
	}

	for _, err := range cfg.Toolchain.Validate() {
		errs = append(errs, &FieldError{Field: "toolchain", Err: err})
	}

	if cfg.Backup.Retention < 1 {
		errs = append(errs, ErrInvalidRetention)
	}

	paths := []struct {
		field, path string
	}{
		{"root", cfg.Root},
		{"backup.dir", cfg.Backup.Dir},
		{"toolchain.dir", cfg.Toolchain.Dir},
	}
	for _, p := range paths {
		if err := validatePath(p.path); err != nil {
			errs = append(errs, &PathError{Field: p.field, Path: p.path, Err: err})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists.
func validatePath(path string) error {
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" {
		return ErrInvalidPath
	}

	return nil
}

// FieldError attributes a nested validation error to a config section.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
