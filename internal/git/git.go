// Package git wraps the git binary for workspace discovery.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNotRepository indicates dir is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// ErrGitNotFound indicates the git binary is not on PATH.
var ErrGitNotFound = errors.New("git executable not found")

// TopLevel returns the absolute root of the work tree containing dir.
func TopLevel(ctx context.Context, dir string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", ErrGitNotFound
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "not a git repository") {
			return "", errors.Wrapf(ErrNotRepository, "%s", dir)
		}
		return "", errors.Wrapf(err, "git rev-parse failed: %s", strings.TrimSpace(stderr.String()))
	}

	top := strings.TrimSpace(stdout.String())
	if top == "" {
		return "", errors.Wrapf(ErrNotRepository, "%s", dir)
	}
	// git prints forward slashes on Windows
	return filepath.Clean(filepath.FromSlash(top)), nil
}
