// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/thoreinstein/wsgen/internal/errors"
)

// Editor runs an external editor on a file.
type Editor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Getenv and LookPath default to the os and exec versions.
	Getenv   func(string) string
	LookPath func(string) (string, error)
}

// New returns an Editor attached to the process's standard streams.
func New() *Editor {
	return &Editor{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
	}
}

// Open blocks until the editor exits.
func (e *Editor) Open(ctx context.Context, path string) error {
	argv := e.Command()
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// Command returns the editor command line, without the file argument.
// The fallback chain is $EDITOR, $VISUAL, nano, then vi (notepad on
// Windows). Variables may carry arguments, e.g. EDITOR="code --wait".
func (e *Editor) Command() []string {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	lookPath := e.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	for _, name := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(getenv(name)); len(fields) > 0 {
			return fields
		}
	}

	if runtime.GOOS == "windows" {
		return []string{"notepad"}
	}
	if _, err := lookPath("nano"); err == nil {
		return []string{"nano"}
	}
	return []string{"vi"}
}
