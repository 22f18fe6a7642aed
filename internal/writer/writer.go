// Package writer commits generated artifacts to disk.
//
// Every artifact is staged to a temp file before any target is touched, and
// only then renamed into place. A failure while staging leaves all existing
// files untouched.
package writer

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/pkg/fileutil"
)

// Default permissions.
const (
	FilePerm os.FileMode = 0o644
	DirPerm  os.FileMode = 0o755
)

// Status describes how committing an artifact changes the file on disk.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
)

// Artifact is one file to write.
type Artifact struct {
	// Name labels the artifact in output, e.g. "settings".
	Name string

	// Path is the absolute destination.
	Path string

	// Data is the full file content.
	Data []byte

	// Perm defaults to FilePerm when zero.
	Perm os.FileMode
}

func (a Artifact) perm() os.FileMode {
	if a.Perm == 0 {
		return FilePerm
	}
	return a.Perm
}

// Result reports the outcome for one artifact.
type Result struct {
	Artifact Artifact
	Status   Status
}

// Writer writes artifacts to a filesystem.
type Writer struct {
	fs     afero.Fs
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// New returns a Writer over fs.
func New(fs afero.Fs, opts ...Option) *Writer {
	w := &Writer{
		fs:     fs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Status compares an artifact against what is currently on disk.
func (w *Writer) Status(a Artifact) (Status, error) {
	current, err := afero.ReadFile(w.fs, a.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusCreated, nil
		}
		return "", errors.Wrapf(err, "reading %s", a.Path)
	}
	if bytes.Equal(current, a.Data) {
		return StatusUnchanged, nil
	}
	return StatusUpdated, nil
}

// Plan returns the status each artifact would have, without writing.
func (w *Writer) Plan(artifacts []Artifact) ([]Result, error) {
	results := make([]Result, 0, len(artifacts))
	for _, a := range artifacts {
		if a.Path == "" {
			return nil, errors.Newf("artifact %q has no path", a.Name)
		}
		st, err := w.Status(a)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Artifact: a, Status: st})
	}
	return results, nil
}

// Commit writes all artifacts, overwriting existing files.
//
// Parent directories are created first, then every artifact is staged. Only
// when all are staged are they renamed into place, in order.
func (w *Writer) Commit(artifacts []Artifact) ([]Result, error) {
	results, err := w.Plan(artifacts)
	if err != nil {
		return nil, err
	}

	staged := make([]string, 0, len(artifacts))
	cleanup := func() {
		for _, tmp := range staged {
			_ = w.fs.Remove(tmp)
		}
	}

	for _, a := range artifacts {
		if err := w.fs.MkdirAll(filepath.Dir(a.Path), DirPerm); err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "creating directory for %s", a.Path)
		}
		tmp, err := fileutil.WriteTemp(w.fs, a.Path, a.Data, a.perm())
		if err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "staging %s", a.Path)
		}
		staged = append(staged, tmp)
	}

	for i, a := range artifacts {
		if err := w.fs.Rename(staged[i], a.Path); err != nil {
			cleanup()
			return nil, errors.Wrapf(err, "replacing %s", a.Path)
		}
		w.logger.Debug("wrote artifact", "name", a.Name, "path", a.Path, "bytes", len(a.Data), "status", results[i].Status)
	}

	return results, nil
}
