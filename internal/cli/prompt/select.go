// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/wsgen/internal/backup"
	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/logging"
)

// Sentinel errors for backup selection.
var (
	ErrNoBackups          = errors.New("no backups to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive backup selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer

	// fuzzy uses the full-screen finder instead of a numbered list.
	fuzzy bool
}

// NewSelector creates a Selector on stdin and stdout. The fuzzy finder is
// used when both are terminals.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
		fuzzy:  logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout),
	}
}

// NewSelectorWithIO creates a numbered-list Selector with custom reader and
// writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// Label is the one-line description of a backup used in both prompts.
func Label(m backup.Manifest) string {
	return fmt.Sprintf("%s  %s  (%d file%s)", m.ID, m.CreatedAt.Local().Format(time.DateTime), len(m.Files), plural(len(m.Files)))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// SelectBackup prompts the user to choose a backup. backups are expected
// newest first.
//
// Returns:
//   - ErrNoBackups if the list is empty
//   - The backup if only one exists (auto-selects without prompting)
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled on EOF or when the finder is aborted
func (s *Selector) SelectBackup(backups []backup.Manifest) (*backup.Manifest, error) {
	if len(backups) == 0 {
		return nil, ErrNoBackups
	}
	if len(backups) == 1 {
		return &backups[0], nil
	}
	if s.fuzzy {
		return s.selectFuzzy(backups)
	}
	return s.selectNumbered(backups)
}

func (s *Selector) selectFuzzy(backups []backup.Manifest) (*backup.Manifest, error) {
	idx, err := fuzzyfinder.Find(
		backups,
		func(i int) string {
			return Label(backups[i])
		},
		fuzzyfinder.WithPromptString("restore> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return preview(backups[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}
	return &backups[idx], nil
}

func preview(m backup.Manifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\nCreated: %s\nRoot: %s\nwsgen: %s\n\nFiles:\n",
		m.ID, m.CreatedAt.Local().Format(time.RFC3339), m.Root, m.WsgenVersion)
	for _, f := range m.Files {
		fmt.Fprintf(&b, "  %s (%d bytes)\n", f.RelPath, f.Size)
	}
	return b.String()
}

func (s *Selector) selectNumbered(backups []backup.Manifest) (*backup.Manifest, error) {
	fmt.Fprintln(s.writer, "Available backups:")
	for i, m := range backups {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, Label(m))
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
			return nil, ErrSelectionCancelled
		}
		if !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "reading selection")
		}
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return &backups[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(backups) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(backups))
	}

	return &backups[selection-1], nil
}
