package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/wsgen/internal/doctor"
	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/logging"
	"github.com/thoreinstein/wsgen/internal/writer"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"regenerate drifted or missing artifacts")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the workspace",
	Long: `Run diagnostic checks on the workspace.

Compares the settings and launch script on disk with what generate would
write, validates the settings against the schema, and checks that the
linked Cargo projects, vendored libclang and compile database exist.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Check the workspace
  wsgen doctor

  # Repair drifted files
  wsgen doctor --fix

  See Also: wsgen generate, wsgen backup restore`,
	Args:    cobra.NoArgs,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorQuiet, doctorVerbose} {
		if set {
			count++
		}
	}

	if count > 1 {
		return errors.NewUserError(
			errors.New("flags --json, --quiet, and --verbose are mutually exclusive"),
			"pick one output mode")
	}

	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	newEnv := func() *doctor.Env {
		return &doctor.Env{
			Fs:        appFs,
			Workspace: appWorkspace,
			Profile:   detectProfile(),
			Toolchain: appConfig.Toolchain,
			Regenerate: func() ([]writer.Result, error) {
				return regenerate(ctx)
			},
		}
	}

	runner := newRunner(newEnv())
	report := runner.Run()

	if doctorFix {
		fixers := runner.Fixers()
		if len(fixers) > 0 {
			fixes := doctor.ApplyFixes(fixers)
			logger.Info("applied fixes", "count", len(fixes))

			// Re-run against a fresh environment so the report reflects the
			// repaired workspace.
			report = newRunner(newEnv()).Run()
			report.Fixes = fixes
		}
	}

	if err := outputDoctorReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	// Determine exit code based on results
	if report.HasErrors() {
		return errDoctorErrors
	}
	if report.HasWarnings() {
		return errDoctorWarnings
	}
	return nil
}

func newRunner(env *doctor.Env) *doctor.Runner {
	runner := doctor.NewRunner()
	for _, c := range doctor.DefaultChecks(env) {
		runner.AddCheck(c)
	}
	return runner
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		return outputDoctorJSON(w, report)
	}

	outputDoctorText(w, report)
	return nil
}

func outputDoctorJSON(w io.Writer, report *doctor.DoctorReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) {
	// In normal mode, show only errors and warnings
	showAll := doctorVerbose

	for _, fix := range report.Fixes {
		icon := statusIcon(w, doctor.SeverityPass)
		if !fix.Fixed {
			icon = statusIcon(w, doctor.SeverityError)
		}
		fmt.Fprintf(w, "%s [fix] %s\n", icon, fix.Description)
	}
	if len(report.Fixes) > 0 {
		fmt.Fprintln(w)
	}

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(w, result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(w io.Writer, s doctor.Severity) string {
	var icon string
	var c *color.Color
	switch s {
	case doctor.SeverityPass:
		icon, c = "✓", color.New(color.FgGreen)
	case doctor.SeverityInfo:
		icon, c = "ℹ", color.New(color.FgBlue)
	case doctor.SeverityWarning:
		icon, c = "⚠", color.New(color.FgYellow)
	case doctor.SeverityError:
		icon, c = "✗", color.New(color.FgRed)
	default:
		return "?"
	}
	if !logging.SupportsColor(w) {
		return icon
	}
	c.EnableColor()
	return c.Sprint(icon)
}

// errDoctorWarnings reports warnings with exit code 1 and no extra message.
var errDoctorWarnings = errors.NewExitError(nil, errors.ExitUser)

// errDoctorErrors reports errors with exit code 2 and no extra message.
var errDoctorErrors = errors.NewExitError(nil, errors.ExitSystem)
