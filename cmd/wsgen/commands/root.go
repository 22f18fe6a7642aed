// Package commands implements the CLI commands for wsgen.
package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/wsgen/cmd"
	"github.com/thoreinstein/wsgen/internal/backup"
	"github.com/thoreinstein/wsgen/internal/config"
	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/logging"
	"github.com/thoreinstein/wsgen/internal/workspace"
)

// annotationSkipSetup marks commands that run without config or workspace.
const annotationSkipSetup = "wsgen/skip-setup"

// annotationLenientConfig marks commands that still run when the config
// file fails to load, falling back to defaults.
const annotationLenientConfig = "wsgen/lenient-config"

// debugEnv raises verbosity when no -v flag is given: 1 for debug, 2 for trace.
const debugEnv = "WSGEN_DEBUG"

var (
	// rootFlag holds the value of the --root flag.
	rootFlag string

	// configFlag holds the value of the --config flag.
	configFlag string

	// verbosity holds the count of -v flags.
	verbosity int

	// quiet holds the value of the -q/--quiet flag.
	quiet bool

	// logFormat holds the value of the --log-format flag.
	logFormat string

	// logFile holds the path to the log file.
	logFile string

	// colorFlag holds the value of the --color flag.
	colorFlag string
)

// appFs is the filesystem every command reads and writes.
var appFs afero.Fs = afero.NewOsFs()

// appConfig and appWorkspace are loaded by PersistentPreRunE.
var (
	appConfig    *config.Config
	appWorkspace *workspace.Workspace
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"workspace root (default: git top level of the current directory)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"config file (default: .wsgen/config.yaml, then $XDG_CONFIG_HOME/wsgen/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", string(logging.ColorAuto),
		"colorize output: auto, always, never")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("wsgen version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "wsgen",
	Short: "Bootstrap editor settings and launch scripts for the workspace",
	Long: `wsgen writes the workspace's .vscode/settings.json for the host
platform and, on Windows, a run.bat that exports the vendored libclang
location before opening a shell.

Run without a subcommand to generate. The host platform is detected from
the running binary; set WSGEN_PLATFORM to render another platform's files.`,
	Example: `  # Generate for this machine
  wsgen

  # Preview without writing
  wsgen generate --dry-run

  # Check the workspace
  wsgen doctor

  See Also: wsgen show, wsgen backup, wsgen config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupColor(); err != nil {
			return err
		}
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if skipSetup(cmd) {
			return nil
		}
		return loadApp(cmd)
	},
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"),
			"use one of -q or -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			switch os.Getenv(debugEnv) {
			case "1", "true":
				v = 2
			case "2":
				v = 3
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{Level: level}

	var primary slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primary = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case logging.FormatText:
		primary = logging.NewHandler(cmd.ErrOrStderr(), opts)
	default:
		return errors.NewUserError(errors.Newf("invalid --log-format %q", logFormat),
			"use --log-format text or --log-format json")
	}

	handlers := []slog.Handler{primary}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	var handler slog.Handler = primary
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

func setupColor() error {
	switch m := logging.ColorMode(colorFlag); m {
	case logging.ColorAuto, logging.ColorAlways, logging.ColorNever:
		logging.SetColorMode(m)
		return nil
	default:
		return errors.NewUserError(errors.Newf("invalid --color %q", colorFlag),
			"use --color auto, always or never")
	}
}

func skipSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationSkipSetup]; ok || c.Name() == "completion" {
			return true
		}
	}
	return false
}

// loadApp loads the config and resolves the workspace. The config search
// starts from the --root flag or the git top level, since the config may
// itself name a different root.
func loadApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	searchDir := ""
	if probe, err := workspace.Resolve(ctx, rootFlag, ""); err == nil {
		searchDir = probe.Root
	} else if rootFlag != "" {
		return errors.NewUserError(err, "pass an existing directory to --root")
	}

	configPath := configFlag
	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			configPath = abs
		}
	}

	config.Init(searchDir)
	cfg, err := config.Load(configPath)
	if err != nil {
		if _, lenient := cmd.Annotations[annotationLenientConfig]; !lenient {
			return errors.NewConfigError(err)
		}
		logger.Warn("config failed to load, using defaults", "error", err)
		cfg = config.Default()
	}
	appConfig = cfg

	ws, err := workspace.Resolve(ctx, rootFlag, cfg.Root)
	if err != nil {
		return errors.NewUserError(err, "pass the workspace directory with --root")
	}
	appWorkspace = ws

	backup.Version = cmd.Root().Version
	logger.Debug("workspace resolved", "root", ws.Root, "source", ws.Source, "config", config.Used())
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
