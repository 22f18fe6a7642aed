package commands

import (
	"context"
	"strings"

	"github.com/thoreinstein/wsgen/internal/backup"
	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/generator"
	"github.com/thoreinstein/wsgen/internal/logging"
	"github.com/thoreinstein/wsgen/internal/platform"
	"github.com/thoreinstein/wsgen/internal/schema"
	"github.com/thoreinstein/wsgen/internal/settings"
	"github.com/thoreinstein/wsgen/internal/writer"
)

// Artifact names used in output and --artifact.
const (
	artifactSettings = "settings"
	artifactLaunch   = "launch"
)

// detectProfile resolves the host platform. Overridable in tests.
var detectProfile = platform.Detect

// plan is everything a generation would write.
type plan struct {
	profile   platform.Profile
	result    *generator.Result
	artifacts []writer.Artifact
}

// buildPlan generates and encodes the artifacts for the current workspace.
// Nothing is written.
func buildPlan(p platform.Profile) (*plan, error) {
	res, err := generator.Generate(p, generator.Options{
		Root:      appWorkspace.Root,
		Toolchain: appConfig.Toolchain,
	})
	if err != nil {
		if errors.Is(err, platform.ErrUnsupportedPlatform) {
			return nil, unsupportedPlatformError(err)
		}
		return nil, errors.NewUserError(err, "pass the workspace directory with --root")
	}

	if err := schema.Check(res.Settings); err != nil {
		return nil, errors.NewSystemError(err, "this is a bug in wsgen, please report it")
	}

	data, err := settings.Encode(res.Settings)
	if err != nil {
		return nil, errors.NewSystemError(errors.Wrap(err, "encoding settings"), "")
	}

	artifacts := []writer.Artifact{{
		Name: artifactSettings,
		Path: appWorkspace.SettingsPath(),
		Data: data,
	}}
	if res.Launch != nil {
		artifacts = append(artifacts, writer.Artifact{
			Name: artifactLaunch,
			Path: appWorkspace.LaunchScriptPath(),
			Data: res.Launch.Bytes(),
		})
	}

	return &plan{profile: p, result: res, artifacts: artifacts}, nil
}

func unsupportedPlatformError(err error) error {
	return errors.NewUserError(err,
		"supported platforms are "+strings.Join(platform.Names(), ", ")+
			"; set "+platform.EnvOverride+" to render one of them")
}

// commitPlan backs up files that will change, then writes every artifact.
func commitPlan(ctx context.Context, pl *plan, noBackup bool) ([]writer.Result, *backup.Manifest, error) {
	logger := logging.FromContext(ctx)
	w := writer.New(appFs, writer.WithLogger(logger))

	planned, err := w.Plan(pl.artifacts)
	if err != nil {
		return nil, nil, errors.NewSystemError(err, "check permissions on the workspace directory")
	}

	var manifest *backup.Manifest
	if appConfig.Backup.Enabled && !noBackup {
		var changed []string
		for _, r := range planned {
			if r.Status == writer.StatusUpdated {
				changed = append(changed, r.Artifact.Path)
			}
		}
		if len(changed) > 0 {
			mgr := newBackupManager(ctx)
			manifest, err = mgr.Backup(appWorkspace.Root, changed)
			if err != nil {
				return nil, nil, errors.NewSystemError(errors.Wrap(err, "backing up workspace files"),
					"rerun with --no-backup to skip the backup")
			}
			if removed, err := mgr.Prune(appWorkspace.Root); err != nil {
				logger.Warn("pruning backups failed", "error", err)
			} else if len(removed) > 0 {
				logger.Debug("pruned backups", "removed", removed)
			}
		}
	}

	results, err := w.Commit(pl.artifacts)
	if err != nil {
		return nil, manifest, errors.NewSystemError(err, "check permissions on the workspace directory")
	}
	return results, manifest, nil
}

func newBackupManager(ctx context.Context) *backup.Manager {
	return backup.NewManager(
		backup.WithFs(appFs),
		backup.WithBackupDir(appConfig.Backup.BackupDir()),
		backup.WithRetentionCount(appConfig.Backup.Retention),
		backup.WithLogger(logging.FromContext(ctx)),
	)
}

// regenerate runs a full generation. It backs doctor --fix.
func regenerate(ctx context.Context) ([]writer.Result, error) {
	pl, err := buildPlan(detectProfile())
	if err != nil {
		return nil, err
	}
	results, _, err := commitPlan(ctx, pl, false)
	return results, err
}
