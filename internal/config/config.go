package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/wsgen/internal/errors"
	"github.com/thoreinstein/wsgen/internal/paths"
	"github.com/thoreinstein/wsgen/internal/toolchain"
)

// FileName is the config file base name, without extension.
const FileName = "config"

// EnvPrefix prefixes every environment override, e.g. WSGEN_TOOLCHAIN_VERSION.
const EnvPrefix = "WSGEN"

// CurrentVersion is the only config schema version understood.
const CurrentVersion = 1

// DefaultRetention is the number of backups kept per workspace.
const DefaultRetention = 5

// Config represents the top-level configuration structure.
type Config struct {
	Version   int            `mapstructure:"version" yaml:"version"`
	Root      string         `mapstructure:"root" yaml:"root,omitempty"`
	Toolchain toolchain.Spec `mapstructure:"toolchain" yaml:"toolchain"`
	Backup    BackupConfig   `mapstructure:"backup" yaml:"backup"`
}

// BackupConfig controls snapshots taken before artifacts are overwritten.
type BackupConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Retention int    `mapstructure:"retention" yaml:"retention"`
	Dir       string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// BackupDir returns the configured backup root or the XDG default.
func (b BackupConfig) BackupDir() string {
	if b.Dir != "" {
		return b.Dir
	}
	return paths.BackupDir()
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:   CurrentVersion,
		Toolchain: toolchain.Default(),
		Backup: BackupConfig{
			Enabled:   true,
			Retention: DefaultRetention,
		},
	}
}

// Init resets Viper and installs search paths, env binding and defaults.
// workspaceDir may be empty when the workspace is not yet known.
func Init(workspaceDir string) {
	viper.Reset()

	viper.SetConfigName(FileName)
	viper.SetConfigType("yaml")

	// Search paths, highest precedence first.
	if workspaceDir != "" {
		viper.AddConfigPath(filepath.Join(workspaceDir, ".wsgen"))
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("root", d.Root)
	viper.SetDefault("toolchain.name", d.Toolchain.Name)
	viper.SetDefault("toolchain.version", d.Toolchain.Version)
	viper.SetDefault("toolchain.dir", d.Toolchain.Dir)
	viper.SetDefault("toolchain.env", d.Toolchain.Env)
	viper.SetDefault("toolchain.min_version", d.Toolchain.MinVersion)
	viper.SetDefault("backup.enabled", d.Backup.Enabled)
	viper.SetDefault("backup.retention", d.Backup.Retention)
	viper.SetDefault("backup.dir", d.Backup.Dir)
}

// Load reads the configuration file and validates the result.
// An explicit path must exist. With an empty path the search paths from Init
// are used and a missing file falls back to defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", path)
		}
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	cfg.Toolchain = cfg.Toolchain.WithDefaults()

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errors.Join(errs...), "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// Used returns the config file Viper loaded, or "" when running on defaults.
func Used() string {
	return viper.ConfigFileUsed()
}
