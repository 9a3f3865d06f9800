// Package config handles loading, validating and saving the mix
// configuration file. The file is YAML and provides sensible defaults when
// absent, so a fresh install runs without any configuration at all.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	// DatabasePath is the package store file.
	DatabasePath string `yaml:"database,omitempty"`
	// CacheDir holds imported package archives.
	CacheDir string `yaml:"cache_dir,omitempty"`
	// InstallRoot is the filesystem root packages are placed under.
	InstallRoot string `yaml:"install_root,omitempty"`
	// RepoURL is the base URL package archives and the name index are
	// fetched from.
	RepoURL string `yaml:"repo_url,omitempty"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
	LogLevel    string        `yaml:"log_level"`
}

// Default configuration values.
const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogLevel    = "info"

	defaultDatabaseFile = "mix.db"
	defaultCacheSubdir  = "cache"
)

// Default returns the configuration used when no config file exists. State
// lives under the user cache directory; the install root is the filesystem
// root.
func Default() *Config {
	stateDir := defaultStateDir()
	return &Config{
		DatabasePath: filepath.Join(stateDir, defaultDatabaseFile),
		CacheDir:     filepath.Join(stateDir, defaultCacheSubdir),
		InstallRoot:  string(os.PathSeparator),
		HTTPTimeout:  DefaultHTTPTimeout,
		LogLevel:     DefaultLogLevel,
	}
}

func defaultStateDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "mix")
}

// Load reads the configuration from path. A missing file yields the
// defaults; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path atomically.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to rename config into place at %s", path)
	}
	return nil
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return errors.Wrap(errors.ErrConfigValidation, "database path cannot be empty")
	}
	if c.CacheDir == "" {
		return errors.Wrap(errors.ErrConfigValidation, "cache_dir cannot be empty")
	}
	if c.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	return nil
}
