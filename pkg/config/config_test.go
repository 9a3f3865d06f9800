package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mix-pkg/mix/pkg/config"
	"github.com/mix-pkg/mix/pkg/errors"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.DatabasePath)
	assert.NotEmpty(t, cfg.CacheDir)
	assert.Equal(t, string(os.PathSeparator), cfg.InstallRoot)
	assert.Equal(t, config.DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.Default()
	cfg.DatabasePath = "/var/lib/mix/mix.db"
	cfg.CacheDir = "/var/cache/mix"
	cfg.InstallRoot = "/opt/stage"
	cfg.RepoURL = "https://pkgs.example.com/stable"
	cfg.HTTPTimeout = 90 * time.Second
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repo_url: https://pkgs.example.com\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://pkgs.example.com", cfg.RepoURL)
	assert.Equal(t, config.Default().DatabasePath, cfg.DatabasePath)
	assert.Equal(t, config.Default().CacheDir, cfg.CacheDir)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty database path", func(c *config.Config) { c.DatabasePath = "" }},
		{"empty cache dir", func(c *config.Config) { c.CacheDir = "" }},
		{"negative timeout", func(c *config.Config) { c.HTTPTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrConfigValidation)
		})
	}
}
