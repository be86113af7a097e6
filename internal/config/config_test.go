package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelwallet/satchel/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.NotEmpty(t, cfg.Home)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := config.Path(dir)

	cfg := config.Defaults()
	cfg.Home = dir
	cfg.Output.DefaultFormat = "json"
	cfg.Logging.Level = "debug"

	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, loaded.Home)
	assert.Equal(t, "json", loaded.Output.DefaultFormat)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	assert.Error(t, err)
}

func TestLoad_MergesDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := config.Path(dir)

	// Partial config: unset fields keep their defaults.
	require.NoError(t, os.WriteFile(path, []byte("home: /tmp/satchel-test\n"), 0o600))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/satchel-test", loaded.Home)
	assert.Equal(t, "auto", loaded.Output.DefaultFormat)
	assert.Equal(t, "error", loaded.Logging.Level)
}

func TestDataPaths(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Home = "/data/satchel"

	assert.Equal(t, filepath.Join("/data/satchel", "account.json"), cfg.AccountPath())
	assert.Equal(t, filepath.Join("/data/satchel", "registry"), cfg.RegistryDir())
	assert.Equal(t, filepath.Join("/data/satchel", "wallets"), cfg.WalletsDir())
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(config.EnvHome, "/env/home")
	t.Setenv(config.EnvOutputFormat, "JSON")
	t.Setenv(config.EnvVerbose, "yes")
	t.Setenv(config.EnvLogLevel, "DEBUG")

	cfg := config.Defaults()
	config.ApplyEnvironment(cfg)

	assert.Equal(t, "/env/home", cfg.Home)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvironment_EmptyValuesIgnored(t *testing.T) {
	t.Setenv(config.EnvHome, "")
	t.Setenv(config.EnvOutputFormat, "")

	cfg := config.Defaults()
	home := cfg.Home
	config.ApplyEnvironment(cfg)

	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
}
