package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchelwallet/satchel/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected config.LogLevel
	}{
		{"off", config.LogLevelOff},
		{"none", config.LogLevelOff},
		{"error", config.LogLevelError},
		{"info", config.LogLevelInfo},
		{"debug", config.LogLevelDebug},
		{"DEBUG", config.LogLevelDebug},
		{"  info  ", config.LogLevelInfo},
		{"bogus", config.LogLevelError},
		{"", config.LogLevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, config.ParseLogLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "off", config.LogLevelOff.String())
	assert.Equal(t, "error", config.LogLevelError.String())
	assert.Equal(t, "info", config.LogLevelInfo.String())
	assert.Equal(t, "debug", config.LogLevelDebug.String())
}

func TestLogger_WritesAtLevel(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "satchel.log")

	logger, err := config.NewLogger(config.LogLevelInfo, path)
	require.NoError(t, err)

	logger.Error("bad thing %d", 1)
	logger.Info("wallet %s hydrated", "4a1f")
	logger.Debug("should be filtered")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path) //nolint:gosec // G304: test path
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[ERROR] bad thing 1")
	assert.Contains(t, content, "[INFO] wallet 4a1f hydrated")
	assert.NotContains(t, content, "should be filtered")
}

func TestLogger_OffDiscards(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "satchel.log")

	logger, err := config.NewLogger(config.LogLevelOff, path)
	require.NoError(t, err)

	logger.Error("discarded")
	require.NoError(t, logger.Close())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "satchel.log")

	logger, err := config.NewLogger(config.LogLevelError, path)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	assert.Equal(t, config.LogLevelError, logger.Level())
	logger.SetLevel(config.LogLevelDebug)
	assert.Equal(t, config.LogLevelDebug, logger.Level())
}

func TestNullLogger(t *testing.T) {
	t.Parallel()
	logger := config.NullLogger()

	// Must not panic with no backing file.
	logger.Error("x")
	logger.Info("y")
	logger.Debug("z")
	assert.NoError(t, logger.Close())
}
