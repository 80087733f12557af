package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.Data)
	assert.Equal(t, "0.0.0.0:8080", cfg.Bind)
	assert.Equal(t, "production", cfg.Mode)
	assert.True(t, cfg.Production())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 128, cfg.Replication.Buffer)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QCDN_BIND", "127.0.0.1:9000")
	t.Setenv("QCDN_MODE", "development")
	t.Setenv("QCDN_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Bind)
	assert.False(t, cfg.Production())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"data: /var/lib/qcdn\nbind: 0.0.0.0:8888\nlogging:\n  level: warn\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/qcdn", cfg.Data)
	assert.Equal(t, "0.0.0.0:8888", cfg.Bind)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "production", cfg.Mode)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidationRejectsBadMode(t *testing.T) {
	t.Setenv("QCDN_MODE", "staging")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidationRejectsBadLevel(t *testing.T) {
	t.Setenv("QCDN_LOGGING_LEVEL", "verbose")

	_, err := Load("")
	assert.Error(t, err)
}
