package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcdn/qcdn/pkg/config"
)

func TestServeFlagsOverrideConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.True(t, cfg.Production())

	require.NoError(t, serveCmd.Flags().Set("mode", "development"))
	require.NoError(t, serveCmd.Flags().Set("log-level", "warn"))
	applyServeFlags(serveCmd, cfg)

	assert.False(t, cfg.Production())
	assert.Equal(t, "warn", cfg.Logging.Level)
	// A flag that was not passed leaves the config value alone.
	assert.Equal(t, "0.0.0.0:8080", cfg.Bind)

	require.NoError(t, config.Validate(cfg))
}
