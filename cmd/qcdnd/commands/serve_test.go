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

	require.NoError(t, serveCmd.Flags().Set("bind", "127.0.0.1:9999"))
	require.NoError(t, serveCmd.Flags().Set("log-level", "debug"))
	applyServeFlags(serveCmd, cfg)

	assert.Equal(t, "127.0.0.1:9999", cfg.Bind)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// A flag that was not passed leaves the config value alone.
	assert.Equal(t, "./data", cfg.Data)

	require.NoError(t, config.Validate(cfg))
}
