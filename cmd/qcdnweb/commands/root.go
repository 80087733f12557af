// Package commands implements the qcdnweb CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "qcdnweb",
	Short: "QCDN read-only HTTP content server",
	Long: `qcdnweb serves QCDN content over HTTP. It opens the metadata
database read-only and never mutates anything; uploads and deletes
happen on the writer node (qcdnd).

Use "qcdnweb [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; environment and defaults apply without one)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads the configuration, applies the command's flag
// overrides and initializes the logger from the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	applyServeFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	return cfg, nil
}
