package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/config"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/storage"
	"github.com/qcdn/qcdn/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the content server",
	Long: `Start the QCDN HTTP content server.

The server opens the metadata database read-only, so a writer node
(or at least a data root it has migrated) must exist first.

Examples:
  # Defaults: ./data, 0.0.0.0:8080
  qcdnweb serve

  # Development mode disables the immutable caching headers
  QCDN_MODE=development qcdnweb serve`,
	RunE: runServe,
}

var (
	serveBind     string
	serveData     string
	serveMode     string
	serveLogLevel string
)

func init() {
	serveCmd.Flags().StringVar(&serveBind, "bind", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveData, "data", "", "Data root directory (overrides config)")
	serveCmd.Flags().StringVar(&serveMode, "mode", "", "Caching mode: production or development (overrides config)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")
}

// applyServeFlags lets flags passed on the command line win over the
// config file and environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("bind") {
		cfg.Bind = serveBind
	}
	if cmd.Flags().Changed("data") {
		cfg.Data = serveData
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = serveMode
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = serveLogLevel
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := storage.New(cfg.Data, storage.SubdirName)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	db, err := database.Open(st.Path(database.DBName, true), database.ModeReadOnly)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	srv := web.NewServer(web.Options{
		Addr:       cfg.Bind,
		Production: cfg.Production(),
		Database:   db,
		Storage:    st,
	})

	logger.Info("qcdnweb starting", "version", Version, "bind", cfg.Bind, "data", cfg.Data, "mode", cfg.Mode)
	return srv.Start(ctx)
}
