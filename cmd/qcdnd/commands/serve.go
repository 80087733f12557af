package commands

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/config"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/replication"
	"github.com/qcdn/qcdn/pkg/server"
	"github.com/qcdn/qcdn/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the writer node",
	Long: `Start the QCDN writer node.

The node opens (and migrates) the metadata database under the data
root, serves the gRPC surface on the bind address and streams every
committed change to connected followers.

Examples:
  # Defaults: ./data, 0.0.0.0:8080
  qcdnd serve

  # Custom config file
  qcdnd serve --config /etc/qcdn/config.yaml

  # Environment overrides
  QCDN_LOGGING_LEVEL=debug QCDN_BIND=127.0.0.1:9000 qcdnd serve`,
	RunE: runServe,
}

var (
	serveBind     string
	serveData     string
	serveLogLevel string
)

func init() {
	serveCmd.Flags().StringVar(&serveBind, "bind", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveData, "data", "", "Data root directory (overrides config)")
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

	db, err := database.Open(st.Path(database.DBName, true), database.ModeReadWrite)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	bus := replication.NewBus(cfg.Replication.Buffer)

	srv := server.New(server.Options{
		Database: db,
		Storage:  st,
		Bus:      bus,
		Version:  Version,
	})

	lis, err := net.Listen("tcp", cfg.Bind)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Bind, err)
	}

	logger.Info("qcdnd starting", "version", Version, "bind", cfg.Bind, "data", cfg.Data)
	return srv.Serve(ctx, lis)
}
