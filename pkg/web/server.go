package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/storage"
)

// Options configures the content server.
type Options struct {
	// Addr is the listen address, e.g. "0.0.0.0:8080".
	Addr string
	// Production selects the long-lived immutable Cache-Control
	// headers; off, responses are marked uncacheable.
	Production bool

	Database *database.Database
	Storage  *storage.Storage
}

// Server is the read-only HTTP content server. It supports graceful
// shutdown with a fixed timeout.
type Server struct {
	server       *http.Server
	addr         string
	shutdownOnce sync.Once
}

// NewServer creates the content server in a stopped state; call Start
// to begin serving.
func NewServer(opts Options) *Server {
	router := NewRouter(opts.Database, opts.Storage, opts.Production)

	return &Server{
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  2 * time.Minute,
		},
		addr: opts.Addr,
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("web server listening", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("web server shutdown signal received")
		// The cancelled ctx would abort in-flight responses; give
		// them a fresh deadline instead.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("web server failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("web server shutdown: %w", err)
		} else {
			logger.Info("web server stopped")
		}
	})
	return shutdownErr
}
