// Package web is the read-only HTTP content server. It resolves
// /f/{dir}/{file}/{version} paths against the metadata store and
// streams the bytes from blob storage, with the caching headers a CDN
// edge expects.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/metrics"
	"github.com/qcdn/qcdn/pkg/storage"
)

// NewRouter builds the chi router for the content server.
//
// Routes:
//   - GET /f/{dir}/{file}/{version} - content by version name or tag
//   - GET /health - liveness probe
//   - GET /metrics - Prometheus metrics
func NewRouter(db *database.Database, st *storage.Storage, production bool) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	h := &handler{db: db, storage: st, production: production}

	r.Get("/f/{dir}/{file}/{version}", h.file)
	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	return r
}

// requestLogger logs every request through the internal logger and
// feeds the per-status fetch counter.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("web request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		metrics.WebRequestsTotal.WithLabelValues(strconv.Itoa(ww.Status())).Inc()

		logger.Info("web request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
