package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/errtypes"
	"github.com/qcdn/qcdn/pkg/storage"
)

// Cache-Control values by deployment mode. Version bytes are
// immutable once Ready, so production tells caches to keep them for a
// year; development disables caching so edits show up immediately.
const (
	cacheControlProduction  = "public, max-age=31536000, immutable"
	cacheControlDevelopment = "private, no-cache"
)

type handler struct {
	db         *database.Database
	storage    *storage.Storage
	production bool
}

// file serves GET /f/{dir}/{file}/{version}. The last path element
// matches a version name or a tag of the file; only Ready, non-deleted
// versions resolve. Conditional headers answer 304 without touching
// blob storage.
func (h *handler) file(w http.ResponseWriter, r *http.Request) {
	dir := chi.URLParam(r, "dir")
	file := chi.URLParam(r, "file")
	version := chi.URLParam(r, "version")

	meta, err := h.db.FindVersionMetaByPath(r.Context(), dir, file, version)
	if err != nil {
		var nf errtypes.IsNotFound
		if errors.As(err, &nf) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		logger.Error("resolving content path", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	etag := `"` + meta.Hash + `"`
	lastModified := meta.CreatedAt.UTC().Format(http.TimeFormat)

	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", lastModified)
	cacheControl := cacheControlDevelopment
	if h.production {
		cacheControl = cacheControlProduction
	}
	w.Header().Set("Cache-Control", cacheControl)

	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, meta.Hash) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if since := r.Header.Get("If-Modified-Since"); since == lastModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	handle, err := h.storage.Open(meta.StoragePath)
	if err != nil {
		logger.Error("opening content", "path", meta.StoragePath, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer handle.Close()

	w.Header().Set("Content-Type", meta.MediaType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, handle); err != nil {
		// Headers are gone; all we can do is log.
		logger.Warn("streaming content", "path", meta.StoragePath, "error", err)
	}
}

// health answers 200 "Ok" when both the database and blob storage are
// reachable.
func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		logger.Error("health: database unreachable", "error", err)
		http.Error(w, "database unreachable", http.StatusInternalServerError)
		return
	}
	if err := h.storage.Ping(); err != nil {
		logger.Error("health: storage unreachable", "error", err)
		http.Error(w, "storage unreachable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Ok"))
}
