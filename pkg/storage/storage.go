// Package storage owns the rooted directory tree QCDN keeps version
// bytes in. It performs no locking and never interprets file contents;
// serializing access to a given path is the caller's duty.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/errtypes"
)

// SubdirName is the subdirectory under the data root that holds
// version bytes. The metadata database lives next to it in the root.
const SubdirName = "storage"

// Storage addresses files below <root>/<subdir> by relative path.
// The zero value is not usable; construct with New.
type Storage struct {
	root   string
	subdir string
}

// New resolves base to an absolute path, ensures <base>/<subdir>
// exists, and fails if the target exists but is not a directory.
func New(base, subdir string) (*Storage, error) {
	root, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	target := filepath.Join(root, subdir)

	info, err := os.Stat(target)
	switch {
	case os.IsNotExist(err):
		logger.Debug("creating storage directory", "path", target)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("checking storage directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("storage path %q is not a directory", target)
	}

	s := &Storage{root: root, subdir: target}
	logger.Info("storage ready", "root", root, "subdir", target)
	return s, nil
}

// Path returns the absolute path for rel. With fromRoot the path is
// resolved against the data root instead of the storage subdirectory;
// that is where the metadata database lives.
func (s *Storage) Path(rel string, fromRoot bool) string {
	if fromRoot {
		return filepath.Join(s.root, rel)
	}
	return filepath.Join(s.subdir, rel)
}

// Open opens the file at rel for reading.
func (s *Storage) Open(rel string) (*os.File, error) {
	f, err := os.Open(s.Path(rel, false))
	if os.IsNotExist(err) {
		return nil, errtypes.NotFound(rel)
	}
	return f, err
}

// Create creates (or truncates) the file at rel for writing, creating
// parent directories as needed.
func (s *Storage) Create(rel string) (*os.File, error) {
	path := s.Path(rel, false)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating parent directory: %w", err)
	}
	return os.Create(path)
}

// Remove deletes the regular file at rel. It fails with NotFound when
// the path is missing or not a regular file.
func (s *Storage) Remove(rel string) error {
	path := s.Path(rel, false)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errtypes.NotFound(rel)
	}
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errtypes.NotFound(rel)
	}
	logger.Debug("removing file", "path", path)
	return os.Remove(path)
}

// Ping verifies the storage subdirectory still exists. The health
// endpoint calls this.
func (s *Storage) Ping() error {
	info, err := os.Stat(s.subdir)
	if err != nil || !info.IsDir() {
		return errtypes.NotFound("storage directory is gone")
	}
	return nil
}
