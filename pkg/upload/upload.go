// Package upload drives one streaming upload through its three
// phases: requested (waiting for metadata), transferring (receiving
// parts) and finalized. Every database step is its own short
// transaction; correctness across the whole stream comes from the
// ordered compensation chain that runs when any phase fails.
package upload

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"os"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/errtypes"
	"github.com/qcdn/qcdn/pkg/storage"
)

// Meta is the upload's declared identity: where the bytes go and what
// they must turn out to be.
type Meta struct {
	Dir       string
	Name      string
	MediaType string
	Version   string
	Size      int64
	Hash      string // base64 of the SHA-256 of the bytes
}

// Result identifies the finalized version.
type Result struct {
	DirID         int64
	FileID        int64
	FileVersionID int64
	Version       *database.FileVersion
}

// Pending is an upload whose stream has opened but not yet sent
// metadata. Exactly one Meta call is valid.
type Pending struct {
	storage *storage.Storage
	db      *database.Database
}

// NewPending starts a fresh upload.
func NewPending(st *storage.Storage, db *database.Database) *Pending {
	return &Pending{storage: st, db: db}
}

// Meta runs the metadata phase: upsert dir and file, create the
// version row in Downloading state (which enforces version-name
// uniqueness), create and pre-size the on-disk artifact. On any
// failure the steps done so far are compensated and the original
// error is returned.
func (p *Pending) Meta(ctx context.Context, m Meta) (*Transfer, error) {
	if m.Dir == "" || m.Name == "" || m.Version == "" {
		return nil, errtypes.Precondition("dir, name and version must be set")
	}
	if m.Size < 0 {
		return nil, errtypes.Precondition("size cannot be negative")
	}

	t := &Transfer{
		storage: p.storage,
		db:      p.db,
		meta:    m,
		hasher:  sha256.New(),
	}

	if err := t.setup(ctx); err != nil {
		t.compensate(ctx)
		return nil, err
	}
	return t, nil
}

// Transfer is an upload past the metadata phase. It is owned by
// exactly one goroutine; no internal locking.
type Transfer struct {
	storage *storage.Storage
	db      *database.Database

	meta     Meta
	received int64
	hasher   hash.Hash
	handle   *os.File
	path     string

	dir     *database.Dir
	file    *database.File
	version *database.FileVersion
}

func (t *Transfer) setup(ctx context.Context) error {
	dir, err := t.db.UpsertDir(ctx, t.meta.Dir)
	if err != nil {
		return err
	}
	t.dir = dir
	logger.Debug("upload dir ready", "dir", dir.Name, "dir_id", dir.ID)

	file, err := t.db.UpsertFile(ctx, dir.ID, t.meta.Name, t.meta.MediaType)
	if err != nil {
		return err
	}
	t.file = file

	version, err := t.db.CreateVersion(ctx, file.ID, t.meta.Size, t.meta.Hash, t.meta.Version)
	if err != nil {
		return err
	}
	t.version = version
	logger.Debug("upload version created",
		"file_version_id", version.ID, "version", version.Name, "size", version.Size)

	parts, err := t.db.VersionPath(ctx, version.ID)
	if err != nil {
		return err
	}
	t.path = parts.String()

	handle, err := t.storage.Create(t.path)
	if err != nil {
		return err
	}
	t.handle = handle

	if err := handle.Truncate(t.meta.Size); err != nil {
		return fmt.Errorf("pre-sizing artifact: %w", err)
	}

	return nil
}

// Part appends one chunk of the stream. Receiving more bytes than the
// declared size fails immediately; compensation runs before return.
func (t *Transfer) Part(ctx context.Context, chunk []byte) error {
	if err := t.part(chunk); err != nil {
		t.compensate(ctx)
		return err
	}
	return nil
}

func (t *Transfer) part(chunk []byte) error {
	t.received += int64(len(chunk))
	if t.received > t.meta.Size {
		return errtypes.DataCorruption(
			fmt.Sprintf("received %d bytes, expected %d", t.received, t.meta.Size))
	}
	if _, err := t.handle.Write(chunk); err != nil {
		return fmt.Errorf("writing part: %w", err)
	}
	t.hasher.Write(chunk)
	return nil
}

// Finish runs the end-of-stream phase: verify size and hash, then
// advance the version to Ready. Any failure compensates.
func (t *Transfer) Finish(ctx context.Context) (*Result, error) {
	res, err := t.finish(ctx)
	if err != nil {
		t.compensate(ctx)
		return nil, err
	}
	return res, nil
}

func (t *Transfer) finish(ctx context.Context) (*Result, error) {
	if t.received != t.meta.Size {
		return nil, errtypes.DataCorruption(
			fmt.Sprintf("received %d bytes, expected %d", t.received, t.meta.Size))
	}

	sum := base64.StdEncoding.EncodeToString(t.hasher.Sum(nil))
	if sum != t.meta.Hash {
		return nil, errtypes.DataCorruption("hash mismatch")
	}

	if err := t.handle.Sync(); err != nil {
		return nil, fmt.Errorf("syncing artifact: %w", err)
	}
	if err := t.handle.Close(); err != nil {
		return nil, fmt.Errorf("closing artifact: %w", err)
	}
	t.handle = nil

	if err := t.db.UpdateVersionState(ctx, t.version.ID, database.StateReady); err != nil {
		return nil, err
	}
	t.version.State = database.StateReady

	logger.Info("upload finalized",
		"dir", t.meta.Dir, "file", t.meta.Name, "version", t.meta.Version,
		"file_version_id", t.version.ID, "size", t.received)

	return &Result{
		DirID:         t.dir.ID,
		FileID:        t.file.ID,
		FileVersionID: t.version.ID,
		Version:       t.version,
	}, nil
}

// Abort compensates an upload cancelled before end-of-stream (client
// disconnect, timeout, protocol violation).
func (t *Transfer) Abort(ctx context.Context) {
	t.compensate(ctx)
}

// compensate undoes whatever the upload created, in order: the
// version row (hard delete, permitted because the state never reached
// Ready), the on-disk artifact, then the file and dir if they ended
// up empty. Failures are logged and suppressed so they never mask the
// error that triggered compensation.
func (t *Transfer) compensate(ctx context.Context) {
	logger.Debug("upload compensation", "dir", t.meta.Dir, "file", t.meta.Name, "version", t.meta.Version)

	// Cleanup still has to run when the trigger was the client
	// cancelling the stream.
	ctx = context.WithoutCancel(ctx)

	if t.handle != nil {
		if err := t.handle.Close(); err != nil {
			logger.Warn("compensation: closing artifact", "error", err)
		}
		t.handle = nil
	}

	if t.version != nil {
		if err := t.db.HardDeleteVersion(ctx, t.version.ID); err != nil {
			logger.Warn("compensation: deleting version row", "file_version_id", t.version.ID, "error", err)
		}
	}

	if t.path != "" {
		err := t.storage.Remove(t.path)
		if err != nil && !isNotFound(err) {
			logger.Warn("compensation: removing artifact", "path", t.path, "error", err)
		}
	}

	if t.file != nil {
		if err := t.db.DeleteFileIfEmpty(ctx, t.file.ID); err != nil {
			logger.Warn("compensation: pruning file", "file_id", t.file.ID, "error", err)
		}
	}

	if t.dir != nil {
		if err := t.db.DeleteDirIfEmpty(ctx, t.dir.ID); err != nil {
			logger.Warn("compensation: pruning dir", "dir_id", t.dir.ID, "error", err)
		}
	}
}

func isNotFound(err error) bool {
	var nf errtypes.IsNotFound
	return errors.As(err, &nf)
}
