package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qcdn/qcdn/pkg/errtypes"
)

// FindVersionsByFile returns every version of a file, including
// soft-deleted ones, oldest first.
func (d *Database) FindVersionsByFile(ctx context.Context, fileID int64) ([]FileVersion, error) {
	var versions []FileVersion
	err := d.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Order("id").
		Find(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	return versions, nil
}

// FindVersionByID looks a version up by its id.
func (d *Database) FindVersionByID(ctx context.Context, id int64) (*FileVersion, error) {
	var v FileVersion
	if err := d.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, asNotFound(err, fmt.Sprintf("file version %d", id))
	}
	return &v, nil
}

// FindReadyVersion returns the Ready, non-deleted version of a file
// with the given name, or NotFound.
func (d *Database) FindReadyVersion(ctx context.Context, fileID int64, name string) (*FileVersion, error) {
	var v FileVersion
	err := d.db.WithContext(ctx).
		Where("file_id = ? AND name = ? AND state = ? AND deleted_at IS NULL",
			fileID, name, StateReady).
		First(&v).Error
	if err != nil {
		return nil, asNotFound(err, fmt.Sprintf("ready version %q", name))
	}
	return &v, nil
}

// CreateVersion inserts a new version in Downloading state. It fails
// with Precondition when a Ready, non-deleted version of the same file
// already carries the name: uploads of a duplicate (file, version)
// race to this check inside one transaction and exactly one proceeds.
func (d *Database) CreateVersion(ctx context.Context, fileID, size int64, hash, name string) (*FileVersion, error) {
	v := FileVersion{
		FileID:    fileID,
		Size:      size,
		Hash:      hash,
		Name:      name,
		State:     StateDownloading,
		CreatedAt: time.Now().UTC(),
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&FileVersion{}).
			Where("file_id = ? AND name = ? AND state = ? AND deleted_at IS NULL",
				fileID, name, StateReady).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return errtypes.Precondition(fmt.Sprintf("version %q already exists", name))
		}
		return tx.Create(&v).Error
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// VersionPath resolves a version id to its stable on-disk path parts
// <dir_id>/<file_id>/<file_version_id>.
func (d *Database) VersionPath(ctx context.Context, id int64) (*PathParts, error) {
	var parts PathParts
	res := d.db.WithContext(ctx).Raw(
		`SELECT f.dir_id AS dir_id, f.id AS file_id, fv.id AS file_version_id
		 FROM file_version fv
		 INNER JOIN file f ON f.id = fv.file_id
		 WHERE fv.id = ?`,
		id,
	).Scan(&parts)
	if res.Error != nil {
		return nil, fmt.Errorf("resolving version path: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errtypes.NotFound(fmt.Sprintf("file version %d", id))
	}
	return &parts, nil
}

// UpdateVersionState advances a version's state. Transitions are
// strictly monotone; anything else fails with Precondition. The
// partial unique index on (file_id, name) rejects a second Ready
// version with the same name, which surfaces as Precondition too.
func (d *Database) UpdateVersionState(ctx context.Context, id int64, state FileVersionState) error {
	res := d.db.WithContext(ctx).
		Model(&FileVersion{}).
		Where("id = ? AND state < ?", id, state).
		Update("state", state)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return errtypes.Precondition("a ready version with this name already exists")
		}
		return fmt.Errorf("updating version state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := d.FindVersionByID(ctx, id); err != nil {
			return err
		}
		return errtypes.Precondition(fmt.Sprintf("state cannot regress to %s", state))
	}
	return nil
}

// SoftDeleteVersion marks a Ready version deleted and returns the
// deletion timestamp. The bytes stay on disk and the row stays
// visible in listings. A tag left on the version dangles until an
// operator moves it; resolvers skip deleted versions, so a dangling
// tag simply stops resolving.
func (d *Database) SoftDeleteVersion(ctx context.Context, id int64) (time.Time, error) {
	now := time.Now().UTC()
	res := d.db.WithContext(ctx).
		Model(&FileVersion{}).
		Where("id = ? AND state = ? AND deleted_at IS NULL", id, StateReady).
		Update("deleted_at", now)
	if res.Error != nil {
		return time.Time{}, fmt.Errorf("soft-deleting version: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := d.FindVersionByID(ctx, id); err != nil {
			return time.Time{}, err
		}
		return time.Time{}, errtypes.Precondition("only ready, non-deleted versions can be deleted")
	}
	return now, nil
}

// HardDeleteVersion removes the row and its tag rows in one
// transaction. Only permitted on non-Ready versions; upload
// compensation is the sole caller.
func (d *Database) HardDeleteVersion(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v FileVersion
		if err := tx.First(&v, id).Error; err != nil {
			return asNotFound(err, fmt.Sprintf("file version %d", id))
		}
		if v.State == StateReady {
			return errtypes.Precondition("versions in ready state cannot be hard-deleted")
		}
		if err := tx.Where("file_version_id = ?", id).Delete(&FileVersionTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&FileVersion{}, id).Error
	})
}
