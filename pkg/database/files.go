package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qcdn/qcdn/pkg/errtypes"
)

// FindFilesByDir returns every file in a dir, oldest first.
func (d *Database) FindFilesByDir(ctx context.Context, dirID int64) ([]File, error) {
	var files []File
	if err := d.db.WithContext(ctx).Where("dir_id = ?", dirID).Order("id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// FindFileByID looks a file up by its id.
func (d *Database) FindFileByID(ctx context.Context, id int64) (*File, error) {
	var file File
	if err := d.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, asNotFound(err, fmt.Sprintf("file %d", id))
	}
	return &file, nil
}

// FindFileByDirAndName looks a file up by (dir, name).
func (d *Database) FindFileByDirAndName(ctx context.Context, dirID int64, name string) (*File, error) {
	var file File
	err := d.db.WithContext(ctx).
		Where("dir_id = ? AND name = ?", dirID, name).
		First(&file).Error
	if err != nil {
		return nil, asNotFound(err, fmt.Sprintf("file %q", name))
	}
	return &file, nil
}

// UpsertFile returns the file named name in dirID, creating it with
// mediaType if missing. The media type of an existing file is not
// changed.
func (d *Database) UpsertFile(ctx context.Context, dirID int64, name, mediaType string) (*File, error) {
	file, err := d.FindFileByDirAndName(ctx, dirID, name)
	if err == nil {
		return file, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("finding file: %w", err)
	}

	created := File{DirID: dirID, Name: name, MediaType: mediaType, CreatedAt: time.Now().UTC()}
	if err := d.db.WithContext(ctx).Create(&created).Error; err != nil {
		if isUniqueConstraintError(err) {
			return d.FindFileByDirAndName(ctx, dirID, name)
		}
		return nil, fmt.Errorf("creating file: %w", err)
	}
	return &created, nil
}

// DeleteFileIfEmpty removes the file when it owns no versions.
func (d *Database) DeleteFileIfEmpty(ctx context.Context, id int64) error {
	err := d.db.WithContext(ctx).Exec(
		`DELETE FROM file
		 WHERE id = ? AND NOT EXISTS (SELECT 1 FROM file_version WHERE file_id = ?)`,
		id, id,
	).Error
	if err != nil {
		return fmt.Errorf("deleting empty file: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf errtypes.IsNotFound
	return errors.As(err, &nf)
}
