package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GetDirs returns every dir, oldest first.
func (d *Database) GetDirs(ctx context.Context) ([]Dir, error) {
	var dirs []Dir
	if err := d.db.WithContext(ctx).Order("id").Find(&dirs).Error; err != nil {
		return nil, fmt.Errorf("listing dirs: %w", err)
	}
	return dirs, nil
}

// FindDirByID looks a dir up by its id.
func (d *Database) FindDirByID(ctx context.Context, id int64) (*Dir, error) {
	var dir Dir
	if err := d.db.WithContext(ctx).First(&dir, id).Error; err != nil {
		return nil, asNotFound(err, fmt.Sprintf("dir %d", id))
	}
	return &dir, nil
}

// FindDirByName looks a dir up by its unique name.
func (d *Database) FindDirByName(ctx context.Context, name string) (*Dir, error) {
	var dir Dir
	if err := d.db.WithContext(ctx).Where("name = ?", name).First(&dir).Error; err != nil {
		return nil, asNotFound(err, fmt.Sprintf("dir %q", name))
	}
	return &dir, nil
}

// UpsertDir returns the dir named name, creating it if missing.
// Concurrent creators are serialized by the unique index; the loser
// re-reads the winner's row.
func (d *Database) UpsertDir(ctx context.Context, name string) (*Dir, error) {
	var dir Dir
	err := d.db.WithContext(ctx).Where("name = ?", name).First(&dir).Error
	if err == nil {
		return &dir, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("finding dir: %w", err)
	}

	dir = Dir{Name: name, CreatedAt: time.Now().UTC()}
	if err := d.db.WithContext(ctx).Create(&dir).Error; err != nil {
		if isUniqueConstraintError(err) {
			return d.FindDirByName(ctx, name)
		}
		return nil, fmt.Errorf("creating dir: %w", err)
	}
	return &dir, nil
}

// DeleteDirIfEmpty removes the dir when it owns no files. It is a
// no-op otherwise; upload compensation and deletes call it blindly.
func (d *Database) DeleteDirIfEmpty(ctx context.Context, id int64) error {
	err := d.db.WithContext(ctx).Exec(
		`DELETE FROM dir
		 WHERE id = ? AND NOT EXISTS (SELECT 1 FROM file WHERE dir_id = ?)`,
		id, id,
	).Error
	if err != nil {
		return fmt.Errorf("deleting empty dir: %w", err)
	}
	return nil
}
