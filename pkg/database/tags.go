package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FindTagsByVersion returns every tag currently pointing at a version.
func (d *Database) FindTagsByVersion(ctx context.Context, fileVersionID int64) ([]FileVersionTag, error) {
	var tags []FileVersionTag
	err := d.db.WithContext(ctx).
		Where("file_version_id = ?", fileVersionID).
		Order("name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// FindTagByFileAndName resolves a tag name within a file, across all
// of its versions. Tags are file-scoped: two files may reuse the same
// tag name independently.
func (d *Database) FindTagByFileAndName(ctx context.Context, fileID int64, name string) (*FileVersionTag, error) {
	var tag FileVersionTag
	res := d.db.WithContext(ctx).Raw(
		`SELECT fvt.*
		 FROM file_version_tag fvt
		 INNER JOIN file_version fv ON fv.id = fvt.file_version_id
		 WHERE fv.file_id = ? AND fvt.name = ?`,
		fileID, name,
	).Scan(&tag)
	if res.Error != nil {
		return nil, fmt.Errorf("finding tag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, asNotFound(gorm.ErrRecordNotFound, fmt.Sprintf("tag %q", name))
	}
	return &tag, nil
}

// CreateOrMoveTag points the tag name at fileVersionID. If the name
// already tags any version of the same file the existing row is moved
// and its activated_at bumped; otherwise a fresh row is inserted. The
// whole upsert runs in one transaction, so a concurrent reader sees
// either the old target or the new one, never a missing tag.
func (d *Database) CreateOrMoveTag(ctx context.Context, fileID, fileVersionID int64, name string) (*FileVersionTag, error) {
	now := time.Now().UTC()
	var tag FileVersionTag

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Raw(
			`SELECT fvt.*
			 FROM file_version_tag fvt
			 INNER JOIN file_version fv ON fv.id = fvt.file_version_id
			 WHERE fv.file_id = ? AND fvt.name = ?`,
			fileID, name,
		).Scan(&tag)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			tag.FileVersionID = fileVersionID
			tag.ActivatedAt = now
			return tx.Model(&FileVersionTag{}).
				Where("id = ?", tag.ID).
				Updates(map[string]any{
					"file_version_id": fileVersionID,
					"activated_at":    now,
				}).Error
		}

		tag = FileVersionTag{
			FileVersionID: fileVersionID,
			Name:          name,
			CreatedAt:     now,
			ActivatedAt:   now,
		}
		return tx.Create(&tag).Error
	})
	if err != nil {
		return nil, fmt.Errorf("upserting tag: %w", err)
	}
	return &tag, nil
}
