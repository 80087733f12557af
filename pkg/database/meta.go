package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/qcdn/qcdn/pkg/errtypes"
)

// versionMetaRow is the scan target for the flattened read-path join.
type versionMetaRow struct {
	VersionID int64
	CreatedAt time.Time
	MediaType string
	Hash      string
	DirID     int64
	FileID    int64
}

func (r versionMetaRow) toVersionMeta() *VersionMeta {
	return &VersionMeta{
		ID:        r.VersionID,
		CreatedAt: r.CreatedAt,
		MediaType: r.MediaType,
		Hash:      r.Hash,
		StoragePath: strconv.FormatInt(r.DirID, 10) + "/" +
			strconv.FormatInt(r.FileID, 10) + "/" +
			strconv.FormatInt(r.VersionID, 10),
	}
}

// FindVersionsWithTags lists a file's versions decorated with their
// comma-joined tag aggregate, soft-deleted ones included.
func (d *Database) FindVersionsWithTags(ctx context.Context, fileID int64) ([]VersionWithTags, error) {
	var rows []versionWithTagsRow
	err := d.db.WithContext(ctx).Raw(
		`SELECT fv.*, group_concat(fvt.name) AS tags
		 FROM file_version fv
		 LEFT JOIN file_version_tag fvt ON fvt.file_version_id = fv.id
		 WHERE fv.file_id = ?
		 GROUP BY fv.id
		 ORDER BY fv.id`,
		fileID,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing versions with tags: %w", err)
	}

	versions := make([]VersionWithTags, 0, len(rows))
	for _, r := range rows {
		versions = append(versions, r.toVersionWithTags())
	}
	return versions, nil
}

// FindVersionWithTags returns a single version with its tag set.
func (d *Database) FindVersionWithTags(ctx context.Context, id int64) (*VersionWithTags, error) {
	var row versionWithTagsRow
	res := d.db.WithContext(ctx).Raw(
		`SELECT fv.*, group_concat(fvt.name) AS tags
		 FROM file_version fv
		 LEFT JOIN file_version_tag fvt ON fvt.file_version_id = fv.id
		 WHERE fv.id = ?
		 GROUP BY fv.id`,
		id,
	).Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("finding version with tags: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errtypes.NotFound(fmt.Sprintf("file version %d", id))
	}
	v := row.toVersionWithTags()
	return &v, nil
}

// FindVersionMetaByID returns the read-path projection of a Ready,
// non-deleted version.
func (d *Database) FindVersionMetaByID(ctx context.Context, id int64) (*VersionMeta, error) {
	var row versionMetaRow
	res := d.db.WithContext(ctx).Raw(
		`SELECT fv.id AS version_id, fv.created_at, fv.hash,
		        f.media_type, d.id AS dir_id, f.id AS file_id
		 FROM file_version fv
		 INNER JOIN file f ON f.id = fv.file_id
		 INNER JOIN dir d ON d.id = f.dir_id
		 WHERE fv.id = ? AND fv.state = ? AND fv.deleted_at IS NULL`,
		id, StateReady,
	).Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("finding version meta: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errtypes.NotFound(fmt.Sprintf("file version %d", id))
	}
	return row.toVersionMeta(), nil
}

// FindVersionMetaByPath resolves (dir, file, version-or-tag) to the
// read-path projection. versionOrTag matches the version's own name
// first-class, or any tag name attached to a version of the file;
// only Ready, non-deleted versions resolve.
func (d *Database) FindVersionMetaByPath(ctx context.Context, dirName, fileName, versionOrTag string) (*VersionMeta, error) {
	var row versionMetaRow
	res := d.db.WithContext(ctx).Raw(
		`SELECT fv.id AS version_id, fv.created_at, fv.hash,
		        f.media_type, d.id AS dir_id, f.id AS file_id
		 FROM file_version fv
		 INNER JOIN file f ON f.id = fv.file_id
		 INNER JOIN dir d ON d.id = f.dir_id
		 LEFT JOIN file_version_tag fvt ON fvt.file_version_id = fv.id
		 WHERE d.name = ? AND f.name = ?
		   AND (fv.name = ? OR fvt.name = ?)
		   AND fv.state = ? AND fv.deleted_at IS NULL
		 LIMIT 1`,
		dirName, fileName, versionOrTag, versionOrTag, StateReady,
	).Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("finding version meta: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errtypes.NotFound(fmt.Sprintf("%s/%s/%s", dirName, fileName, versionOrTag))
	}
	return row.toVersionMeta(), nil
}
