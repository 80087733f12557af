package database

import (
	"strconv"
	"strings"
	"time"
)

// FileVersionState is the lifecycle state of a version. It only ever
// advances: Created -> Downloading -> Ready.
type FileVersionState int16

const (
	StateCreated FileVersionState = iota
	StateDownloading
	StateReady
)

func (s FileVersionState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateDownloading:
		return "downloading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Dir is a namespace. It is created lazily on first upload naming it
// and deleted once it owns no files.
type Dir struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Dir) TableName() string { return "dir" }

// File is a logical named artifact inside a Dir. MediaType is set on
// creation and never changed.
type File struct {
	ID        int64     `gorm:"primaryKey"`
	DirID     int64     `gorm:"uniqueIndex:idx_file_dir_name;not null"`
	Name      string    `gorm:"uniqueIndex:idx_file_dir_name;not null"`
	MediaType string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (File) TableName() string { return "file" }

// FileVersion is a concrete byte sequence belonging to a File. Name is
// the uploader-supplied version label ("1.2.3"). DeletedAt is the
// soft-delete marker; it is only ever set on a Ready version.
type FileVersion struct {
	ID        int64            `gorm:"primaryKey"`
	FileID    int64            `gorm:"index;not null"`
	Size      int64            `gorm:"not null"`
	Hash      string           `gorm:"not null"`
	Name      string           `gorm:"not null"`
	State     FileVersionState `gorm:"not null"`
	CreatedAt time.Time        `gorm:"not null"`
	DeletedAt *time.Time
}

func (FileVersion) TableName() string { return "file_version" }

// FileVersionTag is a movable label pointing at exactly one version.
// The name is unique within the owning File, not within a version.
type FileVersionTag struct {
	ID            int64     `gorm:"primaryKey"`
	FileVersionID int64     `gorm:"index;not null"`
	Name          string    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	ActivatedAt   time.Time `gorm:"not null"`
}

func (FileVersionTag) TableName() string { return "file_version_tag" }

// VersionWithTags is a FileVersion decorated with its current tag set,
// as listed by the query surface.
type VersionWithTags struct {
	FileVersion
	Tags []string
}

// versionWithTagsRow is the raw scan target; tags arrive as the
// comma-joined group_concat aggregate.
type versionWithTagsRow struct {
	ID        int64
	FileID    int64
	Size      int64
	Hash      string
	Name      string
	State     FileVersionState
	CreatedAt time.Time
	DeletedAt *time.Time
	Tags      *string
}

func (r versionWithTagsRow) toVersionWithTags() VersionWithTags {
	v := VersionWithTags{
		FileVersion: FileVersion{
			ID:        r.ID,
			FileID:    r.FileID,
			Size:      r.Size,
			Hash:      r.Hash,
			Name:      r.Name,
			State:     r.State,
			CreatedAt: r.CreatedAt,
			DeletedAt: r.DeletedAt,
		},
	}
	if r.Tags != nil {
		for _, t := range strings.Split(*r.Tags, ",") {
			if t != "" {
				v.Tags = append(v.Tags, t)
			}
		}
	}
	return v
}

// PathParts is the stable on-disk location of a version's bytes,
// relative to the storage root.
type PathParts struct {
	DirID         int64
	FileID        int64
	FileVersionID int64
}

func (p PathParts) String() string {
	return strconv.FormatInt(p.DirID, 10) + "/" +
		strconv.FormatInt(p.FileID, 10) + "/" +
		strconv.FormatInt(p.FileVersionID, 10)
}

// VersionMeta is the flattened read-path projection of a Ready,
// non-deleted version: everything the HTTP server needs to serve it.
type VersionMeta struct {
	ID          int64
	CreatedAt   time.Time
	MediaType   string
	Hash        string
	StoragePath string
}
