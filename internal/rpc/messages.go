package rpc

import "time"

// Empty is the request or reply of operations that carry no payload.
type Empty struct{}

// PingMessage carries a timestamp; Ping echoes it back unchanged.
type PingMessage struct {
	Timestamp time.Time `json:"timestamp"`
}

// VersionResponse reports the server build version.
type VersionResponse struct {
	Version string `json:"version"`
}

// UploadMeta declares an upload before any bytes flow: where the
// content goes and what it must turn out to be.
type UploadMeta struct {
	Dir       string `json:"dir"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Version   string `json:"version"`
	Size      int64  `json:"size"`
	Hash      string `json:"hash"`
}

// FilePart is one chunk of content bytes.
type FilePart struct {
	Bytes []byte `json:"bytes"`
}

// UploadRequest is one frame of the upload stream. Exactly one of
// Meta and Part is set; the first frame must be Meta.
type UploadRequest struct {
	Meta *UploadMeta `json:"meta,omitempty"`
	Part *FilePart   `json:"part,omitempty"`
}

// UploadResponse identifies the version an upload finalized into.
type UploadResponse struct {
	DirID         int64 `json:"dir_id"`
	FileID        int64 `json:"file_id"`
	FileVersionID int64 `json:"file_version_id"`
}

// GetDirRequest asks for one dir by id.
type GetDirRequest struct {
	ID int64 `json:"id"`
}

// GetDirResponse is one dir row.
type GetDirResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GetDirsResponse lists every dir.
type GetDirsResponse struct {
	Dirs []*GetDirResponse `json:"dirs"`
}

// GetFilesRequest asks for the files of one dir.
type GetFilesRequest struct {
	DirID int64 `json:"dir_id"`
}

// GetFileRequest asks for one file by id.
type GetFileRequest struct {
	ID int64 `json:"id"`
}

// GetFileResponse is one file row.
type GetFileResponse struct {
	ID        int64  `json:"id"`
	DirID     int64  `json:"dir_id"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
}

// GetFilesResponse lists a dir's files.
type GetFilesResponse struct {
	Files []*GetFileResponse `json:"files"`
}

// GetFileVersionsRequest asks for the versions of one file.
type GetFileVersionsRequest struct {
	FileID int64 `json:"file_id"`
}

// GetFileVersionRequest asks for one version by id.
type GetFileVersionRequest struct {
	ID int64 `json:"id"`
}

// GetFileVersionResponse is one version row with its tag set.
// Soft-deleted versions are reported with IsDeleted set.
type GetFileVersionResponse struct {
	ID        int64    `json:"id"`
	FileID    int64    `json:"file_id"`
	Name      string   `json:"name"`
	Size      int64    `json:"size"`
	Hash      string   `json:"hash"`
	State     string   `json:"state"`
	Tags      []string `json:"tags"`
	IsDeleted bool     `json:"is_deleted"`
}

// GetFileVersionsResponse lists a file's versions.
type GetFileVersionsResponse struct {
	Versions []*GetFileVersionResponse `json:"versions"`
}

// DownloadRequest asks for the bytes of one Ready version.
type DownloadRequest struct {
	FileVersionID int64 `json:"file_version_id"`
}

// TagVersionRequest attaches tag Name to the version, moving it from
// any version of the same file it is currently on.
type TagVersionRequest struct {
	FileVersionID int64  `json:"file_version_id"`
	Name          string `json:"name"`
}

// DeleteFileVersionRequest soft-deletes one Ready version.
type DeleteFileVersionRequest struct {
	ID int64 `json:"id"`
}

// UploadedVersion announces a newly Ready version to followers.
type UploadedVersion struct {
	DirID         int64 `json:"dir_id"`
	FileID        int64 `json:"file_id"`
	FileVersionID int64 `json:"file_version_id"`
}

// VersionTagged announces a tag create or move to followers.
type VersionTagged struct {
	FileVersionID int64  `json:"file_version_id"`
	Name          string `json:"name"`
}

// DeletedVersion announces a soft delete to followers.
type DeletedVersion struct {
	FileVersionID int64 `json:"file_version_id"`
}

// SyncMessage is one frame of the replication feed. Exactly one of
// Uploaded, Tagged and Deleted is set. Timestamp is when the change
// was committed, so a follower can resume from its last-seen value.
type SyncMessage struct {
	Timestamp time.Time        `json:"timestamp"`
	Uploaded  *UploadedVersion `json:"uploaded,omitempty"`
	Tagged    *VersionTagged   `json:"tagged,omitempty"`
	Deleted   *DeletedVersion  `json:"deleted,omitempty"`
}

// ConnectionRequest opens the replication feed. A nil Timestamp means
// live-only; otherwise history after Timestamp is replayed first.
type ConnectionRequest struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
