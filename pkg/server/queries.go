package server

import (
	"context"
	"errors"
	"io"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/internal/rpc"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/metrics"
)

func (s *service) GetDirs(ctx context.Context, _ *rpc.Empty) (*rpc.GetDirsResponse, error) {
	dirs, err := s.db.GetDirs(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	out := &rpc.GetDirsResponse{Dirs: make([]*rpc.GetDirResponse, 0, len(dirs))}
	for _, d := range dirs {
		out.Dirs = append(out.Dirs, &rpc.GetDirResponse{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

func (s *service) GetDir(ctx context.Context, in *rpc.GetDirRequest) (*rpc.GetDirResponse, error) {
	dir, err := s.db.FindDirByID(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.GetDirResponse{ID: dir.ID, Name: dir.Name}, nil
}

func (s *service) GetFiles(ctx context.Context, in *rpc.GetFilesRequest) (*rpc.GetFilesResponse, error) {
	files, err := s.db.FindFilesByDir(ctx, in.DirID)
	if err != nil {
		return nil, toStatus(err)
	}

	out := &rpc.GetFilesResponse{Files: make([]*rpc.GetFileResponse, 0, len(files))}
	for _, f := range files {
		out.Files = append(out.Files, toFileResponse(f))
	}
	return out, nil
}

func (s *service) GetFile(ctx context.Context, in *rpc.GetFileRequest) (*rpc.GetFileResponse, error) {
	file, err := s.db.FindFileByID(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toFileResponse(*file), nil
}

func (s *service) GetFileVersions(ctx context.Context, in *rpc.GetFileVersionsRequest) (*rpc.GetFileVersionsResponse, error) {
	versions, err := s.db.FindVersionsWithTags(ctx, in.FileID)
	if err != nil {
		return nil, toStatus(err)
	}

	out := &rpc.GetFileVersionsResponse{Versions: make([]*rpc.GetFileVersionResponse, 0, len(versions))}
	for _, v := range versions {
		out.Versions = append(out.Versions, toVersionResponse(v))
	}
	return out, nil
}

func (s *service) GetFileVersion(ctx context.Context, in *rpc.GetFileVersionRequest) (*rpc.GetFileVersionResponse, error) {
	v, err := s.db.FindVersionWithTags(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toVersionResponse(*v), nil
}

// Download streams the bytes of a Ready, non-deleted version in
// fixed-size frames.
func (s *service) Download(in *rpc.DownloadRequest, stream rpc.FileQueriesDownloadServer) error {
	ctx := stream.Context()

	meta, err := s.db.FindVersionMetaByID(ctx, in.FileVersionID)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return toStatus(err)
	}

	handle, err := s.storage.Open(meta.StoragePath)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return toStatus(err)
	}
	defer handle.Close()

	buf := make([]byte, DownloadChunkSize)
	for {
		n, err := handle.Read(buf)
		if n > 0 {
			part := &rpc.FilePart{Bytes: buf[:n]}
			if err := stream.Send(part); err != nil {
				metrics.DownloadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
				return err
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.DownloadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			return toStatus(err)
		}
	}

	logger.Debug("download served", "file_version_id", meta.ID, "path", meta.StoragePath)
	metrics.DownloadsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

func toFileResponse(f database.File) *rpc.GetFileResponse {
	return &rpc.GetFileResponse{
		ID:        f.ID,
		DirID:     f.DirID,
		Name:      f.Name,
		MediaType: f.MediaType,
	}
}

func toVersionResponse(v database.VersionWithTags) *rpc.GetFileVersionResponse {
	return &rpc.GetFileVersionResponse{
		ID:        v.ID,
		FileID:    v.FileID,
		Name:      v.Name,
		Size:      v.Size,
		Hash:      v.Hash,
		State:     v.State.String(),
		Tags:      v.Tags,
		IsDeleted: v.DeletedAt != nil,
	}
}
