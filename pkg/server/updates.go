package server

import (
	"context"
	"errors"
	"io"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/internal/rpc"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/errtypes"
	"github.com/qcdn/qcdn/pkg/metrics"
	"github.com/qcdn/qcdn/pkg/replication"
	"github.com/qcdn/qcdn/pkg/upload"
)

// Upload consumes the client stream: one metadata frame, then content
// parts, then end-of-stream. A first frame that is not metadata fails
// the precondition; violations after that abort the stream and
// everything the upload created is compensated away.
func (s *service) Upload(stream rpc.FileUpdatesUploadServer) error {
	res, err := s.consumeUpload(stream)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return toStatus(err)
	}

	s.bus.Publish(replication.Event{
		Timestamp:     res.Version.CreatedAt,
		Kind:          replication.KindUploaded,
		FileVersionID: res.FileVersionID,
		DirID:         res.DirID,
		FileID:        res.FileID,
	})
	metrics.UploadsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	return stream.SendAndClose(&rpc.UploadResponse{
		DirID:         res.DirID,
		FileID:        res.FileID,
		FileVersionID: res.FileVersionID,
	})
}

func (s *service) consumeUpload(stream rpc.FileUpdatesUploadServer) (*upload.Result, error) {
	ctx := stream.Context()
	pending := upload.NewPending(s.storage, s.db)

	var transfer *upload.Transfer
	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			if transfer == nil {
				return nil, errtypes.Precondition("meta must be first")
			}
			return transfer.Finish(ctx)
		}
		if err != nil {
			// Client went away mid-stream.
			if transfer != nil {
				transfer.Abort(ctx)
			}
			return nil, err
		}

		switch {
		case req.Meta != nil && req.Part != nil:
			if transfer == nil {
				return nil, errtypes.Precondition("meta must be first")
			}
			transfer.Abort(ctx)
			return nil, errtypes.Aborted("frame carries both metadata and content")

		case req.Meta != nil:
			if transfer != nil {
				transfer.Abort(ctx)
				return nil, errtypes.Aborted("metadata sent twice")
			}
			transfer, err = pending.Meta(ctx, upload.Meta{
				Dir:       req.Meta.Dir,
				Name:      req.Meta.Name,
				MediaType: req.Meta.MediaType,
				Version:   req.Meta.Version,
				Size:      req.Meta.Size,
				Hash:      req.Meta.Hash,
			})
			if err != nil {
				return nil, err
			}

		case req.Part != nil:
			if transfer == nil {
				return nil, errtypes.Precondition("meta must be first")
			}
			if err := transfer.Part(ctx, req.Part.Bytes); err != nil {
				return nil, err
			}
			metrics.UploadBytesTotal.Add(float64(len(req.Part.Bytes)))

		default:
			if transfer == nil {
				return nil, errtypes.Precondition("meta must be first")
			}
			transfer.Abort(ctx)
			return nil, errtypes.Aborted("empty upload frame")
		}
	}
}

// TagVersion points a tag at a Ready version, moving it from whatever
// version of the same file it tagged before.
func (s *service) TagVersion(ctx context.Context, in *rpc.TagVersionRequest) (*rpc.Empty, error) {
	if in.Name == "" {
		return nil, toStatus(errtypes.Precondition("tag name must be set"))
	}

	v, err := s.db.FindVersionByID(ctx, in.FileVersionID)
	if err != nil {
		return nil, toStatus(err)
	}
	if v.State != database.StateReady || v.DeletedAt != nil {
		return nil, toStatus(errtypes.Precondition("only ready, non-deleted versions can be tagged"))
	}

	tag, err := s.db.CreateOrMoveTag(ctx, v.FileID, v.ID, in.Name)
	if err != nil {
		return nil, toStatus(err)
	}

	s.bus.Publish(replication.Event{
		Timestamp:     tag.ActivatedAt,
		Kind:          replication.KindTagged,
		FileVersionID: v.ID,
		Tag:           tag.Name,
	})

	logger.Info("version tagged", "file_version_id", v.ID, "tag", tag.Name)
	return &rpc.Empty{}, nil
}

// DeleteFileVersion soft-deletes a Ready version. The bytes stay on
// disk; the version drops out of the read paths.
func (s *service) DeleteFileVersion(ctx context.Context, in *rpc.DeleteFileVersionRequest) (*rpc.Empty, error) {
	deletedAt, err := s.db.SoftDeleteVersion(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}

	s.bus.Publish(replication.Event{
		Timestamp:     deletedAt,
		Kind:          replication.KindDeleted,
		FileVersionID: in.ID,
	})

	logger.Info("version deleted", "file_version_id", in.ID)
	return &rpc.Empty{}, nil
}
