package server

import (
	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/internal/rpc"
	"github.com/qcdn/qcdn/pkg/metrics"
	"github.com/qcdn/qcdn/pkg/replication"
)

// ConnectNode serves the replication feed. The follower subscribes to
// live events before history is replayed, so nothing committed during
// catch-up is missed; the price is possible duplicates around the
// boundary, which followers dedupe by (kind, version id, timestamp).
func (s *service) ConnectNode(in *rpc.ConnectionRequest, stream rpc.NodesConnectNodeServer) error {
	ctx := stream.Context()

	events, cancel := s.bus.Subscribe()
	defer cancel()

	metrics.ReplicationSubscribers.Inc()
	defer metrics.ReplicationSubscribers.Dec()

	logger.Info("replication follower connected", "catch_up", in.Timestamp != nil)

	if in.Timestamp != nil {
		history, err := s.db.EventsSince(ctx, *in.Timestamp)
		if err != nil {
			return toStatus(err)
		}
		for _, ev := range history {
			if err := stream.Send(toSyncMessage(ev)); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("replication follower disconnected")
			return nil
		case ev, ok := <-events:
			if !ok {
				// Dropped for falling behind; the follower reconnects
				// with its last-seen timestamp.
				logger.Warn("replication follower dropped")
				return nil
			}
			if err := stream.Send(toSyncMessage(ev)); err != nil {
				return err
			}
		}
	}
}

func toSyncMessage(ev replication.Event) *rpc.SyncMessage {
	m := &rpc.SyncMessage{Timestamp: ev.Timestamp}
	switch ev.Kind {
	case replication.KindUploaded:
		m.Uploaded = &rpc.UploadedVersion{
			DirID:         ev.DirID,
			FileID:        ev.FileID,
			FileVersionID: ev.FileVersionID,
		}
	case replication.KindTagged:
		m.Tagged = &rpc.VersionTagged{
			FileVersionID: ev.FileVersionID,
			Name:          ev.Tag,
		}
	case replication.KindDeleted:
		m.Deleted = &rpc.DeletedVersion{
			FileVersionID: ev.FileVersionID,
		}
	}
	return m
}
