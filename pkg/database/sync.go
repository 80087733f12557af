package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/qcdn/qcdn/pkg/replication"
)

// Replication catch-up queries. A follower reconnecting with a
// last-known timestamp replays everything that happened after it from
// these three sources, merged in ascending timestamp order.

// UploadedSince returns an Uploaded event for every Ready version
// created after ts.
func (d *Database) UploadedSince(ctx context.Context, ts time.Time) ([]replication.Event, error) {
	var rows []struct {
		FileVersionID int64
		FileID        int64
		DirID         int64
		CreatedAt     time.Time
	}
	err := d.db.WithContext(ctx).Raw(
		`SELECT fv.id AS file_version_id, f.id AS file_id, f.dir_id, fv.created_at
		 FROM file_version fv
		 INNER JOIN file f ON f.id = fv.file_id
		 WHERE fv.state = ? AND fv.created_at > ?
		 ORDER BY fv.created_at`,
		StateReady, ts,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying uploads since %s: %w", ts, err)
	}

	events := make([]replication.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, replication.Event{
			Timestamp:     r.CreatedAt,
			Kind:          replication.KindUploaded,
			FileVersionID: r.FileVersionID,
			DirID:         r.DirID,
			FileID:        r.FileID,
		})
	}
	return events, nil
}

// TaggedSince returns a Tagged event for every tag activated after ts.
func (d *Database) TaggedSince(ctx context.Context, ts time.Time) ([]replication.Event, error) {
	var rows []struct {
		FileVersionID int64
		Name          string
		ActivatedAt   time.Time
	}
	err := d.db.WithContext(ctx).Raw(
		`SELECT fvt.file_version_id, fvt.name, fvt.activated_at
		 FROM file_version_tag fvt
		 WHERE fvt.activated_at > ?
		 ORDER BY fvt.activated_at`,
		ts,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying tags since %s: %w", ts, err)
	}

	events := make([]replication.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, replication.Event{
			Timestamp:     r.ActivatedAt,
			Kind:          replication.KindTagged,
			FileVersionID: r.FileVersionID,
			Tag:           r.Name,
		})
	}
	return events, nil
}

// DeletedSince returns a Deleted event for every version soft-deleted
// after ts.
func (d *Database) DeletedSince(ctx context.Context, ts time.Time) ([]replication.Event, error) {
	var rows []struct {
		FileVersionID int64
		DeletedAt     time.Time
	}
	err := d.db.WithContext(ctx).Raw(
		`SELECT fv.id AS file_version_id, fv.deleted_at
		 FROM file_version fv
		 WHERE fv.deleted_at IS NOT NULL AND fv.deleted_at > ?
		 ORDER BY fv.deleted_at`,
		ts,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying deletes since %s: %w", ts, err)
	}

	events := make([]replication.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, replication.Event{
			Timestamp:     r.DeletedAt,
			Kind:          replication.KindDeleted,
			FileVersionID: r.FileVersionID,
		})
	}
	return events, nil
}

// EventsSince merges the three catch-up sources into one
// timestamp-ascending slice. The sort is stable so events sharing a
// timestamp keep their per-source order.
func (d *Database) EventsSince(ctx context.Context, ts time.Time) ([]replication.Event, error) {
	uploaded, err := d.UploadedSince(ctx, ts)
	if err != nil {
		return nil, err
	}
	tagged, err := d.TaggedSince(ctx, ts)
	if err != nil {
		return nil, err
	}
	deleted, err := d.DeletedSince(ctx, ts)
	if err != nil {
		return nil, err
	}

	events := make([]replication.Event, 0, len(uploaded)+len(tagged)+len(deleted))
	events = append(events, uploaded...)
	events = append(events, tagged...)
	events = append(events, deleted...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}
