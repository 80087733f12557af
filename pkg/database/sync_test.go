package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcdn/qcdn/pkg/replication"
)

func TestEventsSinceReplaysAllKinds(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Minute)

	_, f, v := seedVersion(t, db, "assets", "logo.png", "1.0.0")
	_, err := db.CreateOrMoveTag(ctx, f.ID, v.ID, "latest")
	require.NoError(t, err)
	_, err = db.SoftDeleteVersion(ctx, v.ID)
	require.NoError(t, err)

	events, err := db.EventsSince(ctx, start)
	require.NoError(t, err)
	require.Len(t, events, 3)

	kinds := []replication.Kind{events[0].Kind, events[1].Kind, events[2].Kind}
	assert.Contains(t, kinds, replication.KindUploaded)
	assert.Contains(t, kinds, replication.KindTagged)
	assert.Contains(t, kinds, replication.KindDeleted)

	// Ascending by timestamp.
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.Before(events[i-1].Timestamp))
	}
}

func TestEventsSinceCutsOffAtTimestamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedVersion(t, db, "assets", "logo.png", "1.0.0")

	// A cursor after everything sees nothing.
	future := time.Now().UTC().Add(time.Minute)
	events, err := db.EventsSince(ctx, future)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUploadedSinceSkipsDownloading(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Minute)

	d, err := db.UpsertDir(ctx, "assets")
	require.NoError(t, err)
	f, err := db.UpsertFile(ctx, d.ID, "logo.png", "image/png")
	require.NoError(t, err)
	_, err = db.CreateVersion(ctx, f.ID, 5, "h", "1.0.0")
	require.NoError(t, err)

	events, err := db.UploadedSince(ctx, start)
	require.NoError(t, err)
	assert.Empty(t, events, "only Ready versions replicate")
}

func TestTaggedSinceCarriesTagName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Minute)

	_, f, v := seedVersion(t, db, "assets", "logo.png", "1.0.0")
	_, err := db.CreateOrMoveTag(ctx, f.ID, v.ID, "latest")
	require.NoError(t, err)

	events, err := db.TaggedSince(ctx, start)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "latest", events[0].Tag)
	assert.Equal(t, v.ID, events[0].FileVersionID)
}
