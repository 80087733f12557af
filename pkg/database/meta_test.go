package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindVersionsWithTags(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, f, v1 := seedVersion(t, db, "assets", "logo.png", "1.0.0")
	v2, err := db.CreateVersion(ctx, f.ID, 5, "hash2", "2.0.0")
	require.NoError(t, err)
	require.NoError(t, db.UpdateVersionState(ctx, v2.ID, StateReady))

	_, err = db.CreateOrMoveTag(ctx, f.ID, v1.ID, "stable")
	require.NoError(t, err)
	_, err = db.CreateOrMoveTag(ctx, f.ID, v2.ID, "latest")
	require.NoError(t, err)

	versions, err := db.FindVersionsWithTags(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, []string{"stable"}, versions[0].Tags)
	assert.Equal(t, []string{"latest"}, versions[1].Tags)
}

func TestFindVersionsWithTagsIncludesSoftDeleted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, f, v := seedVersion(t, db, "assets", "logo.png", "1.0.0")
	_, err := db.SoftDeleteVersion(ctx, v.ID)
	require.NoError(t, err)

	versions, err := db.FindVersionsWithTags(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.NotNil(t, versions[0].DeletedAt)
}

func TestFindVersionMetaByID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	d, f, v := seedVersion(t, db, "assets", "logo.png", "1.0.0")

	meta, err := db.FindVersionMetaByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, meta.ID)
	assert.Equal(t, "application/octet-stream", meta.MediaType)
	assert.Equal(t, "hash", meta.Hash)
	assert.Equal(t, fmt.Sprintf("%d/%d/%d", d.ID, f.ID, v.ID), meta.StoragePath)
}

func TestFindVersionMetaByIDExcludesDeleted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, _, v := seedVersion(t, db, "assets", "logo.png", "1.0.0")
	_, err := db.SoftDeleteVersion(ctx, v.ID)
	require.NoError(t, err)

	_, err = db.FindVersionMetaByID(ctx, v.ID)
	assert.True(t, isNotFoundErr(err))
}

func TestFindVersionMetaByPath(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, f, v := seedVersion(t, db, "assets", "logo.png", "1.0.0")
	_, err := db.CreateOrMoveTag(ctx, f.ID, v.ID, "latest")
	require.NoError(t, err)

	// By version name.
	meta, err := db.FindVersionMetaByPath(ctx, "assets", "logo.png", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, v.ID, meta.ID)

	// By tag.
	meta, err = db.FindVersionMetaByPath(ctx, "assets", "logo.png", "latest")
	require.NoError(t, err)
	assert.Equal(t, v.ID, meta.ID)

	// Unknown last element.
	_, err = db.FindVersionMetaByPath(ctx, "assets", "logo.png", "nope")
	assert.True(t, isNotFoundErr(err))

	// Unknown dir.
	_, err = db.FindVersionMetaByPath(ctx, "missing", "logo.png", "1.0.0")
	assert.True(t, isNotFoundErr(err))
}

func TestFindVersionMetaByPathSkipsDownloading(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	d, err := db.UpsertDir(ctx, "assets")
	require.NoError(t, err)
	f, err := db.UpsertFile(ctx, d.ID, "logo.png", "image/png")
	require.NoError(t, err)
	_, err = db.CreateVersion(ctx, f.ID, 5, "h", "1.0.0")
	require.NoError(t, err)

	// A version still transferring is invisible on the read path.
	_, err = db.FindVersionMetaByPath(ctx, "assets", "logo.png", "1.0.0")
	assert.True(t, isNotFoundErr(err))
}
