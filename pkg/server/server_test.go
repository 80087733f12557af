package server

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/qcdn/qcdn/internal/rpc"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/replication"
	"github.com/qcdn/qcdn/pkg/storage"
)

type testNode struct {
	conn    *grpc.ClientConn
	general *rpc.GeneralClient
	queries *rpc.FileQueriesClient
	updates *rpc.FileUpdatesClient
	nodes   *rpc.NodesClient
}

// newTestNode spins up a full writer node on an in-memory listener.
func newTestNode(t *testing.T) *testNode {
	t.Helper()

	st, err := storage.New(t.TempDir(), storage.SubdirName)
	require.NoError(t, err)
	db, err := database.Open(":memory:", database.ModeReadWrite)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := New(Options{
		Database: db,
		Storage:  st,
		Bus:      replication.NewBus(0),
		Version:  "test",
	})

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = srv.Serve(ctx, lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		rpc.DialOption(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testNode{
		conn:    conn,
		general: rpc.NewGeneralClient(conn),
		queries: rpc.NewFileQueriesClient(conn),
		updates: rpc.NewFileUpdatesClient(conn),
		nodes:   rpc.NewNodesClient(conn),
	}
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func metaFor(content []byte) *rpc.UploadMeta {
	return &rpc.UploadMeta{
		Dir:       "assets",
		Name:      "logo.png",
		MediaType: "image/png",
		Version:   "1.0.0",
		Size:      int64(len(content)),
		Hash:      hashOf(content),
	}
}

// upload drives a complete upload stream. Send errors are ignored so
// the status comes out of CloseAndRecv, where gRPC reports it.
func (n *testNode) upload(ctx context.Context, meta *rpc.UploadMeta, content []byte) (*rpc.UploadResponse, error) {
	stream, err := n.updates.Upload(ctx)
	if err != nil {
		return nil, err
	}
	_ = stream.Send(&rpc.UploadRequest{Meta: meta})
	for len(content) > 0 {
		chunk := content
		if len(chunk) > 4 {
			chunk = chunk[:4]
		}
		_ = stream.Send(&rpc.UploadRequest{Part: &rpc.FilePart{Bytes: chunk}})
		content = content[len(chunk):]
	}
	return stream.CloseAndRecv()
}

func (n *testNode) download(ctx context.Context, id int64) ([]byte, error) {
	stream, err := n.queries.Download(ctx, &rpc.DownloadRequest{FileVersionID: id})
	if err != nil {
		return nil, err
	}
	var out []byte
	for {
		part, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, part.Bytes...)
	}
}

func TestPingEchoesTimestamp(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()

	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	pong, err := node.general.Ping(ctx, &rpc.PingMessage{Timestamp: ts})
	require.NoError(t, err)
	assert.True(t, pong.Timestamp.Equal(ts))

	version, err := node.general.Version(ctx, &rpc.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "test", version.Version)
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()
	content := []byte("the quick brown fox")

	res, err := node.upload(ctx, metaFor(content), content)
	require.NoError(t, err)
	require.NotZero(t, res.FileVersionID)

	got, err := node.download(ctx, res.FileVersionID)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// The hierarchy is queryable.
	dirs, err := node.queries.GetDirs(ctx, &rpc.Empty{})
	require.NoError(t, err)
	require.Len(t, dirs.Dirs, 1)
	assert.Equal(t, "assets", dirs.Dirs[0].Name)

	files, err := node.queries.GetFiles(ctx, &rpc.GetFilesRequest{DirID: res.DirID})
	require.NoError(t, err)
	require.Len(t, files.Files, 1)
	assert.Equal(t, "logo.png", files.Files[0].Name)
	assert.Equal(t, "image/png", files.Files[0].MediaType)

	versions, err := node.queries.GetFileVersions(ctx, &rpc.GetFileVersionsRequest{FileID: res.FileID})
	require.NoError(t, err)
	require.Len(t, versions.Versions, 1)
	assert.Equal(t, "1.0.0", versions.Versions[0].Name)
	assert.Equal(t, "ready", versions.Versions[0].State)
	assert.False(t, versions.Versions[0].IsDeleted)
}

func TestUploadHashMismatchIsDataLoss(t *testing.T) {
	node := newTestNode(t)
	content := []byte("actual content")

	meta := metaFor(content)
	meta.Hash = hashOf([]byte("declared content"))

	_, err := node.upload(context.Background(), meta, content)
	require.Error(t, err)
	assert.Equal(t, codes.DataLoss, status.Code(err))

	// Nothing was committed.
	dirs, err := node.queries.GetDirs(context.Background(), &rpc.Empty{})
	require.NoError(t, err)
	assert.Empty(t, dirs.Dirs)
}

func TestUploadDuplicateVersionIsFailedPrecondition(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()
	content := []byte("content")

	_, err := node.upload(ctx, metaFor(content), content)
	require.NoError(t, err)

	_, err = node.upload(ctx, metaFor(content), content)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestUploadPartBeforeMetaIsFailedPrecondition(t *testing.T) {
	node := newTestNode(t)

	stream, err := node.updates.Upload(context.Background())
	require.NoError(t, err)
	_ = stream.Send(&rpc.UploadRequest{Part: &rpc.FilePart{Bytes: []byte("x")}})
	_, err = stream.CloseAndRecv()
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestUploadEmptyStreamIsFailedPrecondition(t *testing.T) {
	node := newTestNode(t)

	stream, err := node.updates.Upload(context.Background())
	require.NoError(t, err)
	_, err = stream.CloseAndRecv()
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestUploadMetaTwiceIsAborted(t *testing.T) {
	node := newTestNode(t)
	content := []byte("content")

	stream, err := node.updates.Upload(context.Background())
	require.NoError(t, err)
	_ = stream.Send(&rpc.UploadRequest{Meta: metaFor(content)})
	_ = stream.Send(&rpc.UploadRequest{Meta: metaFor(content)})
	_, err = stream.CloseAndRecv()
	assert.Equal(t, codes.Aborted, status.Code(err))

	// The half-open upload was compensated; the name is still free.
	_, err = node.upload(context.Background(), metaFor(content), content)
	assert.NoError(t, err)
}

func TestDownloadUnknownVersionIsNotFound(t *testing.T) {
	node := newTestNode(t)

	_, err := node.download(context.Background(), 404)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestTagVersionAndMove(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()

	first := []byte("v1 bytes")
	res1, err := node.upload(ctx, metaFor(first), first)
	require.NoError(t, err)

	second := []byte("v2 bytes!")
	meta2 := metaFor(second)
	meta2.Version = "2.0.0"
	res2, err := node.upload(ctx, meta2, second)
	require.NoError(t, err)

	_, err = node.updates.TagVersion(ctx, &rpc.TagVersionRequest{FileVersionID: res1.FileVersionID, Name: "latest"})
	require.NoError(t, err)

	_, err = node.updates.TagVersion(ctx, &rpc.TagVersionRequest{FileVersionID: res2.FileVersionID, Name: "latest"})
	require.NoError(t, err)

	v1, err := node.queries.GetFileVersion(ctx, &rpc.GetFileVersionRequest{ID: res1.FileVersionID})
	require.NoError(t, err)
	assert.Empty(t, v1.Tags)

	v2, err := node.queries.GetFileVersion(ctx, &rpc.GetFileVersionRequest{ID: res2.FileVersionID})
	require.NoError(t, err)
	assert.Equal(t, []string{"latest"}, v2.Tags)
}

func TestTagUnknownVersionIsNotFound(t *testing.T) {
	node := newTestNode(t)

	_, err := node.updates.TagVersion(context.Background(), &rpc.TagVersionRequest{FileVersionID: 404, Name: "latest"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestDeleteFileVersion(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()
	content := []byte("content")

	res, err := node.upload(ctx, metaFor(content), content)
	require.NoError(t, err)

	_, err = node.updates.DeleteFileVersion(ctx, &rpc.DeleteFileVersionRequest{ID: res.FileVersionID})
	require.NoError(t, err)

	// Gone from the read path.
	_, err = node.download(ctx, res.FileVersionID)
	assert.Equal(t, codes.NotFound, status.Code(err))

	// Still listed, marked deleted.
	versions, err := node.queries.GetFileVersions(ctx, &rpc.GetFileVersionsRequest{FileID: res.FileID})
	require.NoError(t, err)
	require.Len(t, versions.Versions, 1)
	assert.True(t, versions.Versions[0].IsDeleted)

	// Double delete fails.
	_, err = node.updates.DeleteFileVersion(ctx, &rpc.DeleteFileVersionRequest{ID: res.FileVersionID})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestReplicationCatchUpAndLive(t *testing.T) {
	node := newTestNode(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	content := []byte("replicated content")
	res, err := node.upload(ctx, metaFor(content), content)
	require.NoError(t, err)

	// Connect with a cursor before the upload: it replays from
	// history.
	since := time.Now().UTC().Add(-time.Minute)
	feed, err := node.nodes.ConnectNode(ctx, &rpc.ConnectionRequest{Timestamp: &since})
	require.NoError(t, err)

	msg, err := feed.Recv()
	require.NoError(t, err)
	require.NotNil(t, msg.Uploaded)
	assert.Equal(t, res.FileVersionID, msg.Uploaded.FileVersionID)
	assert.Equal(t, res.DirID, msg.Uploaded.DirID)

	// A tag move lands live on the open feed.
	_, err = node.updates.TagVersion(ctx, &rpc.TagVersionRequest{FileVersionID: res.FileVersionID, Name: "latest"})
	require.NoError(t, err)

	msg, err = feed.Recv()
	require.NoError(t, err)
	require.NotNil(t, msg.Tagged)
	assert.Equal(t, "latest", msg.Tagged.Name)

	// So does a delete.
	_, err = node.updates.DeleteFileVersion(ctx, &rpc.DeleteFileVersionRequest{ID: res.FileVersionID})
	require.NoError(t, err)

	msg, err = feed.Recv()
	require.NoError(t, err)
	require.NotNil(t, msg.Deleted)
	assert.Equal(t, res.FileVersionID, msg.Deleted.FileVersionID)
}

func TestReplicationLiveOnly(t *testing.T) {
	node := newTestNode(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Upload before connecting; a live-only follower must not see it.
	content := []byte("old content")
	_, err := node.upload(ctx, metaFor(content), content)
	require.NoError(t, err)

	feed, err := node.nodes.ConnectNode(ctx, &rpc.ConnectionRequest{})
	require.NoError(t, err)

	// Give the stream handler a moment to subscribe before the next
	// write; live-only has no history to fall back on.
	pingCtx, pingCancel := context.WithTimeout(ctx, time.Second)
	defer pingCancel()
	_, _ = node.general.Ping(pingCtx, &rpc.PingMessage{Timestamp: time.Now()})
	time.Sleep(50 * time.Millisecond)

	newContent := []byte("new content")
	meta := metaFor(newContent)
	meta.Version = "2.0.0"
	res, err := node.upload(ctx, meta, newContent)
	require.NoError(t, err)

	msg, err := feed.Recv()
	require.NoError(t, err)
	require.NotNil(t, msg.Uploaded)
	assert.Equal(t, res.FileVersionID, msg.Uploaded.FileVersionID)
}
