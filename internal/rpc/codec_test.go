package rpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecIsRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodecRoundTripsOneofFrames(t *testing.T) {
	c := Codec{}

	in := &UploadRequest{Meta: &UploadMeta{
		Dir:       "assets",
		Name:      "logo.png",
		MediaType: "image/png",
		Version:   "1.0.0",
		Size:      42,
		Hash:      "aGFzaA==",
	}}
	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out UploadRequest
	require.NoError(t, c.Unmarshal(data, &out))
	require.NotNil(t, out.Meta)
	assert.Nil(t, out.Part)
	assert.Equal(t, *in.Meta, *out.Meta)
}

func TestCodecCarriesRawBytes(t *testing.T) {
	c := Codec{}

	payload := []byte{0x00, 0xff, 0x10, 0x80}
	data, err := c.Marshal(&UploadRequest{Part: &FilePart{Bytes: payload}})
	require.NoError(t, err)

	var out UploadRequest
	require.NoError(t, c.Unmarshal(data, &out))
	require.NotNil(t, out.Part)
	assert.Equal(t, payload, out.Part.Bytes)
}

func TestSyncMessageTimestampsSurviveRoundTrip(t *testing.T) {
	c := Codec{}
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	data, err := c.Marshal(&SyncMessage{
		Timestamp: ts,
		Tagged:    &VersionTagged{FileVersionID: 3, Name: "latest"},
	})
	require.NoError(t, err)

	var out SyncMessage
	require.NoError(t, c.Unmarshal(data, &out))
	assert.True(t, out.Timestamp.Equal(ts))
	require.NotNil(t, out.Tagged)
	assert.Nil(t, out.Uploaded)
	assert.Equal(t, "latest", out.Tagged.Name)
}
