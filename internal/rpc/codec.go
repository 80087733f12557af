// Package rpc defines the QCDN wire surface: the message types from
// the protocol contract, a JSON codec for gRPC framing, and the
// service descriptors plus client stubs for the four services
// (General, FileQueries, FileUpdates, Nodes).
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype the QCDN services speak.
const CodecName = "qcdn-json"

// Codec frames messages as JSON. Byte fields ride as base64,
// timestamps as RFC 3339.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling %T: %w", v, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", v, err)
	}
	return nil
}

func (Codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(Codec{})
}

// DialOption makes a client connection speak the QCDN codec on every
// call.
func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName))
}
