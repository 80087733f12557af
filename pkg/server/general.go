package server

import (
	"context"

	"github.com/qcdn/qcdn/internal/rpc"
)

// Ping echoes the caller's timestamp.
func (s *service) Ping(ctx context.Context, in *rpc.PingMessage) (*rpc.PingMessage, error) {
	return &rpc.PingMessage{Timestamp: in.Timestamp}, nil
}

// Version reports the build version.
func (s *service) Version(ctx context.Context, _ *rpc.Empty) (*rpc.VersionResponse, error) {
	return &rpc.VersionResponse{Version: s.version}, nil
}
