// Package server implements the QCDN gRPC surface: the General,
// FileQueries, FileUpdates and Nodes services backed by the metadata
// store, the blob storage and the replication bus.
package server

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/internal/rpc"
	"github.com/qcdn/qcdn/pkg/database"
	"github.com/qcdn/qcdn/pkg/replication"
	"github.com/qcdn/qcdn/pkg/storage"
)

// DownloadChunkSize is the payload size of one download stream frame.
const DownloadChunkSize = 64 * 1024

// Options configures a Server.
type Options struct {
	Database *database.Database
	Storage  *storage.Storage
	Bus      *replication.Bus
	Version  string
}

// Server owns the grpc.Server and the service implementation behind
// all four QCDN services.
type Server struct {
	grpc *grpc.Server
	svc  *service
}

// service implements rpc.GeneralServer, rpc.FileQueriesServer,
// rpc.FileUpdatesServer and rpc.NodesServer.
type service struct {
	db      *database.Database
	storage *storage.Storage
	bus     *replication.Bus
	version string
}

// New builds a Server with every service registered.
func New(opts Options) *Server {
	svc := &service{
		db:      opts.Database,
		storage: opts.Storage,
		bus:     opts.Bus,
		version: opts.Version,
	}

	gs := grpc.NewServer(grpc.ForceServerCodec(rpc.Codec{}))
	rpc.RegisterGeneralServer(gs, svc)
	rpc.RegisterFileQueriesServer(gs, svc)
	rpc.RegisterFileUpdatesServer(gs, svc)
	rpc.RegisterNodesServer(gs, svc)

	return &Server{grpc: gs, svc: svc}
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully: open streams get to finish, new ones are refused.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			logger.Info("rpc server shutting down")
			s.grpc.GracefulStop()
		case <-stopped:
		}
	}()

	logger.Info("rpc server listening", "addr", lis.Addr().String())
	err := s.grpc.Serve(lis)
	close(stopped)
	return err
}

// Stop stops the server immediately. Tests use it.
func (s *Server) Stop() {
	s.grpc.Stop()
}
