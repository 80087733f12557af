package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// NodesServer is the replication surface followers connect to.
type NodesServer interface {
	ConnectNode(*ConnectionRequest, NodesConnectNodeServer) error
}

// NodesConnectNodeServer is the server side of the replication feed.
type NodesConnectNodeServer interface {
	Send(*SyncMessage) error
	grpc.ServerStream
}

type nodesConnectNodeServer struct {
	grpc.ServerStream
}

func (s *nodesConnectNodeServer) Send(m *SyncMessage) error {
	return s.ServerStream.SendMsg(m)
}

// RegisterNodesServer wires srv into s under qcdn.Nodes.
func RegisterNodesServer(s grpc.ServiceRegistrar, srv NodesServer) {
	s.RegisterService(&NodesServiceDesc, srv)
}

func nodesConnectNodeHandler(srv any, stream grpc.ServerStream) error {
	in := new(ConnectionRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(NodesServer).ConnectNode(in, &nodesConnectNodeServer{ServerStream: stream})
}

// NodesServiceDesc is the hand-written descriptor for qcdn.Nodes.
var NodesServiceDesc = grpc.ServiceDesc{
	ServiceName: "qcdn.Nodes",
	HandlerType: (*NodesServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{StreamName: "ConnectNode", Handler: nodesConnectNodeHandler, ServerStreams: true},
	},
}

// NodesClient calls qcdn.Nodes.
type NodesClient struct {
	cc grpc.ClientConnInterface
}

func NewNodesClient(cc grpc.ClientConnInterface) *NodesClient {
	return &NodesClient{cc: cc}
}

// NodesConnectNodeClient is the client side of the replication feed.
type NodesConnectNodeClient interface {
	Recv() (*SyncMessage, error)
	grpc.ClientStream
}

type nodesConnectNodeClient struct {
	grpc.ClientStream
}

func (c *nodesConnectNodeClient) Recv() (*SyncMessage, error) {
	m := new(SyncMessage)
	if err := c.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *NodesClient) ConnectNode(ctx context.Context, in *ConnectionRequest, opts ...grpc.CallOption) (NodesConnectNodeClient, error) {
	stream, err := c.cc.NewStream(ctx, &NodesServiceDesc.Streams[0], "/qcdn.Nodes/ConnectNode", opts...)
	if err != nil {
		return nil, err
	}
	x := &nodesConnectNodeClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
