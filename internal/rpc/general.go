package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// GeneralServer is the liveness surface every node exposes.
type GeneralServer interface {
	Ping(context.Context, *PingMessage) (*PingMessage, error)
	Version(context.Context, *Empty) (*VersionResponse, error)
}

// RegisterGeneralServer wires srv into s under qcdn.General.
func RegisterGeneralServer(s grpc.ServiceRegistrar, srv GeneralServer) {
	s.RegisterService(&GeneralServiceDesc, srv)
}

func generalPingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PingMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GeneralServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.General/Ping"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GeneralServer).Ping(ctx, req.(*PingMessage))
	}
	return interceptor(ctx, in, info, handler)
}

func generalVersionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GeneralServer).Version(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.General/Version"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GeneralServer).Version(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// GeneralServiceDesc is the hand-written descriptor for qcdn.General.
var GeneralServiceDesc = grpc.ServiceDesc{
	ServiceName: "qcdn.General",
	HandlerType: (*GeneralServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: generalPingHandler},
		{MethodName: "Version", Handler: generalVersionHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// GeneralClient calls qcdn.General.
type GeneralClient struct {
	cc grpc.ClientConnInterface
}

func NewGeneralClient(cc grpc.ClientConnInterface) *GeneralClient {
	return &GeneralClient{cc: cc}
}

func (c *GeneralClient) Ping(ctx context.Context, in *PingMessage, opts ...grpc.CallOption) (*PingMessage, error) {
	out := new(PingMessage)
	if err := c.cc.Invoke(ctx, "/qcdn.General/Ping", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GeneralClient) Version(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*VersionResponse, error) {
	out := new(VersionResponse)
	if err := c.cc.Invoke(ctx, "/qcdn.General/Version", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
