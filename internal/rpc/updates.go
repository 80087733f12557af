package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// FileUpdatesServer is the write surface: streaming uploads, tag
// moves and soft deletes.
type FileUpdatesServer interface {
	Upload(FileUpdatesUploadServer) error
	TagVersion(context.Context, *TagVersionRequest) (*Empty, error)
	DeleteFileVersion(context.Context, *DeleteFileVersionRequest) (*Empty, error)
}

// FileUpdatesUploadServer is the server side of the upload stream.
type FileUpdatesUploadServer interface {
	SendAndClose(*UploadResponse) error
	Recv() (*UploadRequest, error)
	grpc.ServerStream
}

type fileUpdatesUploadServer struct {
	grpc.ServerStream
}

func (s *fileUpdatesUploadServer) SendAndClose(m *UploadResponse) error {
	return s.ServerStream.SendMsg(m)
}

func (s *fileUpdatesUploadServer) Recv() (*UploadRequest, error) {
	m := new(UploadRequest)
	if err := s.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterFileUpdatesServer wires srv into s under qcdn.FileUpdates.
func RegisterFileUpdatesServer(s grpc.ServiceRegistrar, srv FileUpdatesServer) {
	s.RegisterService(&FileUpdatesServiceDesc, srv)
}

func fileUpdatesUploadHandler(srv any, stream grpc.ServerStream) error {
	return srv.(FileUpdatesServer).Upload(&fileUpdatesUploadServer{ServerStream: stream})
}

func fileUpdatesTagVersionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(TagVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileUpdatesServer).TagVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.FileUpdates/TagVersion"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileUpdatesServer).TagVersion(ctx, req.(*TagVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func fileUpdatesDeleteFileVersionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteFileVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileUpdatesServer).DeleteFileVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.FileUpdates/DeleteFileVersion"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileUpdatesServer).DeleteFileVersion(ctx, req.(*DeleteFileVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// FileUpdatesServiceDesc is the hand-written descriptor for
// qcdn.FileUpdates.
var FileUpdatesServiceDesc = grpc.ServiceDesc{
	ServiceName: "qcdn.FileUpdates",
	HandlerType: (*FileUpdatesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "TagVersion", Handler: fileUpdatesTagVersionHandler},
		{MethodName: "DeleteFileVersion", Handler: fileUpdatesDeleteFileVersionHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Upload", Handler: fileUpdatesUploadHandler, ClientStreams: true},
	},
}

// FileUpdatesClient calls qcdn.FileUpdates.
type FileUpdatesClient struct {
	cc grpc.ClientConnInterface
}

func NewFileUpdatesClient(cc grpc.ClientConnInterface) *FileUpdatesClient {
	return &FileUpdatesClient{cc: cc}
}

// FileUpdatesUploadClient is the client side of the upload stream.
type FileUpdatesUploadClient interface {
	Send(*UploadRequest) error
	CloseAndRecv() (*UploadResponse, error)
	grpc.ClientStream
}

type fileUpdatesUploadClient struct {
	grpc.ClientStream
}

func (c *fileUpdatesUploadClient) Send(m *UploadRequest) error {
	return c.ClientStream.SendMsg(m)
}

func (c *fileUpdatesUploadClient) CloseAndRecv() (*UploadResponse, error) {
	if err := c.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(UploadResponse)
	if err := c.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *FileUpdatesClient) Upload(ctx context.Context, opts ...grpc.CallOption) (FileUpdatesUploadClient, error) {
	stream, err := c.cc.NewStream(ctx, &FileUpdatesServiceDesc.Streams[0], "/qcdn.FileUpdates/Upload", opts...)
	if err != nil {
		return nil, err
	}
	return &fileUpdatesUploadClient{ClientStream: stream}, nil
}

func (c *FileUpdatesClient) TagVersion(ctx context.Context, in *TagVersionRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/qcdn.FileUpdates/TagVersion", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FileUpdatesClient) DeleteFileVersion(ctx context.Context, in *DeleteFileVersionRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/qcdn.FileUpdates/DeleteFileVersion", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
