package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// FileQueriesServer is the read surface: metadata lookups plus the
// streaming download.
type FileQueriesServer interface {
	GetDirs(context.Context, *Empty) (*GetDirsResponse, error)
	GetDir(context.Context, *GetDirRequest) (*GetDirResponse, error)
	GetFiles(context.Context, *GetFilesRequest) (*GetFilesResponse, error)
	GetFile(context.Context, *GetFileRequest) (*GetFileResponse, error)
	GetFileVersions(context.Context, *GetFileVersionsRequest) (*GetFileVersionsResponse, error)
	GetFileVersion(context.Context, *GetFileVersionRequest) (*GetFileVersionResponse, error)
	Download(*DownloadRequest, FileQueriesDownloadServer) error
}

// FileQueriesDownloadServer is the server side of the download stream.
type FileQueriesDownloadServer interface {
	Send(*FilePart) error
	grpc.ServerStream
}

type fileQueriesDownloadServer struct {
	grpc.ServerStream
}

func (s *fileQueriesDownloadServer) Send(m *FilePart) error {
	return s.ServerStream.SendMsg(m)
}

// RegisterFileQueriesServer wires srv into s under qcdn.FileQueries.
func RegisterFileQueriesServer(s grpc.ServiceRegistrar, srv FileQueriesServer) {
	s.RegisterService(&FileQueriesServiceDesc, srv)
}

func fileQueriesGetDirsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileQueriesServer).GetDirs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.FileQueries/GetDirs"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileQueriesServer).GetDirs(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func fileQueriesGetDirHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetDirRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileQueriesServer).GetDir(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.FileQueries/GetDir"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileQueriesServer).GetDir(ctx, req.(*GetDirRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func fileQueriesGetFilesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetFilesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileQueriesServer).GetFiles(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.FileQueries/GetFiles"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileQueriesServer).GetFiles(ctx, req.(*GetFilesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func fileQueriesGetFileHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetFileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileQueriesServer).GetFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.FileQueries/GetFile"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileQueriesServer).GetFile(ctx, req.(*GetFileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func fileQueriesGetFileVersionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetFileVersionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileQueriesServer).GetFileVersions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.FileQueries/GetFileVersions"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileQueriesServer).GetFileVersions(ctx, req.(*GetFileVersionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func fileQueriesGetFileVersionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetFileVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileQueriesServer).GetFileVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/qcdn.FileQueries/GetFileVersion"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileQueriesServer).GetFileVersion(ctx, req.(*GetFileVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func fileQueriesDownloadHandler(srv any, stream grpc.ServerStream) error {
	in := new(DownloadRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(FileQueriesServer).Download(in, &fileQueriesDownloadServer{ServerStream: stream})
}

// FileQueriesServiceDesc is the hand-written descriptor for
// qcdn.FileQueries.
var FileQueriesServiceDesc = grpc.ServiceDesc{
	ServiceName: "qcdn.FileQueries",
	HandlerType: (*FileQueriesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDirs", Handler: fileQueriesGetDirsHandler},
		{MethodName: "GetDir", Handler: fileQueriesGetDirHandler},
		{MethodName: "GetFiles", Handler: fileQueriesGetFilesHandler},
		{MethodName: "GetFile", Handler: fileQueriesGetFileHandler},
		{MethodName: "GetFileVersions", Handler: fileQueriesGetFileVersionsHandler},
		{MethodName: "GetFileVersion", Handler: fileQueriesGetFileVersionHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Download", Handler: fileQueriesDownloadHandler, ServerStreams: true},
	},
}

// FileQueriesClient calls qcdn.FileQueries.
type FileQueriesClient struct {
	cc grpc.ClientConnInterface
}

func NewFileQueriesClient(cc grpc.ClientConnInterface) *FileQueriesClient {
	return &FileQueriesClient{cc: cc}
}

func (c *FileQueriesClient) GetDirs(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetDirsResponse, error) {
	out := new(GetDirsResponse)
	if err := c.cc.Invoke(ctx, "/qcdn.FileQueries/GetDirs", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FileQueriesClient) GetDir(ctx context.Context, in *GetDirRequest, opts ...grpc.CallOption) (*GetDirResponse, error) {
	out := new(GetDirResponse)
	if err := c.cc.Invoke(ctx, "/qcdn.FileQueries/GetDir", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FileQueriesClient) GetFiles(ctx context.Context, in *GetFilesRequest, opts ...grpc.CallOption) (*GetFilesResponse, error) {
	out := new(GetFilesResponse)
	if err := c.cc.Invoke(ctx, "/qcdn.FileQueries/GetFiles", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FileQueriesClient) GetFile(ctx context.Context, in *GetFileRequest, opts ...grpc.CallOption) (*GetFileResponse, error) {
	out := new(GetFileResponse)
	if err := c.cc.Invoke(ctx, "/qcdn.FileQueries/GetFile", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FileQueriesClient) GetFileVersions(ctx context.Context, in *GetFileVersionsRequest, opts ...grpc.CallOption) (*GetFileVersionsResponse, error) {
	out := new(GetFileVersionsResponse)
	if err := c.cc.Invoke(ctx, "/qcdn.FileQueries/GetFileVersions", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FileQueriesClient) GetFileVersion(ctx context.Context, in *GetFileVersionRequest, opts ...grpc.CallOption) (*GetFileVersionResponse, error) {
	out := new(GetFileVersionResponse)
	if err := c.cc.Invoke(ctx, "/qcdn.FileQueries/GetFileVersion", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// FileQueriesDownloadClient is the client side of the download stream.
type FileQueriesDownloadClient interface {
	Recv() (*FilePart, error)
	grpc.ClientStream
}

type fileQueriesDownloadClient struct {
	grpc.ClientStream
}

func (c *fileQueriesDownloadClient) Recv() (*FilePart, error) {
	m := new(FilePart)
	if err := c.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *FileQueriesClient) Download(ctx context.Context, in *DownloadRequest, opts ...grpc.CallOption) (FileQueriesDownloadClient, error) {
	stream, err := c.cc.NewStream(ctx, &FileQueriesServiceDesc.Streams[0], "/qcdn.FileQueries/Download", opts...)
	if err != nil {
		return nil, err
	}
	x := &fileQueriesDownloadClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
