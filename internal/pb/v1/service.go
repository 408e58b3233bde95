package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "annunciator.v1.AnnunciatorService"

// LinkServiceName is the health service reporting the serial link.
const LinkServiceName = "annunciator.v1.Link"

// Full method names of the AnnunciatorService.
const (
	GetStatusFullMethodName   = "/" + ServiceName + "/GetStatus"
	SubmitFrameFullMethodName = "/" + ServiceName + "/SubmitFrame"
	ToggleMuteFullMethodName  = "/" + ServiceName + "/ToggleMute"
)

// AnnunciatorServiceClient is the client API for AnnunciatorService.
type AnnunciatorServiceClient interface {
	// GetStatus returns the current alarm status of the unit.
	GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	// SubmitFrame feeds raw bytes to the receive framer as if they came over the link.
	SubmitFrame(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	// ToggleMute presses the mute button.
	ToggleMute(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type annunciatorServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAnnunciatorServiceClient creates a client bound to the connection.
func NewAnnunciatorServiceClient(cc grpc.ClientConnInterface) AnnunciatorServiceClient {
	return &annunciatorServiceClient{cc: cc}
}

func (c *annunciatorServiceClient) GetStatus(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStatusFullMethodName, in, out, staticMethod(opts)...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *annunciatorServiceClient) SubmitFrame(
	ctx context.Context,
	in *wrapperspb.BytesValue,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SubmitFrameFullMethodName, in, out, staticMethod(opts)...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *annunciatorServiceClient) ToggleMute(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, ToggleMuteFullMethodName, in, out, staticMethod(opts)...); err != nil {
		return nil, err
	}

	return out, nil
}

func staticMethod(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
}

// AnnunciatorServiceServer is the server API for AnnunciatorService.
// Implementations must embed UnimplementedAnnunciatorServiceServer.
type AnnunciatorServiceServer interface {
	GetStatus(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	SubmitFrame(ctx context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error)
	ToggleMute(ctx context.Context, in *emptypb.Empty) (*emptypb.Empty, error)
	mustEmbedUnimplementedAnnunciatorServiceServer()
}

// UnimplementedAnnunciatorServiceServer answers Unimplemented to every method.
type UnimplementedAnnunciatorServiceServer struct{}

// GetStatus is not implemented.
func (UnimplementedAnnunciatorServiceServer) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}

// SubmitFrame is not implemented.
func (UnimplementedAnnunciatorServiceServer) SubmitFrame(
	context.Context,
	*wrapperspb.BytesValue,
) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitFrame not implemented")
}

// ToggleMute is not implemented.
func (UnimplementedAnnunciatorServiceServer) ToggleMute(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ToggleMute not implemented")
}

func (UnimplementedAnnunciatorServiceServer) mustEmbedUnimplementedAnnunciatorServiceServer() {}

// RegisterAnnunciatorServiceServer attaches the implementation to the registrar.
func RegisterAnnunciatorServiceServer(s grpc.ServiceRegistrar, srv AnnunciatorServiceServer) {
	s.RegisterService(&AnnunciatorServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodDesc.
func unaryHandler[Req any, PReq interface {
	*Req
}, Resp any](
	fullMethod string,
	call func(AnnunciatorServiceServer, context.Context, PReq) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(AnnunciatorServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(PReq)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// AnnunciatorServiceDesc describes the service for grpc.ServiceRegistrar.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var AnnunciatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnnunciatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatus",
			Handler:    unaryHandler(GetStatusFullMethodName, AnnunciatorServiceServer.GetStatus),
		},
		{
			MethodName: "SubmitFrame",
			Handler:    unaryHandler(SubmitFrameFullMethodName, AnnunciatorServiceServer.SubmitFrame),
		},
		{
			MethodName: "ToggleMute",
			Handler:    unaryHandler(ToggleMuteFullMethodName, AnnunciatorServiceServer.ToggleMute),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "annunciator/v1/annunciator.proto",
}
