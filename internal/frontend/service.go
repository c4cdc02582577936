package frontend

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "udyr.v1.Frontend"

// Full method names
const (
	MethodScan         = "/" + ServiceName + "/Scan"
	MethodParse        = "/" + ServiceName + "/Parse"
	MethodParseProgram = "/" + ServiceName + "/ParseProgram"
)

// FrontendServer is the server API for the Frontend service. Every method
// takes the source text and answers with the map form of the result.
type FrontendServer interface {
	Scan(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Parse(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ParseProgram(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterFrontendServer registers the service on a gRPC server
func RegisterFrontendServer(s grpc.ServiceRegistrar, srv FrontendServer) {
	s.RegisterService(&serviceDesc, srv)
}

func unaryHandler(method string, call func(FrontendServer, context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FrontendServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(FrontendServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FrontendServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Scan",
			Handler:    unaryHandler(MethodScan, FrontendServer.Scan),
		},
		{
			MethodName: "Parse",
			Handler:    unaryHandler(MethodParse, FrontendServer.Parse),
		},
		{
			MethodName: "ParseProgram",
			Handler:    unaryHandler(MethodParseProgram, FrontendServer.ParseProgram),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: ProtoFile,
}

// FrontendClient is the client API for the Frontend service
type FrontendClient interface {
	Scan(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	Parse(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ParseProgram(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type frontendClient struct {
	cc grpc.ClientConnInterface
}

// NewFrontendClient creates a client stub on an existing connection
func NewFrontendClient(cc grpc.ClientConnInterface) FrontendClient {
	return &frontendClient{cc: cc}
}

func (c *frontendClient) invoke(ctx context.Context, method string, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *frontendClient) Scan(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodScan, in, opts...)
}

func (c *frontendClient) Parse(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodParse, in, opts...)
}

func (c *frontendClient) ParseProgram(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodParseProgram, in, opts...)
}
