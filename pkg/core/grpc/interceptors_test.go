package grpc

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(testLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/udyr.v1.Frontend/Parse"}

	_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})

	if status.Code(err) != codes.Internal {
		t.Errorf("Expected Internal, got %v", status.Code(err))
	}
}

func TestRecoveryInterceptor_PassesThrough(t *testing.T) {
	interceptor := RecoveryInterceptor(testLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/udyr.v1.Frontend/Parse"}

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp != "ok" {
		t.Errorf("Expected ok, got %v", resp)
	}
}

func TestRequestIDInterceptor(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "incoming header is kept",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-42")),
			expected: "req-42",
		},
		{
			name: "missing header is generated",
			ctx:  context.Background(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interceptor := RequestIDInterceptor()
			info := &grpc.UnaryServerInfo{FullMethod: "/udyr.v1.Frontend/Scan"}

			var seen string
			_, err := interceptor(tt.ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				seen = GetRequestID(ctx)
				return nil, nil
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if tt.expected != "" && seen != tt.expected {
				t.Errorf("Expected request ID %s, got %s", tt.expected, seen)
			}
			if seen == "" {
				t.Error("Expected a request ID in the handler context")
			}
		})
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")

	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("Expected abc, got %s", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("Expected empty request ID, got %s", got)
	}
}

func TestClientRequestIDInterceptor(t *testing.T) {
	interceptor := ClientRequestIDInterceptor()
	ctx := WithRequestID(context.Background(), "client-1")

	var sent []string
	err := interceptor(ctx, "/udyr.v1.Frontend/Parse", nil, nil, nil,
		func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
			md, _ := metadata.FromOutgoingContext(ctx)
			sent = md.Get(RequestIDHeader)
			return nil
		})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(sent) != 1 || sent[0] != "client-1" {
		t.Errorf("Expected outgoing request ID client-1, got %v", sent)
	}
}

// fakeServerStream records headers and carries a fixed context
type fakeServerStream struct {
	grpc.ServerStream
	ctx    context.Context
	header metadata.MD
}

func (f *fakeServerStream) Context() context.Context { return f.ctx }

func (f *fakeServerStream) SetHeader(md metadata.MD) error {
	f.header = metadata.Join(f.header, md)
	return nil
}

func TestStreamRequestIDInterceptor(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "incoming header is kept",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "watch-7")),
			expected: "watch-7",
		},
		{
			name: "missing header is generated",
			ctx:  context.Background(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := &fakeServerStream{ctx: tt.ctx}
			info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch", IsServerStream: true}

			var seen string
			err := StreamRequestIDInterceptor()(nil, stream, info, func(srv interface{}, ss grpc.ServerStream) error {
				seen = GetRequestID(ss.Context())
				return nil
			})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if seen == "" {
				t.Fatal("Expected a request ID in the stream context")
			}
			if tt.expected != "" && seen != tt.expected {
				t.Errorf("Expected request ID %s, got %s", tt.expected, seen)
			}
			if got := stream.header.Get(RequestIDHeader); len(got) != 1 || got[0] != seen {
				t.Errorf("Expected response header %s, got %v", seen, got)
			}
		})
	}
}

func TestStreamRecoveryInterceptor(t *testing.T) {
	stream := &fakeServerStream{ctx: context.Background()}
	info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch"}

	err := StreamRecoveryInterceptor(testLogger())(nil, stream, info, func(srv interface{}, ss grpc.ServerStream) error {
		panic("boom")
	})

	if status.Code(err) != codes.Internal {
		t.Errorf("Expected Internal, got %v", status.Code(err))
	}
}
