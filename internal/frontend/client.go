package frontend

import (
	"context"
	"time"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	coreGrpc "github.com/msto63/udyr/pkg/core/grpc"
	"github.com/msto63/udyr/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote Frontend service and returns results in map form
type Client struct {
	conn    *grpc.ClientConn
	stub    FrontendClient
	timeout time.Duration
}

// Dial connects to a Frontend service at target
func Dial(target string, timeout time.Duration, logger *logging.Logger, opts ...grpc.DialOption) (*Client, error) {
	cfg := coreGrpc.DefaultClientConfig(target)
	cfg.Logger = logger
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	conn, err := coreGrpc.Dial(cfg, opts...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to connect to frontend service").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation("frontend.Dial").
			WithDetail("target", target)
	}

	return &Client{
		conn:    conn,
		stub:    NewFrontendClient(conn),
		timeout: cfg.Timeout,
	}, nil
}

// Scan scans source remotely
func (c *Client) Scan(ctx context.Context, source string) (map[string]interface{}, error) {
	return c.call(ctx, "frontend.Scan", c.stub.Scan, source)
}

// Parse parses a single expression remotely
func (c *Client) Parse(ctx context.Context, source string) (map[string]interface{}, error) {
	return c.call(ctx, "frontend.Parse", c.stub.Parse, source)
}

// ParseProgram parses an expression sequence remotely
func (c *Client) ParseProgram(ctx context.Context, source string) (map[string]interface{}, error) {
	return c.call(ctx, "frontend.ParseProgram", c.stub.ParseProgram, source)
}

type unaryCall func(context.Context, *wrapperspb.StringValue, ...grpc.CallOption) (*structpb.Struct, error)

func (c *Client) call(ctx context.Context, operation string, fn unaryCall, source string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := fn(ctx, wrapperspb.String(source))
	if err != nil {
		return nil, fromStatus(err, operation)
	}
	return resp.AsMap(), nil
}

// fromStatus maps a gRPC status back onto a structured error
func fromStatus(err error, operation string) error {
	st := status.Convert(err)

	code := mdwerror.CodeInternal
	switch st.Code() {
	case codes.InvalidArgument:
		code = mdwerror.CodeInvalidInput
	case codes.Unavailable, codes.DeadlineExceeded:
		code = mdwerror.CodeServiceUnavailable
	}

	return mdwerror.New(st.Message()).
		WithCode(code).
		WithOperation(operation).
		WithDetail("grpc_code", st.Code().String())
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}
