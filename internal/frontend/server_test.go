package frontend

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	"github.com/msto63/udyr/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

type testEnv struct {
	server *Server
	client *Client
	conn   *grpc.ClientConn
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	logger := logging.Wrap(mdwlog.Discard(), "test")
	cfg.Logger = logger
	cfg.HealthInterval = 10 * time.Millisecond
	srv := New(cfg)

	lis := bufconn.Listen(1 << 20)
	go func() {
		_ = srv.Serve(lis)
	}()

	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})

	client, err := Dial("passthrough:///bufnet", 5*time.Second, logger, dialer)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	conn, err := grpc.NewClient("passthrough:///bufnet", dialer, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	return &testEnv{server: srv, client: client, conn: conn}
}

func firstDiagnostic(t *testing.T, m map[string]interface{}) map[string]interface{} {
	t.Helper()

	diags, _ := m["diagnostics"].([]interface{})
	if len(diags) == 0 {
		t.Fatalf("Expected diagnostics, got none")
	}
	d, _ := diags[0].(map[string]interface{})
	return d
}

func TestServer_Parse(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())

	resp, err := env.client.Parse(context.Background(), "1 + 2 * 3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if resp["ok"] != true {
		t.Errorf("Expected ok, got %v", resp["ok"])
	}

	exprs, _ := resp["expressions"].([]interface{})
	if len(exprs) != 1 {
		t.Fatalf("Expected 1 expression, got %d", len(exprs))
	}
	root, _ := exprs[0].(map[string]interface{})
	if root["type"] != "binary" || root["operator"] != "+" {
		t.Errorf("Expected binary +, got %v %v", root["type"], root["operator"])
	}
	right, _ := root["right"].(map[string]interface{})
	if right["operator"] != "*" {
		t.Errorf("Expected * on the right, got %v", right["operator"])
	}
	if _, ok := resp["tokens"]; ok {
		t.Error("Expected tokens to be omitted from parse responses")
	}
}

func TestServer_ParseDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"unclosed grouping", "(1 + 2", "[line 1] Error at end: Expect ')' after expression."},
		{"missing operand", "1 +", "[line 1] Error at end: Expect expression."},
		{"lexical", "1 @ 2", "[line 1] Error: Unexpected character."},
	}

	env := newTestEnv(t, DefaultConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.client.Parse(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if resp["ok"] != false {
				t.Errorf("Expected not ok, got %v", resp["ok"])
			}
			if d := firstDiagnostic(t, resp); d["text"] != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, d["text"])
			}
		})
	}
}

func TestServer_ParseProgram(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())

	resp, err := env.client.ParseProgram(context.Background(), "1 + 2; !true; \"s\"")
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}

	exprs, _ := resp["expressions"].([]interface{})
	if len(exprs) != 3 {
		t.Errorf("Expected 3 expressions, got %d", len(exprs))
	}
}

func TestServer_Scan(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())

	resp, err := env.client.Scan(context.Background(), "a <= 1.5\n\"x\"")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	tokens, _ := resp["tokens"].([]interface{})
	expected := []string{"IDENTIFIER", "LESS_EQUAL", "NUMBER", "STRING", "EOF"}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, kind := range expected {
		tok, _ := tokens[i].(map[string]interface{})
		if tok["kind"] != kind {
			t.Errorf("Expected token %d to be %s, got %v", i, kind, tok["kind"])
		}
	}

	// Struct numbers arrive as float64
	str, _ := tokens[3].(map[string]interface{})
	if str["line"] != float64(2) || str["literal"] != "x" {
		t.Errorf("Expected string x on line 2, got %v on line %v", str["literal"], str["line"])
	}
}

func TestServer_SourceTooLong(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.MaxSourceLength = 8
	env := newTestEnv(t, cfg)

	_, err := env.client.Parse(context.Background(), strings.Repeat("1 + ", 10)+"1")
	if err == nil {
		t.Fatal("Expected error for oversized source")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Expected code %s, got %s", mdwerror.CodeInvalidInput, mdwerror.GetCode(err))
	}
}

func TestServer_HealthServing(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	client := healthpb.NewHealthClient(env.conn)

	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected %s to report SERVING, last error %v", ServiceName, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_HealthRegistry(t *testing.T) {
	srv := New(Config{Logger: logging.Wrap(mdwlog.Discard(), "test")})

	report := srv.HealthRegistry().CheckWithTimeout(time.Second)
	if len(report.Checks) != 1 || report.Checks[0].Name != "engine" {
		t.Errorf("Expected a single engine check, got %d checks", len(report.Checks))
	}
	if srv.Engine() == nil {
		t.Error("Expected a shared engine")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != 9480 {
		t.Errorf("Expected port 9480, got %d", cfg.Port)
	}
	if !cfg.Reflection {
		t.Error("Expected reflection enabled")
	}
}

func TestServer_ResultCache(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := env.client.Parse(ctx, "1 + 2"); err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
	}
	// Same source, different method
	if _, err := env.client.Scan(ctx, "1 + 2"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	stats := env.server.CacheStats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("Expected 1 hit and 2 misses, got %d and %d", stats.Hits, stats.Misses)
	}
	if stats.Size != 2 {
		t.Errorf("Expected 2 cached results, got %d", stats.Size)
	}
}

func TestServer_ResultCacheSkipsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.MaxSourceLength = 8
	env := newTestEnv(t, cfg)

	for i := 0; i < 2; i++ {
		if _, err := env.client.Parse(context.Background(), "1 + 2 + 3 + 4"); err == nil {
			t.Fatal("Expected error for oversized source")
		}
	}
	if size := env.server.CacheStats().Size; size != 0 {
		t.Errorf("Expected failed requests not to be cached, got size %d", size)
	}
}

func TestServer_ResultCacheDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	env := newTestEnv(t, cfg)

	if _, err := env.client.Parse(context.Background(), "1"); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if stats := env.server.CacheStats(); stats.Hits+stats.Misses != 0 {
		t.Errorf("Expected no cache activity, got %+v", stats)
	}
}

func TestDescriptor_MatchesServiceDesc(t *testing.T) {
	d, err := protoregistry.GlobalFiles.FindDescriptorByName(ServiceName)
	if err != nil {
		t.Fatalf("Expected %s to be registered: %v", ServiceName, err)
	}
	svc, ok := d.(protoreflect.ServiceDescriptor)
	if !ok {
		t.Fatalf("Expected a service descriptor, got %T", d)
	}
	if svc.ParentFile().Path() != serviceDesc.Metadata {
		t.Errorf("Expected file %v, got %s", serviceDesc.Metadata, svc.ParentFile().Path())
	}

	methods := svc.Methods()
	if methods.Len() != len(serviceDesc.Methods) {
		t.Fatalf("Expected %d methods, got %d", len(serviceDesc.Methods), methods.Len())
	}
	for _, m := range serviceDesc.Methods {
		md := methods.ByName(protoreflect.Name(m.MethodName))
		if md == nil {
			t.Errorf("Expected method %s in descriptor", m.MethodName)
			continue
		}
		if md.Input().FullName() != "google.protobuf.StringValue" || md.Output().FullName() != "google.protobuf.Struct" {
			t.Errorf("Unexpected signature for %s: %s -> %s", m.MethodName, md.Input().FullName(), md.Output().FullName())
		}
	}
}

func TestServer_ReflectionDescribesService(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := reflectionpb.NewServerReflectionClient(env.conn).ServerReflectionInfo(ctx)
	if err != nil {
		t.Fatalf("ServerReflectionInfo failed: %v", err)
	}
	err = stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_FileContainingSymbol{FileContainingSymbol: ServiceName},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	resp, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv failed: %v", err)
	}

	files := resp.GetFileDescriptorResponse().GetFileDescriptorProto()
	if len(files) == 0 {
		t.Fatalf("Expected file descriptors, got %v", resp.GetErrorResponse())
	}

	var fdp descriptorpb.FileDescriptorProto
	if err := proto.Unmarshal(files[0], &fdp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if fdp.GetName() != ProtoFile {
		t.Errorf("Expected %s, got %s", ProtoFile, fdp.GetName())
	}
	if len(fdp.GetService()) != 1 || len(fdp.GetService()[0].GetMethod()) != 3 {
		t.Errorf("Expected one service with 3 methods, got %v", fdp.GetService())
	}
}
