package frontend

import (
	"context"
	"net"
	"time"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	"github.com/msto63/udyr/foundation/udyr"
	"github.com/msto63/udyr/pkg/core/cache"
	coreGrpc "github.com/msto63/udyr/pkg/core/grpc"
	"github.com/msto63/udyr/pkg/core/health"
	"github.com/msto63/udyr/pkg/core/logging"
	"github.com/msto63/udyr/pkg/core/version"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Ensure Server implements FrontendServer
var _ FrontendServer = (*Server)(nil)

// Config holds server configuration
type Config struct {
	Host       string
	Port       int
	Reflection bool

	// Engine options shared by every request
	Engine udyr.Options

	// HealthInterval is how often the health registry is re-evaluated
	HealthInterval time.Duration

	// History is checked by the health registry when set
	History health.Pinger

	// CacheSize bounds the result cache; zero disables it
	CacheSize int
	CacheTTL  time.Duration

	Logger *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           9480,
		Reflection:     true,
		HealthInterval: 30 * time.Second,
		CacheSize:      1024,
		CacheTTL:       10 * time.Minute,
	}
}

// Server is the Frontend gRPC server
type Server struct {
	engine    *udyr.Engine
	grpc      *coreGrpc.Server
	health    *health.Registry
	results   *cache.Cache[*structpb.Struct]
	logger    *logging.Logger
	config    Config
	startTime time.Time
	watchCtx  context.Context
	cancel    context.CancelFunc
}

// New creates a new Frontend server
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("frontend-server")
	}
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = DefaultConfig().HealthInterval
	}
	if cfg.Engine.Logger == nil {
		cfg.Engine.Logger = logger.Logger
	}

	engine := udyr.New(cfg.Engine)

	grpcCfg := coreGrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.Port
	grpcCfg.EnableReflection = cfg.Reflection
	grpcCfg.Logger = logger
	// Leave headroom for the request envelope around the source
	if limit := engine.Options().MaxSourceLength + 64*1024; limit > grpcCfg.MaxRecvMsgSize {
		grpcCfg.MaxRecvMsgSize = limit
	}

	grpcServer := coreGrpc.NewServer(grpcCfg)

	healthRegistry := health.NewRegistry("udyr", version.Frontend)
	healthRegistry.Register(health.EngineCheck("engine", engine))
	if cfg.History != nil {
		healthRegistry.Register(health.PingCheck("history", cfg.History, 2*time.Second))
	}

	var results *cache.Cache[*structpb.Struct]
	if cfg.CacheSize > 0 {
		results = cache.New[*structpb.Struct](cache.Config{
			MaxItems:        cfg.CacheSize,
			TTL:             cfg.CacheTTL,
			CleanupInterval: time.Minute,
		})
	}

	watchCtx, cancel := context.WithCancel(context.Background())

	server := &Server{
		watchCtx:  watchCtx,
		cancel:    cancel,
		engine:    engine,
		grpc:      grpcServer,
		health:    healthRegistry,
		results:   results,
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}

	// Register gRPC service
	RegisterFrontendServer(grpcServer.GRPCServer(), server)

	return server
}

// Scan implements FrontendServer.Scan
func (s *Server) Scan(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return s.cached(ctx, MethodScan, req.GetValue(), func(source string) (map[string]interface{}, error) {
		result, err := s.engine.Scan(source)
		if err != nil {
			return nil, err
		}
		return result.ToMap(), nil
	})
}

// Parse implements FrontendServer.Parse
func (s *Server) Parse(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return s.cached(ctx, MethodParse, req.GetValue(), func(source string) (map[string]interface{}, error) {
		result, err := s.engine.Parse(source)
		if err != nil {
			return nil, err
		}
		return result.ToMap(false), nil
	})
}

// ParseProgram implements FrontendServer.ParseProgram
func (s *Server) ParseProgram(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return s.cached(ctx, MethodParseProgram, req.GetValue(), func(source string) (map[string]interface{}, error) {
		result, err := s.engine.ParseProgram(source)
		if err != nil {
			return nil, err
		}
		return result.ToMap(false), nil
	})
}

// cached runs fn through the result cache. Failed requests are not stored.
func (s *Server) cached(ctx context.Context, method, source string, fn func(string) (map[string]interface{}, error)) (*structpb.Struct, error) {
	run := func() (*structpb.Struct, error) {
		m, err := fn(source)
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}
		return s.encode(ctx, m)
	}

	if s.results == nil {
		return run()
	}
	return s.results.GetOrSet(cache.Key(method, source), run)
}

func (s *Server) encode(ctx context.Context, m map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		s.logger.Error("Failed to encode result", "error", err, "request_id", coreGrpc.GetRequestID(ctx))
		return nil, status.Error(codes.Internal, "failed to encode result")
	}
	return out, nil
}

// toStatus maps a structured error onto a gRPC status
func (s *Server) toStatus(ctx context.Context, err error) error {
	if mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Error("Request failed", "error", err, "request_id", coreGrpc.GetRequestID(ctx))
	return status.Error(codes.Internal, err.Error())
}

// Start starts the server and the health watcher, blocking until stopped
func (s *Server) Start() error {
	s.logger.Info("Starting Frontend server", "host", s.config.Host, "port", s.config.Port)
	s.watchHealth()
	return s.grpc.Start()
}

// Serve serves on an existing listener, blocking until stopped
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting Frontend server", "address", lis.Addr().String())
	s.watchHealth()
	return s.grpc.Serve(lis)
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping Frontend server", "uptime", time.Since(s.startTime).String())
	s.cancel()
	if s.results != nil {
		s.results.Close()
	}
	s.grpc.StopWithTimeout(ctx)
	return nil
}

// watchHealth mirrors the registry into the standard gRPC health service
func (s *Server) watchHealth() {
	go health.Watch(s.watchCtx, s.health, s.config.HealthInterval, func(report *health.Report) {
		serving := health.GRPCStatus(report.Status)
		s.grpc.SetServingStatus("", serving)
		s.grpc.SetServingStatus(ServiceName, serving)
		if report.Status != health.StatusHealthy {
			s.logger.Warn("Health degraded", "status", string(report.Status), "checks", len(report.Checks))
		}
	})
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}

// Engine returns the shared engine
func (s *Server) Engine() *udyr.Engine {
	return s.engine
}

// GRPCServer returns the underlying gRPC server
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpc.GRPCServer()
}

// CacheStats returns result cache counters; zero when caching is disabled
func (s *Server) CacheStats() cache.Stats {
	if s.results == nil {
		return cache.Stats{}
	}
	return s.results.Stats()
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
