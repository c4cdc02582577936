package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mdwlog "github.com/msto63/udyr/foundation/core/log"
	"github.com/msto63/udyr/foundation/udyr"
	"github.com/msto63/udyr/internal/frontend"
	"github.com/msto63/udyr/internal/history"
	"github.com/msto63/udyr/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gRPC front end service",
	Long: `Starts the udyr.v1.Frontend gRPC service with the methods
Scan, Parse and ParseProgram. The standard gRPC health service and
server reflection are registered as well.

Examples:
  udyr serve
  udyr serve --port 9500
  grpcurl -plaintext -d '"1 + 2"' localhost:9480 udyr.v1.Frontend/Parse`,
	Args: usageArgs(0),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := frontend.DefaultConfig()
	cfg.Host = appConfig.Server.Host
	cfg.Port = appConfig.Server.Port
	cfg.Reflection = appConfig.Server.Reflection
	cfg.CacheSize = appConfig.Server.CacheSize
	if cmd.Flags().Changed("host") {
		cfg.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	cfg.Engine = udyr.Options{
		Logger:          appLogger,
		MaxDepth:        appConfig.Parser.MaxDepth,
		MaxSourceLength: appConfig.Parser.MaxSourceLength,
	}
	cfg.Logger = logging.Wrap(appLogger, "udyr-server")

	// The service only reads history for health; a missing store is fine
	if appConfig.History.Enabled {
		store, err := history.NewSQLiteStore(history.Config{Path: appConfig.History.Path})
		if err != nil {
			appLogger.WarnWithErr("history store unavailable", err)
		} else {
			defer store.Close()
			cfg.History = store
		}
	}

	server := frontend.New(cfg)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "udyr serving on %s:%d\n", cfg.Host, cfg.Port)

	// Wait for signal or error
	select {
	case sig := <-sigCh:
		appLogger.Info("shutting down", mdwlog.Fields{"signal": sig.String()})
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(ctx)
}
