package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trakt-mcp/internal/config"
	httpserver "github.com/fyrsmithlabs/trakt-mcp/internal/http"
)

func newServeCmd(configPath *string) *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server until interrupted.

The stdio transport talks JSON-RPC over stdin/stdout and logs to stderr.
The http transport serves /mcp, /health and /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
				defer cancel()
				_ = a.Close(shutdownCtx)
			}()

			if transport == "" {
				transport = a.cfg.Server.Transport
			}
			return a.serve(ctx, transport)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "", "transport to serve: stdio or http (default from config)")
	return cmd
}

func (a *app) serve(ctx context.Context, transport string) error {
	srv, err := a.newMCPServer()
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	a.logger.Info(ctx, "trakt-mcp starting",
		zap.String("version", version),
		zap.String("transport", transport),
		zap.Int("tools", srv.Registry().Count()),
		zap.Bool("authenticated", a.flow.Authenticated()),
	)

	switch transport {
	case config.TransportStdio:
		return srv.Run(ctx)
	case config.TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q (must be %s or %s)", transport, config.TransportStdio, config.TransportHTTP)
	}

	httpSrv, err := httpserver.NewServer(srv.MCP(), a.logger, &httpserver.Config{
		Host:     a.cfg.Server.Host,
		Port:     a.cfg.Server.Port,
		Gatherer: a.tel.Gatherer(),
		Metrics:  httpserver.NewHTTPMetricsWithMeter(a.tel.Meter("github.com/fyrsmithlabs/trakt-mcp/internal/http"), a.logger),
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	a.logger.Info(ctx, "server shutdown complete")
	return <-errCh
}
