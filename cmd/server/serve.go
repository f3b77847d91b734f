package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/streaks/internal/analytics"
	"github.com/rpggio/streaks/internal/app"
	"github.com/rpggio/streaks/internal/config"
	"github.com/rpggio/streaks/internal/domain/activity"
	"github.com/rpggio/streaks/internal/mcp"
	"github.com/rpggio/streaks/internal/transport"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if mode != "" {
				if mode != "stdio" && mode != "http" {
					return fmt.Errorf("invalid transport %q: expected stdio or http", mode)
				}
				cfg.Transport.Mode = mode
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&mode, "transport", "", "override transport mode (stdio or http)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, closeLog := newLogger(cfg)
	defer closeLog()

	db, err := openDB(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer db.Close()

	var publisher activity.Publisher
	if cfg.Analytics.AMQPURL != "" {
		p, err := analytics.Dial(cfg.Analytics.AMQPURL, cfg.Analytics.Exchange, logger)
		if err != nil {
			logger.Warn("analytics publisher disabled", "error", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	a := buildApp(cfg, db, app.Options{Publisher: publisher, Logger: logger})
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Activity.Close(drainCtx); err != nil {
			logger.Warn("activity queue not drained", "error", err)
		}
	}()
	if _, err := a.Categories.EnsureDefault(ctx, cfg.Categories.DefaultTitle); err != nil {
		logger.Error("failed to ensure default category", "error", err)
		return err
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Handler:       a.Handler,
		Resolver:      a.APIKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}
	return runHTTPMode(ctx, logger, cfg, a, mcpServer)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, cfg config.Config, a *app.App, mcpServer *sdkmcp.Server) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	var auth func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(a.APIKeys)
	}
	router := transport.NewServer(a.Handler, auth, logger,
		transport.Mount{Pattern: "/mcp", Handler: mcpHandler},
		transport.Mount{Pattern: "/mcp/*", Handler: mcpHandler},
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", cfg.Auth.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
