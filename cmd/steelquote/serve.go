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

	"github.com/spf13/cobra"

	"github.com/dshills/steelquote/internal/cache"
	"github.com/dshills/steelquote/internal/config"
	"github.com/dshills/steelquote/internal/rates"
	"github.com/dshills/steelquote/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serves /api/v1/analyze, /api/v1/quote and /api/v1/rates. Configuration is
read from STEELQUOTE_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return exitError(exitInput, "failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	card, err := rates.Resolve(cfg.Quote.RateCard)
	if err != nil {
		return exitError(exitInput, "failed to load rate card: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	c, err := newCache(ctx, cfg.Cache)
	cancel()
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		return err
	}
	if c != nil {
		defer c.Close()
	}

	srv := server.NewServer(cfg.Server, card, c, version)
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server",
			"addr", httpServer.Addr,
			"version", version,
			"rate_card", card.Name,
			"cache", cfg.Cache.Backend,
		)
		serverErrors <- httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			return err
		}
		return nil
	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			if err := httpServer.Close(); err != nil {
				slog.Error("Failed to close server", "error", err)
			}
			return err
		}
		slog.Info("Server stopped gracefully")
	}
	return nil
}

// newCache returns nil when caching is disabled.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "memory":
		return cache.NewMemory(cfg.TTL), nil
	case "redis":
		r, err := cache.NewRedis(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
