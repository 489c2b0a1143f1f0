package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terra-clan/video-library/internal/api"
	"github.com/terra-clan/video-library/internal/catalog"
	"github.com/terra-clan/video-library/internal/config"
	"github.com/terra-clan/video-library/internal/notice"
	"github.com/terra-clan/video-library/internal/seed"
	"github.com/terra-clan/video-library/internal/storage"
	"github.com/terra-clan/video-library/internal/view"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting video-library",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"backend", cfg.Storage.Backend,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Initialize the persistence backend
	backend, err := newBackend(initCtx, cfg)
	if err != nil {
		slog.Error("failed to initialize storage backend", "error", err, "backend", cfg.Storage.Backend)
		os.Exit(1)
	}
	slog.Info("storage backend ready", "backend", cfg.Storage.Backend)

	// Open the catalog, seeding missing collections
	store, err := catalog.Open(initCtx, backend, seed.Load(cfg.Seed.File))
	if err != nil {
		slog.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog opened",
		"categories", len(store.Categories()),
		"videos", len(store.Videos()),
	)

	// Navigation and transient notices
	nav := view.NewNavigator()
	notices := notice.NewBoard(cfg.Notice.TTL)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the notice expiry sweep
	notices.Start(ctx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, store, nav, notices, backend)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Close the storage backend
	if err := backend.Close(); err != nil {
		slog.Error("storage close error", "error", err)
	}

	slog.Info("video-library stopped")
}

// newBackend constructs the configured persistence backend
func newBackend(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	case config.BackendRedis:
		return storage.NewRedisStore(ctx, storage.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.BackendPostgres:
		return storage.NewPostgresStore(ctx, storage.PostgresConfig{
			DSN: cfg.Database.DSN,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}
