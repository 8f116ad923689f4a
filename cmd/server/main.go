package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ThaerHindawi/livekit/internal/api"
	"github.com/ThaerHindawi/livekit/internal/api/middleware"
	"github.com/ThaerHindawi/livekit/internal/config"
	"github.com/ThaerHindawi/livekit/internal/crypto"
	"github.com/ThaerHindawi/livekit/internal/gateway"
	"github.com/ThaerHindawi/livekit/internal/handlers"
	"github.com/ThaerHindawi/livekit/internal/models"
	"github.com/ThaerHindawi/livekit/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Room registry: Redis when shared across instances, memory otherwise
	var registry store.RoomRegistry
	var redisRegistry *store.RedisRegistry
	if cfg.RedisURL != "" {
		var err error
		redisRegistry, err = store.NewRedisRegistry(ctx, cfg.RedisURL, store.RedisOptions{
			Capacity: models.RoomCapacity,
			SlotTTL:  cfg.TokenTTL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		registry = redisRegistry
		logger.Info().Msg("connected to Redis")
	} else {
		registry = store.NewMemoryRegistry(models.RoomCapacity)
		logger.Info().Msg("using in-memory room registry")
	}
	defer registry.Close()

	// Optional room event journal
	var journal store.Journal
	switch {
	case cfg.DatabaseURL != "":
		pg, err := store.NewPostgresJournal(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer pg.Close()
		journal = pg
		logger.Info().Msg("connected to PostgreSQL")
	case cfg.SQLitePath != "":
		lite, err := store.NewSQLiteJournal(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		defer lite.Close()
		journal = lite
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened SQLite journal")
	}

	signer := crypto.NewTokenSigner(cfg.APIKey, cfg.APISecret)
	gw := gateway.New(registry, signer, journal, gateway.Options{
		WSURL:        cfg.WSURL,
		TokenTTL:     cfg.TokenTTL,
		IssueTimeout: cfg.IssueTimeout,
	}, logger)

	if !cfg.Configured() {
		logger.Warn().Msg("LiveKit credentials not configured; /api/token will refuse requests")
	}

	opts := api.RouterOptions{
		PublicDir: cfg.PublicDir,
		RateLimit: middleware.RateLimiterConfig{
			Whitelist:        cfg.RateLimitWhitelist,
			AutoBlockEnabled: cfg.AutoBlockEnabled,
		},
	}
	if redisRegistry != nil {
		opts.RedisClient = redisRegistry.Client()
	}

	// Create router
	h := handlers.NewHandler(gw, registry, journal, logger)
	router := api.NewRouter(logger, h, opts)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Bool("configured", cfg.Configured()).
			Msg("starting video call server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
