package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dineos/edge/internal/backend"
	"github.com/dineos/edge/internal/config"
	"github.com/dineos/edge/internal/server"
	redisstore "github.com/dineos/edge/internal/store/redis"
	"github.com/dineos/edge/internal/tenancy"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("DINEOS_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("DINEOS_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Backend client; the single timeout bounds every outbound call.
	backendClient := backend.NewClient(cfg.Backend.URLs(), cfg.Backend.InternalAPIKey, cfg.Backend.Timeout)

	// Optional Redis tenant cache. Without it every tenant lookup goes
	// straight to the backend.
	var cache tenancy.Cache
	if cfg.Redis.Addr != "" {
		redisCache, cacheErr := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if cacheErr != nil {
			return cacheErr
		}
		defer func() {
			_ = redisCache.Close()
		}()
		cache = redisCache
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Cache.TenantTTL).Msg("tenant cache enabled")
	}

	resolver := tenancy.NewResolver(backendClient, cache, cfg.Cache.TenantTTL)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, backendClient, resolver)

	// Start server in background goroutine.
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("root_domain", cfg.Routing.RootDomain).
			Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
