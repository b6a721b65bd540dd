package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brickblock-backend/bootstrap"
	"brickblock-backend/internal/app"
	"brickblock-backend/internal/config"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	bootstrap.ConfigureLogging(cfg)

	fiberApp, db, rdb, err := app.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	// Verify connections before accepting traffic
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle unavailable")
	}
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Str("dialect", db.Dialector.Name()).Msg("database connected")

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()
	log.Info().Msg("redis connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).
			Str("health", fmt.Sprintf("http://localhost:%s/health/json", cfg.Port)).
			Msg("server starting")
		if err := fiberApp.Listen(":" + cfg.Port); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server terminated with error")
	}
}
