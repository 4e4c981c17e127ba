package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("", "info", os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}

	log := logger.New(cfg.AppEnv, cfg.LogLevel, os.Stdout)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadsDir).Msg("uploads dir")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := server.NewRouter(cfg, db, log)
	if err := server.Run(ctx, cfg, router, log); err != nil {
		log.Fatal().Err(err).Msg("http server")
	}
	log.Info().Msg("bye")
}
