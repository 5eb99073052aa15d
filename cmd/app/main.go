package main

import (
	"context"
	"spacebook/config"
	"spacebook/di"
	"spacebook/helper"
	"spacebook/shared/logger"
	"time"

	"github.com/rs/zerolog/log"
)

const traceFlushTimeout = 5 * time.Second

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	app := di.InitializeApp()

	if err := app.Cron.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start hold sweeper")
	}

	app.HTTP.Serve()

	app.Cron.Stop()

	if err := app.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close kafka writers")
	}

	if err := app.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), traceFlushTimeout)
	defer cancel()

	if err := app.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
