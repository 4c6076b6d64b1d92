package main

import (
	"concierge/config"
	"concierge/di"
	"concierge/shared/logger"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.Setup(cfg)

	if !cfg.Kafka.Enable {
		log.Warn().Msg("Kafka is disabled, request events are written directly by the API")

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeConsumer()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("Request event worker stopped")
	}

	log.Info().Msg("Request event worker shut down")
}
