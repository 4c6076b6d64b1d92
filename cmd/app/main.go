package main

import (
	"concierge/config"
	"concierge/di"
	"concierge/helper"
	"concierge/shared/logger"

	"github.com/rs/zerolog/log"
)

//	@title			Concierge Staff Portal API
//	@version		1.0
//	@description	Staff-facing backend for guest requests, bookings and staff accounts.
//	@BasePath		/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key

func main() {
	cfg := config.Get()

	logger.Setup(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
