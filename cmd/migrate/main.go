package main

import (
	"concierge/config"
	"concierge/di"
	"concierge/helper"
	"concierge/shared/logger"
	"context"
	"os"

	"github.com/rs/zerolog/log"
)

const (
	argLength  = 2
	actionSeed = "seed"
)

var migrations = map[string]func(*config.Config) error{
	helper.ActionUp:     helper.Up,
	helper.ActionDown:   helper.Down,
	helper.ActionDrop:   helper.Drop,
	helper.ActionStepUp: helper.StepUp,
}

func main() {
	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action (up/down/drop/step-up/seed) is required")
	}

	cfg := config.Get()

	logger.Setup(cfg)

	action := os.Args[1]

	if migrate, ok := migrations[action]; ok {
		if err := migrate(cfg); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}

		return
	}

	switch action {
	case actionSeed:
		created, err := helper.SeedStaff(context.Background(), di.InitializeStaffRepository())
		if err != nil {
			log.Fatal().Err(err).Msg("Seeding staff failed")
		}

		log.Info().Int("created", created).Msg("Demo staff seeded")
	default:
		log.Fatal().Str("action", action).Msg("Invalid action. Use 'up', 'down', 'drop', 'step-up' or 'seed'")
	}
}
