package logger

import (
	"concierge/config"
	"concierge/shared/constant"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// Setup applies the configured level and, outside development, switches to
// JSON lines tagged with the service name.
func Setup(config *config.Config) {
	InitLogger()
	SetLogLevel(config)

	if config.Server.Env != "" && config.Server.Env != constant.ServerEnvDevelopment {
		SetOutput(config, os.Stdout)
	}
}

func SetOutput(config *config.Config, out io.Writer) {
	logger := zerolog.New(out).With().Timestamp()
	if config.App.Name != "" {
		logger = logger.Str("service", config.App.Name)
	}

	log.Logger = logger.Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
