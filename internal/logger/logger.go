package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the root logger. Everything else derives sub-loggers from it
// with With().Str(...) so log ownership stays traceable.
func New(environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// ConsoleWriter is only for local development; structured JSON otherwise.
	if environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return logger.Level(zerolog.DebugLevel)
	}

	return logger.Level(zerolog.InfoLevel)
}
