package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger for the service. Development gets a
// console writer and debug level; level overrides any default when valid.
func NewLogger(appEnv, level string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).
		Level(parseLevel(appEnv, level)).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}

func parseLevel(appEnv, level string) zerolog.Level {
	if level != "" {
		if lvl, err := zerolog.ParseLevel(level); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}
	if appEnv == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Logger aliases zerolog.Logger so packages depend on the infra contract.
type Logger = zerolog.Logger
