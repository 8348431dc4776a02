// Package logger provides the configured zerolog logger for the bot.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns the process logger. Components derive their own child via
// log.With().Str("component", ...).
func New(service, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Str("service", service).
		Timestamp().
		Logger()
}
