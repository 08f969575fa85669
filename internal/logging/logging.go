// Package logging configures the application logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger with the given level and format. Unknown levels fall
// back to info; any format other than "json" writes human-readable console
// output.
func New(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if format == "json" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	return logger.Level(lvl).With().Timestamp().Logger()
}
