package wiring

import (
	"os"

	"github.com/rs/zerolog"
)

// Diagnostics go here. Caller mistakes are logged at warn level, driver
// failures at error level.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.WarnLevel).
	With().Timestamp().Logger()

// SetLogger replaces the diagnostic logger. Modules created afterwards derive
// their logger from it; existing modules keep theirs unless SetLogger is
// called on them too.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the current diagnostic logger.
func Logger() zerolog.Logger {
	return logger
}

func moduleLogger(name string) zerolog.Logger {
	return logger.With().Str("module", name).Logger()
}
