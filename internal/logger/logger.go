package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a service-tagged JSON logger writing to stdout.
// An empty or unknown level falls back to info; ParseLevel maps ""
// to NoLevel without an error, which would silence everything.
func New(service string, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
