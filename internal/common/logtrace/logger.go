// Package logtrace provides logging and request tracing utilities.
// It integrates with zerolog for structured logging.
package logtrace

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger with millisecond Unix timestamps,
// writing structured logs to stderr.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
