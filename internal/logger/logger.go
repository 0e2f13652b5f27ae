package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// InitLogging configures the process logger. When path is non-empty the
// log stream is duplicated into that file; a file open failure falls back
// to console-only logging rather than aborting startup.
func InitLogging(path string) {
	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			w = io.MultiWriter(w, f)
		}
	}
	log = zerolog.New(w).With().Timestamp().Logger()
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	log.Info().Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	log.Warn().Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}
