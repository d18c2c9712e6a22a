// Package logger wires zerolog up for the PovertyLine binaries. Server,
// worker and seeder all log through one global instance so their output
// lands in a single stream with consistent fields.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance
var Logger zerolog.Logger

// Init configures the global logger. Format is "json" for machine-readable
// output or anything else for a colored console writer.
func Init(level, format string) {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	Logger = zerolog.New(writerFor(format)).With().
		Timestamp().
		Caller().
		Logger()
	log.Logger = Logger
}

func writerFor(format string) io.Writer {
	if strings.EqualFold(format, "json") {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
}

func parseLogLevel(level string) zerolog.Level {
	level = strings.ToLower(level)
	if level == "warning" {
		return zerolog.WarnLevel
	}
	if parsed, err := zerolog.ParseLevel(level); err == nil && parsed != zerolog.NoLevel {
		return parsed
	}
	return zerolog.InfoLevel
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}

// For returns a child logger tagged with the emitting component, keeping the
// binaries distinguishable when their output is aggregated.
func For(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
