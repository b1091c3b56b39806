// Package log configures the process-wide zerolog logger.
package log

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var Logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	Logger = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()

	log.Logger = Logger
}

// Info logs a formatted info message.
func Info(format string, args ...any) {
	Logger.Info().Msgf(format, args...)
}

// Warn logs a formatted warning message.
func Warn(format string, args ...any) {
	Logger.Warn().Msgf(format, args...)
}

// Error logs a formatted error message.
func Error(format string, args ...any) {
	Logger.Error().Msgf(format, args...)
}

// Debug logs a formatted debug message.
func Debug(format string, args ...any) {
	Logger.Debug().Msgf(format, args...)
}

// SetDebugMode toggles debug-level output.
func SetDebugMode(enabled bool) {
	level := zerolog.InfoLevel
	if enabled {
		level = zerolog.DebugLevel
	}
	Logger = Logger.Level(level)
	log.Logger = Logger
}
