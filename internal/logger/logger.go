package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a new structured logger with sensible defaults
func New() zerolog.Logger {
	// Configure zerolog
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "timestamp"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"

	// Use console writer for development
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}

	return zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

// WithLevel creates a logger with the specified level
func WithLevel(level string) zerolog.Logger {
	logger := New()

	switch strings.ToLower(level) {
	case "debug":
		return logger.Level(zerolog.DebugLevel)
	case "info":
		return logger.Level(zerolog.InfoLevel)
	case "warn", "warning":
		return logger.Level(zerolog.WarnLevel)
	case "error":
		return logger.Level(zerolog.ErrorLevel)
	case "fatal":
		return logger.Level(zerolog.FatalLevel)
	default:
		return logger.Level(zerolog.InfoLevel)
	}
}

// CorrelationID binds a request's RequestID into the logger context as
// request_id, the key the orchestrator and transports key every
// per-request log line on.
func CorrelationID(logger zerolog.Logger, requestID string) zerolog.Logger {
	return logger.With().Str("request_id", requestID).Logger()
}

// Component binds a subsystem name (orchestrator, rpcapi, httpapi, ...)
// into the logger context.
func Component(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// Operation binds the CLI verb or RPC method a log line belongs to,
// distinct from Component's architectural subsystem tag.
func Operation(logger zerolog.Logger, operation string) zerolog.Logger {
	return logger.With().Str("operation", operation).Logger()
}
