package observability

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// InitLogger returns the process logger. Every line carries the service and
// instance so logs from several replicas can be told apart.
func InitLogger(level, instanceID string, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stdout
	}

	return zerolog.New(output).
		Level(ParseLogLevel(level)).
		With().
		Timestamp().
		Str("service", ServiceName).
		Str("instance_id", instanceID).
		Caller().
		Logger()
}

func ParseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// EventLogger scopes a logger to one inbound notification.
func EventLogger(logger zerolog.Logger, gateway, eventType, reference string) zerolog.Logger {
	return logger.With().
		Str("gateway", gateway).
		Str("event_type", eventType).
		Str("provider_reference", reference).
		Logger()
}
