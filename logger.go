package nordgo

import (
	"log/slog"

	"github.com/sirupsen/logrus"
)

// Logger defines a minimal structured logging interface for nordgo.
// This interface is intentionally simple to support various logging libraries
// (slog, logrus, zap, zerolog, etc.) through adapters.
//
// The default logger discards all log messages. Users can provide their own
// logger implementation using WithEngineLogger or WithProbeLogger.
//
// Example with slog:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	adapter := nordgo.NewSlogAdapter(logger)
//	cfg, _ := nordgo.NewEngineConfig(
//	    nordgo.WithEngineLogger(adapter),
//	)
//
// For other logging libraries, implement this interface by wrapping your
// preferred logger. The keysAndValues parameter should be interpreted as
// alternating key-value pairs (e.g., "key1", value1, "key2", value2).
type Logger interface {
	// Log logs a message at the specified level with optional key-value pairs.
	// Level should be one of: "debug", "info", "warn", "error".
	// The keysAndValues are interpreted as alternating key-value pairs.
	Log(level string, msg string, keysAndValues ...any)
}

// noopLogger is a logger that discards all messages.
type noopLogger struct{}

func (noopLogger) Log(string, string, ...any) {}

// slogAdapter wraps *slog.Logger to implement the Logger interface.
type slogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a Logger from *slog.Logger.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	adapter := nordgo.NewSlogAdapter(logger)
//	cfg, _ := nordgo.NewEngineConfig(
//	    nordgo.WithEngineLogger(adapter),
//	)
func NewSlogAdapter(logger *slog.Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return &slogAdapter{logger: logger}
}

func (s *slogAdapter) Log(level string, msg string, keysAndValues ...any) {
	switch level {
	case "debug":
		s.logger.Debug(msg, keysAndValues...)
	case "info":
		s.logger.Info(msg, keysAndValues...)
	case "warn":
		s.logger.Warn(msg, keysAndValues...)
	case "error":
		s.logger.Error(msg, keysAndValues...)
	default:
		s.logger.Info(msg, keysAndValues...)
	}
}

// logrusAdapter wraps *logrus.Logger to implement the Logger interface.
type logrusAdapter struct {
	logger *logrus.Logger
}

// NewLogrusAdapter creates a Logger from *logrus.Logger.
//
// Example:
//
//	logger := logrus.New()
//	logger.SetLevel(logrus.DebugLevel)
//	adapter := nordgo.NewLogrusAdapter(logger)
//	cfg, _ := nordgo.NewEngineConfig(
//	    nordgo.WithEngineLogger(adapter),
//	)
func NewLogrusAdapter(logger *logrus.Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return &logrusAdapter{logger: logger}
}

func (l *logrusAdapter) Log(level string, msg string, keysAndValues ...any) {
	entry := l.logger.WithFields(fieldsFromPairs(keysAndValues))
	switch level {
	case "debug":
		entry.Debug(msg)
	case "info":
		entry.Info(msg)
	case "warn":
		entry.Warn(msg)
	case "error":
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
}

// fieldsFromPairs converts alternating key-value pairs into logrus fields.
// A trailing key without a value is kept with a nil value.
func fieldsFromPairs(keysAndValues []any) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if i+1 < len(keysAndValues) {
			fields[key] = keysAndValues[i+1]
		} else {
			fields[key] = nil
		}
	}
	return fields
}
