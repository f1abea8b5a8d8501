// Package log configures the process-wide slog logger. Every line
// carries a "service" attribute so the API, checker and notifications
// subsystems can be told apart in one combined stream.
package log

import (
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLogLevel     = "LOG_LEVEL"
	DefaultLogLevel = slog.LevelInfo
)

type Opts struct {
	ServiceName string
	Level       slog.Level
	AddSource   bool
	JSON        bool
}

// Setup builds the logger and installs it as the slog default
func Setup(o Opts) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     o.Level,
		AddSource: o.AddSource,
	}

	if o.JSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{slog.String("service", o.ServiceName)})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// SetupFromEnv builds a JSON logger with the level taken from LOG_LEVEL.
// Debug level also turns on source file/line attribution.
func SetupFromEnv(serviceName string) *slog.Logger {
	level := GetLogLevelFromEnv()
	return Setup(Opts{
		ServiceName: serviceName,
		Level:       level,
		AddSource:   level <= slog.LevelDebug,
		JSON:        true,
	})
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := os.Getenv(EnvLogLevel)
	if levelStr == "" {
		return DefaultLogLevel
	}

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return DefaultLogLevel
	}
}
