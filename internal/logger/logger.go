package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls level, handler format and destination of a Logger.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
	}
}

// Logger is a slog.Logger with helpers for operation and component scoping.
type Logger struct {
	*slog.Logger
}

func New(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.With("component", component)}
}

func (l *Logger) WithOperation(operation string) *Logger {
	return &Logger{Logger: l.With("operation", operation)}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With("error", err)}
}

func (l *Logger) DebugOperation(operation string, attrs ...any) {
	l.Debug("operation", append([]any{"operation", operation}, attrs...)...)
}

func (l *Logger) InfoOperation(operation string, attrs ...any) {
	l.Info("operation", append([]any{"operation", operation}, attrs...)...)
}

// Request logs an outgoing request to an external service.
func (l *Logger) Request(method, path string, attrs ...any) {
	l.Debug("request", append([]any{"method", method, "path", path}, attrs...)...)
}

// Response logs the outcome of an external request.
func (l *Logger) Response(method, path string, status int, duration any, attrs ...any) {
	l.Debug("response", append([]any{"method", method, "path", path, "status", status, "duration", duration}, attrs...)...)
}
