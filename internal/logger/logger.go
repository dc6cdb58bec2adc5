package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu           sync.RWMutex
	globalLogger = slog.Default()
	output       io.Closer
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a textual level to a LogLevel, defaulting to info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string // file path, "stdout" or empty for stdout
	Format     string // "json" or "text"
}

// Init initializes the structured logger with defaults
func Init() error {
	return InitWithConfig(Config{
		Level:      LevelInfo,
		OutputPath: "stdout",
		Format:     "text",
	})
}

// InitWithConfig initializes logger with custom config
func InitWithConfig(config Config) error {
	var w io.Writer = os.Stdout
	var closer io.Closer

	if config.OutputPath != "" && config.OutputPath != "stdout" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		w = f
		closer = f
	}

	SetLogger(New(w, config))

	mu.Lock()
	output = closer
	mu.Unlock()
	return nil
}

// New builds a logger writing to w without touching the global one.
func New(w io.Writer, config Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.Level == LevelDebug,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// SetLogger replaces the global logger, mostly useful in tests.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = l
	slog.SetDefault(l)
}

// Close releases the log file if one was opened
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}

// WithContext returns a logger with context values
func WithContext(ctx context.Context) *slog.Logger {
	return GetLogger()
}

// WithFields returns a logger with additional fields
func WithFields(fields ...any) *slog.Logger {
	return GetLogger().With(fields...)
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Infof logs an info message with formatting
func Infof(format string, args ...any) {
	GetLogger().Info(fmt.Sprintf(format, args...))
}

// Warnf logs a warning message with formatting
func Warnf(format string, args ...any) {
	GetLogger().Warn(fmt.Sprintf(format, args...))
}

// Errorf logs an error message with formatting
func Errorf(format string, args ...any) {
	GetLogger().Error(fmt.Sprintf(format, args...))
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}
