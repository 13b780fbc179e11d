// Package logging provides the structured, level-tagged diagnostic logger
// shared by every engine in the solver. It never carries business data
// (route contents, coordinates, customer identifiers) — only solve-scoped
// metadata (seed, algorithm, generation/iteration counters, durations).
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel represents logging level
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      LogLevel
	Format     string // "json" or "text"
	Output     io.Writer
	AddSource  bool // Add source file and line number
	TimeFormat string
}

// DefaultLoggerConfig returns default logger configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:      LevelInfo,
		Format:     "json",
		Output:     os.Stdout,
		AddSource:  true,
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
	config *LoggerConfig
}

// NewLogger creates a new structured logger
func NewLogger(config *LoggerConfig) *Logger {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	var level slog.Level
	switch config.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelInfo:
		level = slog.LevelInfo
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
		config: config,
	}
}

// WithContext returns a logger with context values attached.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{
		Logger: l.Logger.With(contextFields(ctx)...),
		config: l.config,
	}
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{
		Logger: l.Logger.With(args...),
		config: l.config,
	}
}

// WithField returns a logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.With(key, value),
		config: l.config,
	}
}

// LogError logs an error with contextual fields.
func (l *Logger) LogError(err error, message string, fields map[string]interface{}) {
	args := []interface{}{"error", err}
	for k, v := range fields {
		args = append(args, k, v)
	}
	l.Error(message, args...)
}

// LogSolveStart logs the beginning of a solve.
func (l *Logger) LogSolveStart(algorithm string, locationCount, vehicleCount int, seed int64) {
	l.Info("solve started",
		"algorithm", algorithm,
		"locations", locationCount,
		"vehicles", vehicleCount,
		"seed", seed,
	)
}

// LogSolveComplete logs the completion of a solve.
func (l *Logger) LogSolveComplete(algorithm string, iterations int, duration time.Duration, fitness float64, cancelled bool) {
	l.Info("solve completed",
		"algorithm", algorithm,
		"iterations", iterations,
		"duration", duration,
		"fitness", fitness,
		"cancelled", cancelled,
	)
}

// LogIteration logs per-generation/iteration engine progress at debug level.
func (l *Logger) LogIteration(algorithm string, iteration int, bestFitness, bestCost float64) {
	l.Debug("engine iteration",
		"algorithm", algorithm,
		"iteration", iteration,
		"best_fitness", bestFitness,
		"best_cost", bestCost,
	)
}

// Helper function to extract context fields
func contextFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0)

	if requestID := ctx.Value("request_id"); requestID != nil {
		fields = append(fields, "request_id", requestID)
	}

	return fields
}

// Global logger instance
var defaultLogger *Logger

// InitDefaultLogger initializes the global logger
func InitDefaultLogger(config *LoggerConfig) {
	defaultLogger = NewLogger(config)
}

// GetLogger returns the global logger
func GetLogger() *Logger {
	if defaultLogger == nil {
		defaultLogger = NewLogger(DefaultLoggerConfig())
	}
	return defaultLogger
}

// Convenience functions using global logger

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	GetLogger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	GetLogger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	GetLogger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	GetLogger().Error(msg, args...)
}

// WithFields returns a logger with fields
func WithFields(fields map[string]interface{}) *Logger {
	return GetLogger().WithFields(fields)
}

// WithField returns a logger with a field
func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}
