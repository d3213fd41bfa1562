package logger

import (
	"log/slog"
	"os"

	"go.uber.org/zap"
)

var logger *slog.Logger

// Init initializes the logger with the specified verbose level
func Init(verbose bool) {
	level := slog.LevelWarn
	zapLevel := zap.WarnLevel
	if verbose {
		level = slog.LevelDebug
		zapLevel = zap.DebugLevel
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)
	if zl, err := zapCfg.Build(); err == nil {
		zap.ReplaceGlobals(zl)
	}
}

// Close flushes any buffered log entries
func Close() {
	_ = zap.L().Sync()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}
