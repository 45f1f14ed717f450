package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// Init initializes the global structured logger
func Init() {
	once.Do(func() {
		base, err := zap.NewProduction()
		if err != nil {
			base = zap.NewNop()
		}
		logger = base.Sugar()
	})
}

// L returns the global logger instance
func L() *zap.SugaredLogger {
	if logger == nil {
		Init()
	}
	return logger
}

// Info is a shorthand for L().Infow
func Info(msg string, args ...any) {
	L().Infow(msg, args...)
}

// Error is a shorthand for L().Errorw
func Error(msg string, args ...any) {
	L().Errorw(msg, args...)
}

// Debug is a shorthand for L().Debugw
func Debug(msg string, args ...any) {
	L().Debugw(msg, args...)
}

// Warn is a shorthand for L().Warnw
func Warn(msg string, args ...any) {
	L().Warnw(msg, args...)
}
