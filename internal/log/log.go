// Package log is a thin package-level wrapper around a global zap logger.
package log

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	global atomic.Pointer[zap.Logger]
)

func init() {
	global.Store(newLogger(nil))
}

func newLogger(opts []Option) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(opts...)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// L returns the current global logger.
func L() *zap.Logger {
	return global.Load()
}

// SetLogger replaces the global logger; nil installs a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	global.Store(l)
}

// Init rebuilds the global logger at the given level ("debug", "info",
// "warn", "error").
func Init(lvl string, opts ...Option) error {
	if err := SetLevel(lvl); err != nil {
		return err
	}
	global.Store(newLogger(opts))
	return nil
}

// SetLevel changes the level of loggers built by this package.
func SetLevel(lvl string) error {
	if lvl == "" {
		return nil
	}
	return level.UnmarshalText([]byte(lvl))
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

// Sync flushes any buffered log entries.
func Sync() error {
	return L().Sync()
}

// With returns a child of the global logger carrying fields.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}
