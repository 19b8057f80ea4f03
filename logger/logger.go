// logger.go provides the context-carried logging shorthands used across slidegrab.

// Package logger wraps go-belt so that every package logs through the
// logger stored in the context.
package logger

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
)

type Logger = logger.Logger

// New returns the logrus-backed logger the CLI installs.
func New(level Level) Logger {
	return logrus.Default().WithLevel(level)
}

func SetDefault(defaultLogger func() Logger) {
	logger.Default = defaultLogger
}

func FromCtx(ctx context.Context) Logger {
	return logger.FromCtx(ctx)
}

func CtxWithLogger(ctx context.Context, l Logger) context.Context {
	return logger.CtxWithLogger(ctx, l)
}

// WithField returns a context whose logger attaches the field to every entry.
func WithField(ctx context.Context, key string, value any) context.Context {
	return CtxWithLogger(ctx, FromCtx(ctx).WithField(key, value))
}

// Panic logs the values and panics.
func Panic(ctx context.Context, values ...any) {
	logger.Panic(ctx, values...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	logger.Debugf(ctx, format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	logger.Infof(ctx, format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	logger.Warnf(ctx, format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	logger.Errorf(ctx, format, args...)
}
