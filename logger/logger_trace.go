//go:build debug_trace
// +build debug_trace

package logger

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// TraceEnabled is true in builds with the debug_trace tag.
const TraceEnabled = true

// Tracef is compiled in only with the debug_trace tag; per-frame logging is
// too hot for the regular build.
func Tracef(ctx context.Context, format string, args ...any) {
	logger.Tracef(ctx, format, args...)
}
