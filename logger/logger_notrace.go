//go:build !debug_trace
// +build !debug_trace

package logger

import (
	"context"
)

const TraceEnabled = false

func Tracef(context.Context, string, ...any) {}
