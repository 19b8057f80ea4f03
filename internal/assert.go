// Package internal holds helpers shared by slidegrab packages only.
package internal

import (
	"context"
	"fmt"

	xruntime "github.com/facebookincubator/go-belt/pkg/runtime"
	"github.com/xaionaro-go/slidegrab/logger"
)

// Assert panics through the context logger when an invariant is broken,
// naming the caller.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	file, line := caller()
	msg := fmt.Sprintf("assertion failed at %s:%d: %v", file, line, extraArgs)
	logger.Panic(ctx, msg)
	// a logger without a panic hook returns here
	panic(msg)
}

func caller() (string, int) {
	skipped := 0
	return xruntime.Caller(func(pc uintptr) bool {
		if skipped >= 2 {
			return true
		}
		skipped++
		return false
	}).FileLine()
}
