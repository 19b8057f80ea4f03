// abstract.go defines the Source interface the extraction loop pulls frames from.

// Package framesource supplies decoded video frames at a fixed sampling stride.
package framesource

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/xaionaro-go/slidegrab/types"
)

// DefaultFPS is assumed when the container does not report a frame rate.
const DefaultFPS = 30

type Info struct {
	FPS         float64
	TotalFrames uint64
	Resolution  types.Resolution
}

func (i Info) Duration() time.Duration {
	if i.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(i.TotalFrames) / i.FPS * float64(time.Second))
}

// Source follows the grab/retrieve model: Grab advances one decoded frame
// cheaply, Retrieve converts the last grabbed frame into an image.
type Source interface {
	fmt.Stringer
	Info(ctx context.Context) Info

	// Grab returns the index of the next decoded frame, or io.EOF.
	Grab(ctx context.Context) (uint64, error)

	// Retrieve returns the frame last grabbed. The image may be reused by
	// the next Retrieve call.
	Retrieve(ctx context.Context) (image.Image, error)

	Close(ctx context.Context) error
}

// Frame is one sampled frame.
type Frame struct {
	Index     uint64
	Timestamp time.Duration
	Image     image.Image
}
