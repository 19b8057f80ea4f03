// Package scaler converts decoded frames between resolutions and pixel
// formats, and into Go images.
package scaler

import (
	"context"
	"fmt"
	"image"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/slidegrab/types"
)

type Scaler interface {
	fmt.Stringer
	Close(context.Context) error
	ScaleFrame(ctx context.Context, src *astiav.Frame, dst *astiav.Frame) error

	// ToImage scales src into an internal frame and returns it as an image.
	// The image is overwritten by the next call.
	ToImage(ctx context.Context, src *astiav.Frame) (image.Image, error)

	SourceResolution() types.Resolution
	SourcePixelFormat() astiav.PixelFormat
	DestinationResolution() types.Resolution
	DestinationPixelFormat() astiav.PixelFormat
}

// FrameResolution is the geometry of a decoded frame.
func FrameResolution(f *astiav.Frame) types.Resolution {
	return types.Resolution{
		Width:  uint32(f.Width()),
		Height: uint32(f.Height()),
	}
}

// AcceptsSource reports whether frames like f can be fed to s without
// recreating it.
func AcceptsSource(s Scaler, f *astiav.Frame) bool {
	return s != nil && s.SourceResolution() == FrameResolution(f) && s.SourcePixelFormat() == f.PixelFormat()
}
