package scaler

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/slidegrab/logger"
	"github.com/xaionaro-go/slidegrab/types"
)

// Software is a libswscale context together with the destination frame
// ToImage renders into.
type Software struct {
	swsCtx    *astiav.SoftwareScaleContext
	dstFrame  *astiav.Frame
	dstImage  image.Image
	closeOnce sync.Once
	closed    bool
}

var _ Scaler = (*Software)(nil)

func NewSoftware(
	ctx context.Context,
	src types.Resolution,
	srcPixFmt astiav.PixelFormat,
	dst types.Resolution,
	dstPixFmt astiav.PixelFormat,
	opts ...astiav.SoftwareScaleContextFlag,
) (*Software, error) {
	if src.IsZero() || dst.IsZero() {
		return nil, fmt.Errorf("invalid scaling geometry %s -> %s", src, dst)
	}
	swsCtx, err := astiav.CreateSoftwareScaleContext(
		int(src.Width),
		int(src.Height),
		srcPixFmt,
		int(dst.Width),
		int(dst.Height),
		dstPixFmt,
		astiav.NewSoftwareScaleContextFlags(opts...),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create a software scale context %s:%s -> %s:%s: %w", src, srcPixFmt, dst, dstPixFmt, err)
	}
	logger.Debugf(ctx, "created a software scaler %s:%s -> %s:%s", src, srcPixFmt, dst, dstPixFmt)
	return &Software{swsCtx: swsCtx}, nil
}

// NewSoftwareToRGBA keeps the geometry of frames like f and converts them to RGBA.
func NewSoftwareToRGBA(ctx context.Context, f *astiav.Frame) (*Software, error) {
	res := FrameResolution(f)
	return NewSoftware(ctx, res, f.PixelFormat(), res, astiav.PixelFormatRgba, astiav.SoftwareScaleContextFlagBilinear)
}

func (s *Software) String() string {
	return fmt.Sprintf(
		"SoftwareScaler(%s:%s -> %s:%s)",
		s.SourceResolution(), s.SourcePixelFormat(),
		s.DestinationResolution(), s.DestinationPixelFormat(),
	)
}

func (s *Software) Close(ctx context.Context) error {
	logger.Tracef(ctx, "Close")
	defer logger.Tracef(ctx, "/Close")
	s.closeOnce.Do(func() {
		s.closed = true
		if s.dstFrame != nil {
			s.dstFrame.Free()
			s.dstFrame, s.dstImage = nil, nil
		}
		s.swsCtx.Free()
	})
	return nil
}

func (s *Software) ScaleFrame(
	ctx context.Context,
	src *astiav.Frame,
	dst *astiav.Frame,
) (_err error) {
	logger.Tracef(ctx, "ScaleFrame")
	defer func() { logger.Tracef(ctx, "/ScaleFrame: %v", _err) }()
	if s.closed {
		return fmt.Errorf("scaler is closed")
	}
	if err := s.swsCtx.ScaleFrame(src, dst); err != nil {
		return fmt.Errorf("unable to scale a frame: %w", err)
	}
	return nil
}

func (s *Software) ToImage(
	ctx context.Context,
	src *astiav.Frame,
) (image.Image, error) {
	if s.closed {
		return nil, fmt.Errorf("scaler is closed")
	}
	if s.dstFrame == nil {
		if err := s.allocDestination(); err != nil {
			return nil, err
		}
	}
	if err := s.ScaleFrame(ctx, src, s.dstFrame); err != nil {
		return nil, err
	}
	if err := s.dstFrame.Data().ToImage(s.dstImage); err != nil {
		return nil, fmt.Errorf("unable to convert the %s frame to an image: %w", s.DestinationPixelFormat(), err)
	}
	return s.dstImage, nil
}

func (s *Software) allocDestination() error {
	res := s.DestinationResolution()
	f := astiav.AllocFrame()
	f.SetWidth(int(res.Width))
	f.SetHeight(int(res.Height))
	f.SetPixelFormat(s.DestinationPixelFormat())
	if err := f.AllocBuffer(1); err != nil {
		f.Free()
		return fmt.Errorf("unable to allocate a %s:%s frame: %w", res, s.DestinationPixelFormat(), err)
	}
	img, err := f.Data().GuessImageFormat()
	if err != nil {
		f.Free()
		return fmt.Errorf("unable to pick an image type for %s: %w", s.DestinationPixelFormat(), err)
	}
	s.dstFrame, s.dstImage = f, img
	return nil
}

func (s *Software) SourceResolution() types.Resolution {
	return types.Resolution{
		Width:  uint32(s.swsCtx.SourceWidth()),
		Height: uint32(s.swsCtx.SourceHeight()),
	}
}

func (s *Software) SourcePixelFormat() astiav.PixelFormat {
	return s.swsCtx.SourcePixelFormat()
}

func (s *Software) DestinationResolution() types.Resolution {
	return types.Resolution{
		Width:  uint32(s.swsCtx.DestinationWidth()),
		Height: uint32(s.swsCtx.DestinationHeight()),
	}
}

func (s *Software) DestinationPixelFormat() astiav.PixelFormat {
	return s.swsCtx.DestinationPixelFormat()
}
