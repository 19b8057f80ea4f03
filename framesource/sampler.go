package framesource

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xaionaro-go/slidegrab/logger"
	"go.uber.org/atomic"
)

// Sampler yields every Stride-th frame of a Source, starting at frame 0.
type Sampler struct {
	Source Source
	FPS    float64
	Stride uint64

	FramesGrabbed atomic.Uint64
}

// NewSampler derives the stride from the frame rate and the sampling
// interval, the way a fixed wall-clock sampling does: int(fps*interval),
// never less than 1.
func NewSampler(ctx context.Context, src Source, interval time.Duration) (*Sampler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %v", interval)
	}
	fps := src.Info(ctx).FPS
	if !(fps > 0) || math.IsInf(fps, 0) {
		logger.Warnf(ctx, "'%s' reports no usable frame rate (%v), assuming %d", src, fps, DefaultFPS)
		fps = DefaultFPS
	}
	stride := uint64(fps * interval.Seconds())
	if stride < 1 {
		stride = 1
	}
	logger.Debugf(ctx, "sampling '%s' every %d frames (fps:%v, interval:%v)", src, stride, fps, interval)
	return &Sampler{
		Source: src,
		FPS:    fps,
		Stride: stride,
	}, nil
}

func (s *Sampler) String() string {
	return fmt.Sprintf("Sampler(%s, stride:%d)", s.Source, s.Stride)
}

// Next returns the next sampled frame or io.EOF. Decoding failures and
// empty images are reported as ErrDecode.
func (s *Sampler) Next(ctx context.Context) (*Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx, err := s.Source.Grab(ctx)
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, s.decodeError(idx, err)
		}
		s.FramesGrabbed.Store(idx + 1)
		if idx%s.Stride != 0 {
			continue
		}

		img, err := s.Source.Retrieve(ctx)
		if err != nil {
			return nil, s.decodeError(idx, err)
		}
		if img == nil || img.Bounds().Empty() {
			return nil, s.decodeError(idx, fmt.Errorf("the decoded frame is empty"))
		}
		return &Frame{
			Index:     idx,
			Timestamp: FrameTimestamp(idx, s.FPS),
			Image:     img,
		}, nil
	}
}

func (s *Sampler) decodeError(idx uint64, err error) error {
	if decodeErr, ok := err.(ErrDecode); ok {
		return decodeErr
	}
	return ErrDecode{Source: s.Source.String(), FrameIndex: idx, Err: err}
}

// FrameTimestamp returns the playback offset of the frame with the given
// decode index at a constant frame rate.
func FrameTimestamp(frameIndex uint64, fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(frameIndex) / fps * float64(time.Second))
}
