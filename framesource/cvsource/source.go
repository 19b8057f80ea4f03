//go:build with_cv
// +build with_cv

// Package cvsource decodes video files with OpenCV's VideoCapture.
package cvsource

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/xaionaro-go/slidegrab/framesource"
	"github.com/xaionaro-go/slidegrab/logger"
	"github.com/xaionaro-go/slidegrab/types"
	"gocv.io/x/gocv"
)

const BackendName = "cv"

func init() {
	framesource.RegisterBackend(BackendName, func(ctx context.Context, url string) (framesource.Source, error) {
		return Open(ctx, url)
	})
}

type Source struct {
	URL string

	capture    *gocv.VideoCapture
	frame      gocv.Mat
	info       framesource.Info
	frameCount uint64
	grabbed    bool
}

var _ framesource.Source = (*Source)(nil)

func Open(ctx context.Context, url string) (*Source, error) {
	capture, err := gocv.VideoCaptureFile(url)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", url, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("unable to open '%s'", url)
	}

	s := &Source{
		URL:     url,
		capture: capture,
		frame:   gocv.NewMat(),
	}
	s.info = framesource.Info{
		FPS: capture.Get(gocv.VideoCaptureFPS),
		Resolution: types.Resolution{
			Width:  uint32(capture.Get(gocv.VideoCaptureFrameWidth)),
			Height: uint32(capture.Get(gocv.VideoCaptureFrameHeight)),
		},
	}
	if count := capture.Get(gocv.VideoCaptureFrameCount); count > 0 {
		s.info.TotalFrames = uint64(count)
	}
	logger.Debugf(ctx, "opened '%s': %#+v", url, s.info)
	return s, nil
}

func (s *Source) String() string {
	return fmt.Sprintf("cv(%s)", s.URL)
}

func (s *Source) Info(ctx context.Context) framesource.Info {
	return s.info
}

func (s *Source) Grab(ctx context.Context) (uint64, error) {
	if s.capture == nil {
		return s.frameCount, io.EOF
	}
	if !s.capture.Read(&s.frame) || s.frame.Empty() {
		s.grabbed = false
		return s.frameCount, io.EOF
	}
	s.grabbed = true
	idx := s.frameCount
	s.frameCount++
	return idx, nil
}

func (s *Source) Retrieve(ctx context.Context) (image.Image, error) {
	if !s.grabbed {
		return nil, fmt.Errorf("no frame was grabbed")
	}
	img, err := s.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("unable to convert frame #%d: %w", s.frameCount-1, err)
	}
	return img, nil
}

func (s *Source) Close(ctx context.Context) error {
	if s.capture == nil {
		return nil
	}
	s.frame.Close()
	err := s.capture.Close()
	s.capture = nil
	return err
}
