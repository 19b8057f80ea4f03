// source.go implements a framesource.Source on top of libavformat/libavcodec.

// Package libav decodes video files with FFmpeg (via go-astiav) and hands the
// frames out as RGBA images.
package libav

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/slidegrab/avconv"
	"github.com/xaionaro-go/slidegrab/framesource"
	"github.com/xaionaro-go/slidegrab/logger"
	"github.com/xaionaro-go/slidegrab/pool"
	"github.com/xaionaro-go/slidegrab/scaler"
	"github.com/xaionaro-go/slidegrab/types"
)

const BackendName = "libav"

func init() {
	framesource.RegisterBackend(BackendName, func(ctx context.Context, url string) (framesource.Source, error) {
		return Open(ctx, url)
	})
}

var framePool = pool.NewPool(
	astiav.AllocFrame,
	func(f *astiav.Frame) { f.Unref() },
	func(f *astiav.Frame) { f.Free() },
)

type Source struct {
	URL string

	formatContext *astiav.FormatContext
	codecContext  *astiav.CodecContext
	stream        *astiav.Stream
	packet        *astiav.Packet
	info          framesource.Info
	closer        *astikit.Closer

	decoded    *astiav.Frame
	frameCount uint64
	draining   bool
	eof        bool
	scaler     *scaler.Software
}

var _ framesource.Source = (*Source)(nil)

func Open(
	ctx context.Context,
	url string,
) (_ret *Source, _err error) {
	logger.Debugf(ctx, "Open(ctx, '%s')", url)
	defer func() { logger.Debugf(ctx, "/Open(ctx, '%s'): %v", url, _err) }()

	s := &Source{
		URL:    url,
		closer: astikit.NewCloser(),
	}
	defer func() {
		if _err != nil {
			_ = s.Close(ctx)
		}
	}()

	s.formatContext = astiav.AllocFormatContext()
	if s.formatContext == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	s.closer.Add(s.formatContext.Free)

	if err := s.formatContext.OpenInput(url, nil, nil); err != nil {
		return nil, fmt.Errorf("unable to open input '%s': %w", url, err)
	}
	s.closer.Add(s.formatContext.CloseInput)

	if err := s.formatContext.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("unable to get stream info: %w", err)
	}

	s.stream = avconv.FindVideoStream(ctx, s.formatContext)
	if s.stream == nil {
		return nil, fmt.Errorf("'%s' has no video stream", url)
	}
	codecParams := s.stream.CodecParameters()

	codec := astiav.FindDecoder(codecParams.CodecID())
	if codec == nil {
		return nil, fmt.Errorf("no decoder for codec %s", codecParams.CodecID())
	}
	s.codecContext = astiav.AllocCodecContext(codec)
	if s.codecContext == nil {
		return nil, fmt.Errorf("unable to allocate a codec context for %s", codecParams.CodecID())
	}
	s.closer.Add(s.codecContext.Free)

	if err := codecParams.ToCodecContext(s.codecContext); err != nil {
		return nil, fmt.Errorf("unable to copy the codec parameters: %w", err)
	}
	if err := s.codecContext.Open(codec, nil); err != nil {
		return nil, fmt.Errorf("unable to open the decoder: %w", err)
	}

	s.packet = astiav.AllocPacket()
	s.closer.Add(s.packet.Free)

	s.info = s.probeInfo(ctx)
	logger.Debugf(ctx, "video stream #%d of '%s': %s", s.stream.Index(), url, spew.Sdump(s.info))
	return s, nil
}

func (s *Source) probeInfo(ctx context.Context) framesource.Info {
	codecParams := s.stream.CodecParameters()
	info := framesource.Info{
		Resolution: types.Resolution{
			Width:  uint32(codecParams.Width()),
			Height: uint32(codecParams.Height()),
		},
	}

	if rate := s.stream.AvgFrameRate(); rate.Den() != 0 && rate.Num() > 0 {
		info.FPS = rate.Float64()
	} else if rate := s.stream.RFrameRate(); rate.Den() != 0 && rate.Num() > 0 {
		info.FPS = rate.Float64()
	}

	if nb := s.stream.NbFrames(); nb > 0 {
		info.TotalFrames = uint64(nb)
		return info
	}

	duration := avconv.StreamDuration(s.formatContext, s.stream)
	fps := info.FPS
	if fps <= 0 {
		fps = framesource.DefaultFPS
	}
	if duration > 0 {
		info.TotalFrames = uint64(duration.Seconds() * fps)
	}
	logger.Tracef(ctx, "estimated the frame count from the duration %v: %d", duration, info.TotalFrames)
	return info
}

func (s *Source) String() string {
	return fmt.Sprintf("libav(%s)", s.URL)
}

func (s *Source) Info(ctx context.Context) framesource.Info {
	return s.info
}

// Grab decodes the next video frame. The returned index is the count of
// frames decoded before it.
func (s *Source) Grab(ctx context.Context) (_ uint64, _err error) {
	logger.Tracef(ctx, "Grab")
	defer func() { logger.Tracef(ctx, "/Grab: %v", _err) }()

	if s.eof {
		return s.frameCount, io.EOF
	}
	if s.decoded != nil {
		framePool.Put(s.decoded)
		s.decoded = nil
	}

	f := framePool.Get()
	for {
		if err := ctx.Err(); err != nil {
			framePool.Put(f)
			return s.frameCount, err
		}

		err := s.codecContext.ReceiveFrame(f)
		switch {
		case err == nil:
			s.decoded = f
			idx := s.frameCount
			s.frameCount++
			return idx, nil
		case errors.Is(err, astiav.ErrEof):
			framePool.Put(f)
			s.eof = true
			return s.frameCount, io.EOF
		case !errors.Is(err, astiav.ErrEagain):
			framePool.Put(f)
			return s.frameCount, fmt.Errorf("unable to receive a frame: %w", err)
		}

		if s.draining {
			framePool.Put(f)
			s.eof = true
			return s.frameCount, io.EOF
		}
		if err := s.feedPacket(ctx); err != nil {
			framePool.Put(f)
			return s.frameCount, err
		}
	}
}

// feedPacket sends the next packet of the video stream to the decoder, or
// starts draining it at the end of the container.
func (s *Source) feedPacket(ctx context.Context) error {
	for {
		err := s.formatContext.ReadFrame(s.packet)
		switch {
		case err == nil:
		case errors.Is(err, astiav.ErrEof), errors.Is(err, astiav.ErrEio):
			logger.Debugf(ctx, "end of '%s', draining the decoder", s.URL)
			s.draining = true
			if err := s.codecContext.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
				return fmt.Errorf("unable to flush the decoder: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("unable to read a packet: %w", err)
		}

		if s.packet.StreamIndex() != s.stream.Index() {
			s.packet.Unref()
			continue
		}
		err = s.codecContext.SendPacket(s.packet)
		s.packet.Unref()
		if err != nil && !errors.Is(err, astiav.ErrEagain) {
			return fmt.Errorf("unable to send a packet to the decoder: %w", err)
		}
		return nil
	}
}

// Retrieve converts the last grabbed frame into RGBA. The returned image is
// overwritten by the next call.
func (s *Source) Retrieve(ctx context.Context) (_ image.Image, _err error) {
	logger.Tracef(ctx, "Retrieve")
	defer func() { logger.Tracef(ctx, "/Retrieve: %v", _err) }()

	if s.decoded == nil {
		return nil, fmt.Errorf("no frame was grabbed")
	}
	if scaler.FrameResolution(s.decoded).IsZero() {
		return nil, fmt.Errorf("the decoded frame has zero size")
	}

	if s.scaler == nil || !scaler.AcceptsSource(s.scaler, s.decoded) {
		s.closeScaler(ctx)
		sws, err := scaler.NewSoftwareToRGBA(ctx, s.decoded)
		if err != nil {
			return nil, err
		}
		s.scaler = sws
	}
	return s.scaler.ToImage(ctx, s.decoded)
}

func (s *Source) closeScaler(ctx context.Context) {
	if s.scaler == nil {
		return
	}
	_ = s.scaler.Close(ctx)
	s.scaler = nil
}

func (s *Source) Close(ctx context.Context) error {
	logger.Debugf(ctx, "Close: %s", s)
	if s.decoded != nil {
		framePool.Put(s.decoded)
		s.decoded = nil
	}
	s.closeScaler(ctx)
	s.eof = true
	logger.Debugf(ctx, "frame pool: %s", framePool)
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
