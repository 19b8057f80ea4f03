// extractor.go implements the per-video extraction loop: sample, preprocess,
// detect, commit.

// Package slidegrab turns screen-recorded lectures into slide decks by
// committing the last frame shown before every page turn.
package slidegrab

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/xaionaro-go/slidegrab/detector"
	"github.com/xaionaro-go/slidegrab/framesource"
	"github.com/xaionaro-go/slidegrab/imageprocessor"
	"github.com/xaionaro-go/slidegrab/internal"
	"github.com/xaionaro-go/slidegrab/logger"
	"github.com/xaionaro-go/slidegrab/slidesink"
	"github.com/xaionaro-go/xcontext"
)

type Extractor struct {
	Config Config

	// NewPreprocessor builds one preprocessor per video; nil means the
	// software implementation.
	NewPreprocessor imageprocessor.Factory
}

func NewExtractor(cfg Config) *Extractor {
	return &Extractor{Config: cfg}
}

// Result summarizes one extraction.
type Result struct {
	Source          string
	Ticks           uint64
	FramesRead      uint64
	SlidesCommitted uint64

	// Empty is set when the video yielded no frames at all.
	Empty bool

	// Duration is the wall-clock time the extraction took.
	Duration time.Duration
}

func (r *Result) String() string {
	return fmt.Sprintf("'%s': %d slides (%d ticks, %d frames, %v)", r.Source, r.SlidesCommitted, r.Ticks, r.FramesRead, r.Duration)
}

// pendingFrame is the candidate slide: the most recent sampled frame.
type pendingFrame struct {
	FrameIndex uint64
	Timestamp  time.Duration
	Image      *image.RGBA
}

func newPendingFrame(frame *framesource.Frame) *pendingFrame {
	return &pendingFrame{
		FrameIndex: frame.Index,
		Timestamp:  frame.Timestamp,
		Image:      clone.AsRGBA(frame.Image),
	}
}

func (e *Extractor) Extract(
	ctx context.Context,
	name string,
	src framesource.Source,
	sink slidesink.Sink,
) (*Result, error) {
	return e.ExtractWithStatistics(ctx, name, src, sink, &Statistics{})
}

// ExtractWithStatistics runs the extraction loop until the source ends, it
// fails, or ctx is cancelled. In all three cases the pending frame is
// committed before returning, unless the sink itself failed.
func (e *Extractor) ExtractWithStatistics(
	ctx context.Context,
	name string,
	src framesource.Source,
	sink slidesink.Sink,
	stats *Statistics,
) (_ret *Result, _err error) {
	ctx = logger.WithField(ctx, "video", name)
	logger.Debugf(ctx, "Extract(ctx, '%s', %s, %s)", name, src, sink)
	defer func() { logger.Debugf(ctx, "/Extract(ctx, '%s', %s, %s): %v %v", name, src, sink, _ret, _err) }()

	if err := e.Config.Validate(); err != nil {
		return nil, err
	}
	startedAt := time.Now()

	sampler, err := framesource.NewSampler(ctx, src, e.Config.SamplingInterval)
	if err != nil {
		return nil, err
	}
	stats.TotalFrames.Store(src.Info(ctx).TotalFrames)

	det, err := detector.New(e.Config.Detector, sampler.FPS)
	if err != nil {
		return nil, err
	}

	pre, err := e.newPreprocessor(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the preprocessor: %w", err)
	}
	defer func() {
		if err := pre.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close %s: %v", pre, err)
		}
	}()

	result := &Result{Source: name}
	defer func() {
		result.Ticks = det.Ticks()
		result.FramesRead = sampler.FramesGrabbed.Load()
		result.Empty = result.Ticks == 0
		result.Duration = time.Since(startedAt)
	}()

	commit := func(ctx context.Context, pending *pendingFrame, ratio float64) error {
		number, err := sink.AppendSlide(ctx, slidesink.Slide{
			Source:     name,
			FrameIndex: pending.FrameIndex,
			Timestamp:  pending.Timestamp,
			Ratio:      ratio,
			Image:      pending.Image,
		})
		if err != nil {
			return fmt.Errorf("unable to append a slide to %s: %w", sink, err)
		}
		result.SlidesCommitted++
		stats.SlidesCommitted.Inc()
		logger.Infof(ctx, "slide #%d at %s (ratio %.2f)", number, formatTimestamp(pending.Timestamp), ratio)
		return nil
	}

	var (
		pending *pendingFrame
		loopErr error
	)
	for {
		frame, err := sampler.Next(ctx)
		stats.FramesRead.Store(sampler.FramesGrabbed.Load())
		if err != nil {
			if !errors.Is(err, io.EOF) {
				loopErr = err
			}
			break
		}

		gray, err := pre.Preprocess(ctx, frame.Image)
		if err != nil {
			loopErr = framesource.ErrDecode{Source: name, FrameIndex: frame.Index, Err: err}
			break
		}

		decision, err := det.Step(ctx, gray, frame.Index)
		if err != nil {
			loopErr = framesource.ErrDecode{Source: name, FrameIndex: frame.Index, Err: err}
			break
		}
		stats.TicksProcessed.Inc()

		if decision.ShouldCommit {
			internal.Assert(ctx, pending != nil, frame.Index)
			if err := commit(ctx, pending, decision.Ratio); err != nil {
				return result, err
			}
		}
		pending = newPendingFrame(frame)
	}

	if loopErr != nil {
		logger.Warnf(ctx, "stopping at frame %d: %v", sampler.FramesGrabbed.Load(), loopErr)
	}

	if pending != nil {
		flushCtx := ctx
		if ctx.Err() != nil {
			flushCtx = xcontext.DetachDone(ctx)
		}
		if err := commit(flushCtx, pending, 0); err != nil {
			return result, errors.Join(loopErr, err)
		}
	}
	if det.Ticks() == 0 && loopErr == nil {
		logger.Warnf(ctx, "'%s' contains no frames", name)
	}
	return result, loopErr
}

func (e *Extractor) newPreprocessor(ctx context.Context) (imageprocessor.Preprocessor, error) {
	if e.NewPreprocessor != nil {
		return e.NewPreprocessor(ctx, e.Config.Preprocessor)
	}
	return imageprocessor.New(ctx, imageprocessor.NameSoftware, e.Config.Preprocessor)
}

func formatTimestamp(ts time.Duration) string {
	ts = ts.Round(time.Second)
	h := ts / time.Hour
	m := (ts % time.Hour) / time.Minute
	s := (ts % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
