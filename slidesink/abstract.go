// abstract.go defines the Sink interface committed slides are written to.

// Package slidesink stores committed slides as a deck: in memory, as JPEG
// files, as a zip archive or as a PDF document.
package slidesink

import (
	"context"
	"fmt"
	"image"
	"time"
)

// Slide is one committed frame.
type Slide struct {
	// Number is assigned by the sink, starting from 1 in commit order.
	Number     uint
	Source     string
	FrameIndex uint64
	Timestamp  time.Duration
	Ratio      float64

	// Image is owned by the sink once appended.
	Image image.Image
}

func (s Slide) String() string {
	return fmt.Sprintf("slide #%d of '%s' (frame:%d, at:%v, ratio:%.2f)", s.Number, s.Source, s.FrameIndex, s.Timestamp, s.Ratio)
}

type Sink interface {
	fmt.Stringer

	// AppendSlide adds the slide at the end of the deck and returns the
	// number it was assigned.
	AppendSlide(ctx context.Context, slide Slide) (uint, error)

	// Close persists the deck. A failed Close keeps the slides, so it may
	// be called again.
	Close(ctx context.Context) error
}
