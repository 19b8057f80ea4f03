package slidesink

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/xsync"
)

// Serialized makes a Sink safe to share between concurrently extracted
// videos. Slides land in the order AppendSlide calls acquire the lock.
type Serialized struct {
	locker xsync.Mutex
	Sink   Sink
}

var _ Sink = (*Serialized)(nil)

func NewSerialized(sink Sink) *Serialized {
	return &Serialized{Sink: sink}
}

func (s *Serialized) String() string {
	return fmt.Sprintf("Serialized(%s)", s.Sink)
}

func (s *Serialized) AppendSlide(ctx context.Context, slide Slide) (uint, error) {
	return xsync.DoA1R2(xsync.WithNoLogging(ctx, true), &s.locker, func(slide Slide) (uint, error) {
		return s.Sink.AppendSlide(ctx, slide)
	}, slide)
}

func (s *Serialized) Close(ctx context.Context) error {
	return xsync.DoA1R1(xsync.WithNoLogging(ctx, true), &s.locker, s.Sink.Close, ctx)
}
