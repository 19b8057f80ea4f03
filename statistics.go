package slidegrab

import (
	"go.uber.org/atomic"
)

// Statistics is updated by a running extraction and may be read
// concurrently, e.g. to render progress.
type Statistics struct {
	TotalFrames     atomic.Uint64
	FramesRead      atomic.Uint64
	TicksProcessed  atomic.Uint64
	SlidesCommitted atomic.Uint64
}

type StatisticsSnapshot struct {
	TotalFrames     uint64
	FramesRead      uint64
	TicksProcessed  uint64
	SlidesCommitted uint64
}

func (stats *Statistics) Convert() StatisticsSnapshot {
	return StatisticsSnapshot{
		TotalFrames:     stats.TotalFrames.Load(),
		FramesRead:      stats.FramesRead.Load(),
		TicksProcessed:  stats.TicksProcessed.Load(),
		SlidesCommitted: stats.SlidesCommitted.Load(),
	}
}

// Progress is the share of frames read, within [0, 1]; zero when the total
// is unknown.
func (s StatisticsSnapshot) Progress() float64 {
	if s.TotalFrames == 0 {
		return 0
	}
	p := float64(s.FramesRead) / float64(s.TotalFrames)
	if p > 1 {
		p = 1
	}
	return p
}
