// detector.go implements the streaming page-turn classifier.

// Package detector decides, one sampled frame at a time, whether the
// previously sampled frame should be committed as a slide.
package detector

import (
	"context"
	"fmt"
	"image"

	"github.com/xaionaro-go/slidegrab/imageprocessor"
	"github.com/xaionaro-go/slidegrab/indicator"
	"github.com/xaionaro-go/slidegrab/internal"
	"github.com/xaionaro-go/slidegrab/logger"
)

type State int

const (
	StateAwaitingBaseline State = iota
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateAwaitingBaseline:
		return "awaiting_baseline"
	case StateStreaming:
		return "streaming"
	}
	return fmt.Sprintf("unknown_state_%d", int(s))
}

type Phase int

const (
	PhaseUndefined Phase = iota
	PhaseEarly
	PhaseLate
)

func (p Phase) String() string {
	switch p {
	case PhaseUndefined:
		return "undefined"
	case PhaseEarly:
		return "early"
	case PhaseLate:
		return "late"
	}
	return fmt.Sprintf("unknown_phase_%d", int(p))
}

// Decision is the outcome of one tick.
type Decision struct {
	// ShouldCommit asks the caller to commit the frame retained from the
	// previous tick.
	ShouldCommit bool
	Ratio        float64
	Diff         uint64
	Average      float64
	Phase        Phase

	// Baseline is set on the very first tick, which only stores the frame.
	Baseline bool

	// HistoryReset is set when the rolling history was emptied by this tick.
	HistoryReset bool
}

type Detector struct {
	Config Config
	FPS    float64

	state    State
	lastGray *image.Gray
	history  *indicator.RollingHistory[uint64]
	ticks    uint64
}

// New validates the configuration; fps converts frame indexes into playback
// time for the phase boundary.
func New(cfg Config, fps float64) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !(fps > 0) {
		return nil, ErrInvalidConfig{Field: "fps", Reason: fmt.Sprintf("must be positive, got %v", fps)}
	}
	return &Detector{
		Config:  cfg,
		FPS:     fps,
		state:   StateAwaitingBaseline,
		history: indicator.NewRollingHistory[uint64](cfg.HistoryCapacity),
	}, nil
}

func (d *Detector) String() string {
	return fmt.Sprintf("Detector(%s, ticks:%d, %s)", d.state, d.ticks, d.history)
}

func (d *Detector) State() State {
	return d.state
}

func (d *Detector) Ticks() uint64 {
	return d.ticks
}

func (d *Detector) HistoryLen() int {
	return d.history.Len()
}

// History returns the stored difference magnitudes, oldest first.
func (d *Detector) History() []uint64 {
	return d.history.Values()
}

// EarlyPhaseEnd is the first frame index that belongs to the late phase.
func (d *Detector) EarlyPhaseEnd() float64 {
	return d.FPS * d.Config.EarlyPhaseDuration.Seconds()
}

func (d *Detector) PhaseAt(frameIndex uint64) Phase {
	if float64(frameIndex) < d.EarlyPhaseEnd() {
		return PhaseEarly
	}
	return PhaseLate
}

// Step consumes the preprocessed frame sampled at frameIndex (counted in
// source frames). The detector keeps gray as its new baseline; the caller
// must not modify it afterwards.
func (d *Detector) Step(
	ctx context.Context,
	gray *image.Gray,
	frameIndex uint64,
) (_ret Decision, _err error) {
	logger.Tracef(ctx, "Step(%d)", frameIndex)
	defer func() { logger.Tracef(ctx, "/Step(%d): %#+v %v", frameIndex, _ret, _err) }()

	if gray == nil {
		return Decision{}, ErrInvalidFrame{FrameIndex: frameIndex, Err: imageprocessor.ErrEmptyFrame{}}
	}
	if b := gray.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return Decision{}, ErrInvalidFrame{FrameIndex: frameIndex, Err: imageprocessor.ErrEmptyFrame{Bounds: b}}
	}

	if d.state == StateAwaitingBaseline {
		d.lastGray = gray
		d.state = StateStreaming
		d.ticks++
		return Decision{Baseline: true, Phase: d.PhaseAt(frameIndex)}, nil
	}

	currentDiff, err := imageprocessor.CountChangedPixels(d.lastGray, gray, d.Config.PixelNoiseThreshold)
	if err != nil {
		return Decision{}, ErrInvalidFrame{FrameIndex: frameIndex, Err: err}
	}

	avgDiff := float64(currentDiff)
	if d.history.Len() > 0 {
		avgDiff = d.history.Mean()
	}

	var ratio float64
	if avgDiff > 0 {
		ratio = float64(currentDiff) / avgDiff
	}

	decision := Decision{
		Diff:    currentDiff,
		Average: avgDiff,
		Ratio:   ratio,
		Phase:   d.PhaseAt(frameIndex),
	}

	switch decision.Phase {
	case PhaseEarly:
		decision.ShouldCommit = currentDiff > d.Config.EarlyPhaseThreshold
	case PhaseLate:
		decision.ShouldCommit = d.history.Len() > d.Config.MinHistoryLength && ratio > d.Config.SensitivityFactor
	}

	if decision.ShouldCommit {
		logger.Debugf(ctx, "change-point at frame %d: diff:%d avg:%.1f ratio:%.2f phase:%s", frameIndex, currentDiff, avgDiff, ratio, decision.Phase)
		d.history.Reset()
		decision.HistoryReset = true
	}

	if currentDiff > d.Config.NoiseFloor {
		d.history.Push(currentDiff)
	}
	internal.Assert(ctx, d.history.Len() <= d.Config.HistoryCapacity, d.history.Len(), d.Config.HistoryCapacity)
	if logger.TraceEnabled {
		logger.Tracef(ctx, "history after frame %d: %v", frameIndex, d.history.Values())
	}

	d.lastGray = gray
	d.ticks++
	return decision, nil
}
