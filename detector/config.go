package detector

import (
	"fmt"
	"time"
)

const (
	PresetTwoPhase     = "two-phase"
	PresetRelativeOnly = "relative-only"
)

type Config struct {
	// EarlyPhaseDuration is the playback time during which the absolute
	// threshold is used instead of the ratio; zero disables the early phase.
	EarlyPhaseDuration time.Duration `yaml:"early_phase_duration"`

	// EarlyPhaseThreshold is the changed-pixel count that triggers a commit
	// in the early phase (strictly greater).
	EarlyPhaseThreshold uint64 `yaml:"early_phase_threshold"`

	// SensitivityFactor is the ratio to the rolling average that triggers a
	// commit in the late phase (strictly greater).
	SensitivityFactor float64 `yaml:"sensitivity_factor"`

	// MinHistoryLength is how many entries the history must exceed before
	// the late-phase rule may fire.
	MinHistoryLength int `yaml:"min_history_length"`

	// PixelNoiseThreshold is the per-pixel luminance delta above which a
	// pixel counts as changed.
	PixelNoiseThreshold uint8 `yaml:"pixel_noise_threshold"`

	// NoiseFloor is the changed-pixel count a tick must exceed to enter the
	// history.
	NoiseFloor uint64 `yaml:"noise_floor"`

	HistoryCapacity int `yaml:"history_capacity"`
}

// DefaultConfig is the two-phase policy.
func DefaultConfig() Config {
	return Config{
		EarlyPhaseDuration:  150 * time.Second,
		EarlyPhaseThreshold: 8000,
		SensitivityFactor:   1.3,
		MinHistoryLength:    3,
		PixelNoiseThreshold: 25,
		NoiseFloor:          50,
		HistoryCapacity:     20,
	}
}

// RelativeOnlyConfig never uses the absolute threshold: every change is
// judged against the rolling average.
func RelativeOnlyConfig() Config {
	cfg := DefaultConfig()
	cfg.EarlyPhaseDuration = 0
	cfg.SensitivityFactor = 1.0
	cfg.HistoryCapacity = 10
	return cfg
}

func ConfigPreset(name string) (Config, error) {
	switch name {
	case "", PresetTwoPhase:
		return DefaultConfig(), nil
	case PresetRelativeOnly:
		return RelativeOnlyConfig(), nil
	}
	return Config{}, fmt.Errorf("unknown detector preset '%s' (available: %s, %s)", name, PresetTwoPhase, PresetRelativeOnly)
}

func (cfg Config) Validate() error {
	switch {
	case cfg.EarlyPhaseDuration < 0:
		return ErrInvalidConfig{Field: "early_phase_duration", Reason: "must not be negative"}
	case cfg.EarlyPhaseDuration > 0 && cfg.EarlyPhaseThreshold == 0:
		return ErrInvalidConfig{Field: "early_phase_threshold", Reason: "must be positive"}
	case !(cfg.SensitivityFactor > 0):
		return ErrInvalidConfig{Field: "sensitivity_factor", Reason: "must be positive"}
	case cfg.PixelNoiseThreshold == 0 || cfg.PixelNoiseThreshold == 255:
		return ErrInvalidConfig{Field: "pixel_noise_threshold", Reason: "must be within 1..254"}
	case cfg.NoiseFloor == 0:
		return ErrInvalidConfig{Field: "noise_floor", Reason: "must be positive"}
	case cfg.HistoryCapacity <= 0:
		return ErrInvalidConfig{Field: "history_capacity", Reason: "must be positive"}
	case cfg.MinHistoryLength < 0:
		return ErrInvalidConfig{Field: "min_history_length", Reason: "must not be negative"}
	case cfg.MinHistoryLength >= cfg.HistoryCapacity:
		return ErrInvalidConfig{Field: "min_history_length", Reason: fmt.Sprintf("must be less than history_capacity (%d)", cfg.HistoryCapacity)}
	}
	return nil
}
