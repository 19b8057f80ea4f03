package imageprocessor

import (
	"fmt"
)

const (
	DefaultKernelSize = 21
)

type Config struct {
	// KernelSize is the side of the square Gaussian kernel; must be odd.
	KernelSize int `yaml:"kernel_size"`
	// Sigma <= 0 derives the deviation from KernelSize.
	Sigma float64 `yaml:"sigma"`
}

func DefaultConfig() Config {
	return Config{
		KernelSize: DefaultKernelSize,
	}
}

func (cfg Config) Validate() error {
	if cfg.KernelSize <= 0 || cfg.KernelSize%2 == 0 {
		return fmt.Errorf("blur kernel size must be a positive odd number, got %d", cfg.KernelSize)
	}
	return nil
}

func (cfg Config) EffectiveSigma() float64 {
	if cfg.Sigma > 0 {
		return cfg.Sigma
	}
	return SigmaForKernelSize(cfg.KernelSize)
}
