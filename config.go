package slidegrab

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xaionaro-go/slidegrab/detector"
	"github.com/xaionaro-go/slidegrab/imageprocessor"
	"github.com/xaionaro-go/slidegrab/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSamplingInterval = time.Second
)

type Config struct {
	// SamplingInterval is the playback time between two sampled frames.
	SamplingInterval time.Duration `yaml:"sampling_interval"`

	// Preset selects the detector defaults the Detector section overrides.
	Preset string `yaml:"preset,omitempty"`

	// LogLevel is applied unless the level is given on the command line.
	LogLevel string `yaml:"log_level,omitempty"`

	Detector     detector.Config       `yaml:"detector"`
	Preprocessor imageprocessor.Config `yaml:"preprocessor"`
}

func DefaultConfig() Config {
	return Config{
		SamplingInterval: DefaultSamplingInterval,
		Preset:           detector.PresetTwoPhase,
		Detector:         detector.DefaultConfig(),
		Preprocessor:     imageprocessor.DefaultConfig(),
	}
}

// ConfigForPreset is DefaultConfig with the detector section of the named
// preset.
func ConfigForPreset(preset string) (Config, error) {
	detCfg, err := detector.ConfigPreset(preset)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	cfg.Preset = preset
	cfg.Detector = detCfg
	return cfg, nil
}

func (cfg Config) Validate() error {
	if cfg.SamplingInterval <= 0 {
		return detector.ErrInvalidConfig{Field: "sampling_interval", Reason: fmt.Sprintf("must be positive, got %v", cfg.SamplingInterval)}
	}
	if cfg.LogLevel != "" {
		if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
			return detector.ErrInvalidConfig{Field: "log_level", Reason: err.Error()}
		}
	}
	if err := cfg.Detector.Validate(); err != nil {
		return err
	}
	if err := cfg.Preprocessor.Validate(); err != nil {
		return detector.ErrInvalidConfig{Field: "preprocessor", Reason: err.Error()}
	}
	return nil
}

// ParseConfig reads a YAML document. Omitted fields keep the values of the
// preset the document names (or of the default preset).
func ParseConfig(data []byte) (Config, error) {
	return ParseConfigWithPreset(data, "")
}

// ParseConfigWithPreset is ParseConfig with the preset chosen by the caller:
// a non-empty preset replaces the one the document names, and the document
// is still overlaid on top of it.
func ParseConfigWithPreset(data []byte, preset string) (Config, error) {
	if preset == "" {
		var header struct {
			Preset string `yaml:"preset"`
		}
		if err := yaml.Unmarshal(data, &header); err != nil {
			return Config{}, fmt.Errorf("unable to parse the config: %w", err)
		}
		preset = header.Preset
	}
	if preset == "" {
		preset = detector.PresetTwoPhase
	}
	cfg, err := ConfigForPreset(preset)
	if err != nil {
		return Config{}, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("unable to parse the config: %w", err)
	}
	cfg.Preset = preset
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	return LoadConfigWithPreset(path, "")
}

func LoadConfigWithPreset(path string, preset string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read the config file '%s': %w", path, err)
	}
	cfg, err := ParseConfigWithPreset(data, preset)
	if err != nil {
		return Config{}, fmt.Errorf("'%s': %w", path, err)
	}
	return cfg, nil
}

func (cfg Config) Bytes() []byte {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		panic(err)
	}
	return b
}
