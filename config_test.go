package slidegrab

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/slidegrab/detector"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, time.Second, cfg.SamplingInterval)
	require.Equal(t, detector.DefaultConfig(), cfg.Detector)
	require.Equal(t, 21, cfg.Preprocessor.KernelSize)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
preset: relative-only
sampling_interval: 500ms
detector:
  sensitivity_factor: 1.5
`))
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, cfg.SamplingInterval)
	require.Equal(t, 1.5, cfg.Detector.SensitivityFactor)
	require.Equal(t, 10, cfg.Detector.HistoryCapacity)
	require.Zero(t, cfg.Detector.EarlyPhaseDuration)

	cfg, err = ParseConfig([]byte(`
detector:
  early_phase_duration: 2m
`))
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, cfg.Detector.EarlyPhaseDuration)
	require.Equal(t, uint64(8000), cfg.Detector.EarlyPhaseThreshold)

	cfg, err = ParseConfig(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte(`preset: scene-cut`))
	require.Error(t, err)

	_, err = ParseConfig([]byte(`sensitivity: 2`))
	require.Error(t, err)

	_, err = ParseConfig([]byte(`
detector:
  history_capacity: 3
`))
	var cfgErr detector.ErrInvalidConfig
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "min_history_length", cfgErr.Field)

	_, err = ParseConfig([]byte(`
preprocessor:
  kernel_size: 4
`))
	require.ErrorAs(t, err, &cfgErr)
}

func TestParseConfigWithPreset(t *testing.T) {
	data := []byte(`
preset: two-phase
sampling_interval: 2s
detector:
  sensitivity_factor: 1.7
`)
	cfg, err := ParseConfigWithPreset(data, detector.PresetRelativeOnly)
	require.NoError(t, err)
	require.Equal(t, detector.PresetRelativeOnly, cfg.Preset)
	require.Equal(t, 2*time.Second, cfg.SamplingInterval)
	require.Equal(t, 1.7, cfg.Detector.SensitivityFactor)
	require.Equal(t, 10, cfg.Detector.HistoryCapacity)
	require.Zero(t, cfg.Detector.EarlyPhaseDuration)

	cfg, err = ParseConfigWithPreset(data, "")
	require.NoError(t, err)
	require.Equal(t, detector.PresetTwoPhase, cfg.Preset)
	require.Equal(t, 20, cfg.Detector.HistoryCapacity)
	require.Equal(t, 1.7, cfg.Detector.SensitivityFactor)

	path := filepath.Join(t.TempDir(), "slidegrab.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	cfg, err = LoadConfigWithPreset(path, detector.PresetRelativeOnly)
	require.NoError(t, err)
	require.Equal(t, 1.7, cfg.Detector.SensitivityFactor)
	require.Equal(t, 10, cfg.Detector.HistoryCapacity)

	_, err = ParseConfigWithPreset(data, "scene-cut")
	require.Error(t, err)
}

func TestConfigLogLevel(t *testing.T) {
	cfg, err := ParseConfig([]byte(`log_level: debug`))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)

	_, err = ParseConfig([]byte(`log_level: chatty`))
	var cfgErr detector.ErrInvalidConfig
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "log_level", cfgErr.Field)
}

func TestLoadConfigRoundTrip(t *testing.T) {
	cfg, err := ConfigForPreset(detector.PresetRelativeOnly)
	require.NoError(t, err)
	cfg.SamplingInterval = 2 * time.Second

	path := filepath.Join(t.TempDir(), "slidegrab.yaml")
	require.NoError(t, os.WriteFile(path, cfg.Bytes(), 0644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
