package logger

import (
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
)

type Level = logger.Level

const (
	LevelFatal   = logger.LevelFatal
	LevelPanic   = logger.LevelPanic
	LevelError   = logger.LevelError
	LevelWarning = logger.LevelWarning
	LevelInfo    = logger.LevelInfo
	LevelDebug   = logger.LevelDebug
	LevelTrace   = logger.LevelTrace
)

// ParseLevel accepts the same names as the --log-level flag.
func ParseLevel(s string) (Level, error) {
	var level Level
	if err := level.Set(s); err != nil {
		return logger.LevelUndefined, fmt.Errorf("unable to parse log level '%s': %w", s, err)
	}
	return level, nil
}
