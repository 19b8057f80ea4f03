package detector

import (
	"fmt"
)

type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// ErrInvalidFrame is returned by Step for frames that cannot be compared
// with the baseline; the detector state is left untouched.
type ErrInvalidFrame struct {
	FrameIndex uint64
	Err        error
}

func (e ErrInvalidFrame) Error() string {
	return fmt.Sprintf("invalid frame #%d: %v", e.FrameIndex, e.Err)
}

func (e ErrInvalidFrame) Unwrap() error {
	return e.Err
}
