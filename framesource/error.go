package framesource

import (
	"fmt"
)

// ErrDecode means the source could not produce a valid frame; it is fatal for
// the current video only.
type ErrDecode struct {
	Source     string
	FrameIndex uint64
	Err        error
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("unable to decode frame #%d of '%s': %v", e.FrameIndex, e.Source, e.Err)
}

func (e ErrDecode) Unwrap() error {
	return e.Err
}
