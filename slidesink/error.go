package slidesink

import (
	"fmt"
)

// ErrWrite is returned when a deck cannot be persisted. It is never retried
// automatically.
type ErrWrite struct {
	Sink string
	Path string
	Err  error
}

func (e ErrWrite) Error() string {
	return fmt.Sprintf("%s: unable to write '%s': %v", e.Sink, e.Path, e.Err)
}

func (e ErrWrite) Unwrap() error {
	return e.Err
}
