package imageprocessor

import (
	"fmt"
	"image"
)

type ErrEmptyFrame struct {
	Bounds image.Rectangle
}

func (e ErrEmptyFrame) Error() string {
	return fmt.Sprintf("the frame has no pixels (bounds %v)", e.Bounds)
}

type ErrSizeMismatch struct {
	Previous image.Rectangle
	Current  image.Rectangle
}

func (e ErrSizeMismatch) Error() string {
	return fmt.Sprintf("frame size changed from %dx%d to %dx%d", e.Previous.Dx(), e.Previous.Dy(), e.Current.Dx(), e.Current.Dy())
}
