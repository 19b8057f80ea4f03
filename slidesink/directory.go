package slidesink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/xaionaro-go/slidegrab/logger"
)

// Directory writes every slide immediately as slide_NNNN.jpg.
type Directory struct {
	Path  string
	count uint
}

var _ Sink = (*Directory)(nil)

func NewDirectory(path string) *Directory {
	return &Directory{Path: path}
}

func (d *Directory) String() string {
	return fmt.Sprintf("Directory(%s)", d.Path)
}

func (d *Directory) AppendSlide(ctx context.Context, slide Slide) (uint, error) {
	if slide.Image == nil || slide.Image.Bounds().Empty() {
		return 0, fmt.Errorf("the slide image is empty")
	}
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return 0, ErrWrite{Sink: d.String(), Path: d.Path, Err: err}
	}
	number := d.count + 1
	path := filepath.Join(d.Path, slideFileName(number))
	if err := imgio.Save(path, slide.Image, imgio.JPEGEncoder(JPEGQuality)); err != nil {
		return 0, ErrWrite{Sink: d.String(), Path: path, Err: err}
	}
	d.count = number
	logger.Tracef(ctx, "wrote '%s'", path)
	return number, nil
}

func (d *Directory) Close(ctx context.Context) error {
	return nil
}
