package slidesink

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xaionaro-go/slidegrab/logger"
)

// Zip stores the slides as JPEG entries of a zip archive written on Close.
type Zip struct {
	Path string
	encodedDeck
}

var _ Sink = (*Zip)(nil)

func NewZip(path string) *Zip {
	return &Zip{Path: path}
}

func (z *Zip) String() string {
	return fmt.Sprintf("Zip(%s)", z.Path)
}

func (z *Zip) AppendSlide(ctx context.Context, slide Slide) (uint, error) {
	return z.append(ctx, slide)
}

func (z *Zip) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close: %s (%d slides)", z, z.Len())
	defer func() { logger.Debugf(ctx, "/Close: %s: %v", z, _err) }()

	f, err := os.Create(z.Path)
	if err != nil {
		return ErrWrite{Sink: z.String(), Path: z.Path, Err: err}
	}
	if err := z.writeTo(f); err != nil {
		f.Close()
		return ErrWrite{Sink: z.String(), Path: z.Path, Err: err}
	}
	if err := f.Close(); err != nil {
		return ErrWrite{Sink: z.String(), Path: z.Path, Err: err}
	}
	return nil
}

func (z *Zip) writeTo(f *os.File) error {
	w := zip.NewWriter(f)
	now := time.Now()
	for idx, page := range z.pages {
		entry, err := w.CreateHeader(&zip.FileHeader{
			Name:     slideFileName(uint(idx + 1)),
			Method:   zip.Store,
			Modified: now,
		})
		if err != nil {
			return err
		}
		if _, err := entry.Write(page); err != nil {
			return err
		}
	}
	return w.Close()
}
