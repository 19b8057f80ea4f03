package slidesink

import (
	"context"
	"fmt"
)

// encodedDeck keeps JPEG-encoded slides until the deck is written out.
type encodedDeck struct {
	pages [][]byte
}

func (d *encodedDeck) append(ctx context.Context, slide Slide) (uint, error) {
	data, err := encodeJPEG(slide.Image)
	if err != nil {
		return 0, fmt.Errorf("unable to encode slide #%d: %w", len(d.pages)+1, err)
	}
	d.pages = append(d.pages, data)
	return uint(len(d.pages)), nil
}

func (d *encodedDeck) Len() int {
	return len(d.pages)
}
