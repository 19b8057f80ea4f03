package slidesink

import (
	"bytes"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
)

// JPEGQuality is used for every slide a sink encodes.
var JPEGQuality = 95

func encodeJPEG(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("the slide image is empty")
	}
	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(JPEGQuality)(&buf, img); err != nil {
		return nil, fmt.Errorf("unable to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func slideFileName(number uint) string {
	return fmt.Sprintf("slide_%04d.jpg", number)
}
