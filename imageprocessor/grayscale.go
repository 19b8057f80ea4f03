package imageprocessor

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// Rec. 601 luma weights, the same ones the cv backend applies.
const (
	lumaWeightR = 0.299
	lumaWeightG = 0.587
	lumaWeightB = 0.114
)

// Grayscale returns the luminance plane of img, with bounds starting at (0,0).
// Images that already are *image.Gray are copied, not re-weighted.
func Grayscale(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return cloneGray(gray)
	}

	rgba := effect.GrayscaleWithWeights(img, lumaWeightR, lumaWeightG, lumaWeightB)
	b := rgba.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := rgba.Pix[y*rgba.Stride:]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dstRow[x] = srcRow[x*4]
		}
	}
	return dst
}
