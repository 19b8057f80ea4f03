package imageprocessor

import (
	"image"
)

// CountChangedPixels returns how many samples differ between a and b by more
// than threshold, i.e. countNonZero(threshold(absdiff(a, b), threshold)).
func CountChangedPixels(a, b *image.Gray, threshold uint8) (uint64, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return 0, ErrSizeMismatch{Previous: ab, Current: bb}
	}

	var count uint64
	width := ab.Dx()
	for y := 0; y < ab.Dy(); y++ {
		rowA := a.Pix[a.PixOffset(ab.Min.X, ab.Min.Y+y):][:width]
		rowB := b.Pix[b.PixOffset(bb.Min.X, bb.Min.Y+y):][:width]
		for x, va := range rowA {
			vb := rowB[x]
			delta := va - vb
			if vb > va {
				delta = vb - va
			}
			if delta > threshold {
				count++
			}
		}
	}
	return count, nil
}
