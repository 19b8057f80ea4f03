package imageprocessor

import (
	"context"
	"image"
	"image/color"
	"testing"

	assertT "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestGaussianWeights(t *testing.T) {
	require.InDelta(t, 3.5, SigmaForKernelSize(21), 1e-9)

	weights := GaussianWeights(21, SigmaForKernelSize(21))
	require.Len(t, weights, 21)
	var sum float64
	for i, w := range weights {
		sum += w
		assertT.InDelta(t, w, weights[len(weights)-1-i], 1e-12)
	}
	require.InDelta(t, 1.0, sum, 1e-9)
	for i := 1; i <= 10; i++ {
		require.Greater(t, weights[i], weights[i-1])
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.Error(t, Config{KernelSize: 20}.Validate())
	require.Error(t, Config{KernelSize: 0}.Validate())
	require.Equal(t, 2.5, Config{KernelSize: 21, Sigma: 2.5}.EffectiveSigma())
}

func TestSoftwarePreprocess(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, NameSoftware, DefaultConfig())
	require.NoError(t, err)
	defer p.Close(ctx)

	t.Run("uniform-stays-uniform", func(t *testing.T) {
		out, err := p.Preprocess(ctx, uniformRGBA(48, 32, color.RGBA{R: 200, G: 200, B: 200, A: 255}))
		require.NoError(t, err)
		require.Equal(t, image.Rect(0, 0, 48, 32), out.Bounds())
		for _, v := range out.Pix {
			require.InDelta(t, 200, int(v), 2)
		}
	})

	t.Run("spreads-a-spot", func(t *testing.T) {
		img := uniformRGBA(41, 41, color.RGBA{A: 255})
		img.SetRGBA(20, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		out, err := p.Preprocess(ctx, img)
		require.NoError(t, err)
		center := out.GrayAt(20, 20).Y
		require.Less(t, center, uint8(255))
		require.Greater(t, center, uint8(0))
		require.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	})

	t.Run("deterministic", func(t *testing.T) {
		img := uniformRGBA(30, 30, color.RGBA{R: 10, G: 120, B: 250, A: 255})
		img.SetRGBA(3, 4, color.RGBA{R: 255, A: 255})
		a, err := p.Preprocess(ctx, img)
		require.NoError(t, err)
		b, err := p.Preprocess(ctx, img)
		require.NoError(t, err)
		require.Equal(t, a.Pix, b.Pix)
	})

	t.Run("empty-frame", func(t *testing.T) {
		_, err := p.Preprocess(ctx, image.NewRGBA(image.Rect(0, 0, 0, 10)))
		require.ErrorAs(t, err, &ErrEmptyFrame{})
		_, err = p.Preprocess(ctx, nil)
		require.ErrorAs(t, err, &ErrEmptyFrame{})
	})
}

func TestUnknownPreprocessor(t *testing.T) {
	_, err := New(context.Background(), "no-such-thing", DefaultConfig())
	require.Error(t, err)
	require.Contains(t, Names(), NameSoftware)
}

func TestCountChangedPixels(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 10, 10))
	b := image.NewGray(image.Rect(0, 0, 10, 10))

	count, err := CountChangedPixels(a, b, 25)
	require.NoError(t, err)
	require.Zero(t, count)

	for i := 0; i < 7; i++ {
		b.Pix[i] = 26
	}
	b.Pix[50] = 25 // exactly at the threshold, not counted
	a.Pix[99] = 200

	count, err = CountChangedPixels(a, b, 25)
	require.NoError(t, err)
	require.Equal(t, uint64(8), count)

	sub := b.SubImage(image.Rect(0, 0, 5, 5)).(*image.Gray)
	_, err = CountChangedPixels(a, sub, 25)
	require.ErrorAs(t, err, &ErrSizeMismatch{})

	shifted := image.NewGray(image.Rect(5, 5, 15, 15))
	count, err = CountChangedPixels(a, shifted, 25)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestGrayscale(t *testing.T) {
	t.Run("rgba-input", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(10, 20, 14, 22))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+3] = 255, 255
		}
		gray := Grayscale(img)
		require.Equal(t, image.Rect(0, 0, 4, 2), gray.Bounds())
		for _, v := range gray.Pix {
			require.InDelta(t, 76, int(v), 1)
		}
	})

	t.Run("rec601-weights", func(t *testing.T) {
		gray := Grayscale(uniformRGBA(2, 2, color.RGBA{G: 200, A: 255}))
		for _, v := range gray.Pix {
			require.InDelta(t, 117, int(v), 1)
		}
		gray = Grayscale(uniformRGBA(2, 2, color.RGBA{B: 230, A: 255}))
		for _, v := range gray.Pix {
			require.Equal(t, uint8(26), v)
		}
	})
}

func TestSoftwarePreprocessColorInput(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, NameSoftware, Config{KernelSize: 1})
	require.NoError(t, err)
	defer p.Close(ctx)

	black, err := p.Preprocess(ctx, uniformRGBA(64, 64, color.RGBA{A: 255}))
	require.NoError(t, err)
	blue, err := p.Preprocess(ctx, uniformRGBA(64, 64, color.RGBA{B: 230, A: 255}))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 64), blue.Bounds())

	// luma 26 of the blue frame is just above the default noise threshold
	count, err := CountChangedPixels(black, blue, 25)
	require.NoError(t, err)
	require.Equal(t, uint64(64*64), count)
}
