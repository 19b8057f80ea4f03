package imageprocessor

import (
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/xaionaro-go/slidegrab/logger"
	"go.uber.org/atomic"
)

// GaussianBlur applies a separable Gaussian filter to luminance planes.
// The parameters may be changed between calls.
type GaussianBlur struct {
	KernelSize atomic.Int64
	Sigma      atomic.Float64

	cachedSize  int
	cachedSigma float64
	kernel      *convolution.Kernel
}

func NewGaussianBlur(kernelSize int, sigma float64) *GaussianBlur {
	b := &GaussianBlur{}
	b.KernelSize.Store(int64(kernelSize))
	b.Sigma.Store(sigma)
	return b
}

func (b *GaussianBlur) String() string {
	return fmt.Sprintf("GaussianBlur(%dx%d, sigma:%v)", b.KernelSize.Load(), b.KernelSize.Load(), b.Sigma.Load())
}

func (b *GaussianBlur) getKernel() *convolution.Kernel {
	size := int(b.KernelSize.Load())
	sigma := b.Sigma.Load()
	if sigma <= 0 {
		sigma = SigmaForKernelSize(size)
	}
	if b.kernel != nil && b.cachedSize == size && b.cachedSigma == sigma {
		return b.kernel
	}

	k := convolution.NewKernel(size, 1)
	copy(k.Matrix, GaussianWeights(size, sigma))
	b.kernel, b.cachedSize, b.cachedSigma = k, size, sigma
	return k
}

func (b *GaussianBlur) Process(
	ctx context.Context,
	src *image.Gray,
) (*image.Gray, error) {
	size := b.KernelSize.Load()
	if size <= 1 {
		return cloneGray(src), nil
	}
	if size%2 == 0 {
		return nil, fmt.Errorf("kernel size must be odd, got %d", size)
	}

	k := b.getKernel()
	logger.Tracef(ctx, "blurring %v with %s", src.Bounds(), b)

	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
	horizontal := convolution.Convolve(src, k, opts)
	blurred := convolution.Convolve(horizontal, k.Transposed(), opts)

	bounds := blurred.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		srcRow := blurred.Pix[y*blurred.Stride:]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			// R==G==B for a luminance input
			dstRow[x] = srcRow[x*4]
		}
	}
	return dst, nil
}

func cloneGray(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+bounds.Dx()], src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):])
	}
	return dst
}
