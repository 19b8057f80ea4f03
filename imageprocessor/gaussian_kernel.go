package imageprocessor

import (
	"math"
)

// SigmaForKernelSize derives the standard deviation the same way OpenCV does
// when sigma is zero.
func SigmaForKernelSize(kernelSize int) float64 {
	return 0.3*(float64(kernelSize-1)*0.5-1) + 0.8
}

// GaussianWeights returns a normalized 1-D Gaussian kernel of the given size.
func GaussianWeights(kernelSize int, sigma float64) []float64 {
	weights := make([]float64, kernelSize)
	center := float64(kernelSize-1) / 2
	var sum float64
	for i := range weights {
		x := float64(i) - center
		weights[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
