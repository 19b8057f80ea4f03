//go:build with_cv
// +build with_cv

package imageprocessor

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const NameCV = "cv"

func init() {
	Register(NameCV, func(ctx context.Context, cfg Config) (Preprocessor, error) {
		return NewCV(cfg)
	})
}

// CV preprocesses frames with OpenCV: BGR to gray, then GaussianBlur with
// the configured kernel. The working matrices live for the lifetime of the
// preprocessor and are released by Close.
type CV struct {
	Config Config
	gray   gocv.Mat
	blur   gocv.Mat
}

var _ Preprocessor = (*CV)(nil)

func NewCV(cfg Config) (*CV, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CV{
		Config: cfg,
		gray:   gocv.NewMat(),
		blur:   gocv.NewMat(),
	}, nil
}

func (p *CV) String() string {
	return fmt.Sprintf("CV(GaussianBlur(%dx%d, sigma:%v))", p.Config.KernelSize, p.Config.KernelSize, p.Config.Sigma)
}

func (p *CV) Preprocess(
	ctx context.Context,
	img image.Image,
) (*image.Gray, error) {
	if err := checkSize(img); err != nil {
		return nil, err
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("unable to convert the frame to a matrix: %w", err)
	}
	defer src.Close()

	gocv.CvtColor(src, &p.gray, gocv.ColorBGRToGray)
	ksize := image.Pt(p.Config.KernelSize, p.Config.KernelSize)
	sigma := p.Config.Sigma
	if sigma < 0 {
		sigma = 0
	}
	gocv.GaussianBlur(p.gray, &p.blur, ksize, sigma, sigma, gocv.BorderDefault)

	out, err := p.blur.ToImage()
	if err != nil {
		return nil, fmt.Errorf("unable to convert the blurred matrix to an image: %w", err)
	}
	gray, ok := out.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("expected a single-channel result, got %T", out)
	}
	return gray, nil
}

func (p *CV) Close(ctx context.Context) error {
	if err := p.gray.Close(); err != nil {
		return fmt.Errorf("unable to release the gray matrix: %w", err)
	}
	if err := p.blur.Close(); err != nil {
		return fmt.Errorf("unable to release the blur matrix: %w", err)
	}
	return nil
}
