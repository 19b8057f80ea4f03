package imageprocessor

import (
	"context"
	"fmt"
	"image"

	"github.com/xaionaro-go/slidegrab/logger"
)

const NameSoftware = "software"

func init() {
	Register(NameSoftware, func(ctx context.Context, cfg Config) (Preprocessor, error) {
		return NewSoftware(cfg)
	})
}

// Software is the pure-Go preprocessor: luminance conversion followed by a
// Gaussian blur. An instance must not be shared between goroutines.
type Software struct {
	Blur *GaussianBlur
}

var _ Preprocessor = (*Software)(nil)

func NewSoftware(cfg Config) (*Software, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Software{
		Blur: NewGaussianBlur(cfg.KernelSize, cfg.Sigma),
	}, nil
}

func (p *Software) String() string {
	return fmt.Sprintf("Software(%s)", p.Blur)
}

func (p *Software) Preprocess(
	ctx context.Context,
	img image.Image,
) (_ret *image.Gray, _err error) {
	logger.Tracef(ctx, "Preprocess")
	defer func() { logger.Tracef(ctx, "/Preprocess: %v", _err) }()

	if err := checkSize(img); err != nil {
		return nil, err
	}
	gray := Grayscale(img)
	blurred, err := p.Blur.Process(ctx, gray)
	if err != nil {
		return nil, fmt.Errorf("unable to blur the frame: %w", err)
	}
	return blurred, nil
}

func (p *Software) Close(ctx context.Context) error {
	p.Blur.kernel = nil
	return nil
}

func checkSize(img image.Image) error {
	if img == nil {
		return ErrEmptyFrame{}
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return ErrEmptyFrame{Bounds: b}
	}
	return nil
}
