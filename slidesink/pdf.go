package slidesink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/xaionaro-go/slidegrab/logger"
)

// PDF collects the slides in memory and renders them one per page on Close.
type PDF struct {
	Path string
	encodedDeck
}

var _ Sink = (*PDF)(nil)

func NewPDF(path string) *PDF {
	return &PDF{Path: path}
}

func (p *PDF) String() string {
	return fmt.Sprintf("PDF(%s)", p.Path)
}

func (p *PDF) AppendSlide(ctx context.Context, slide Slide) (uint, error) {
	return p.append(ctx, slide)
}

// Render writes the PDF document to w.
func (p *PDF) Render(w io.Writer) error {
	if p.Len() == 0 {
		return fmt.Errorf("the deck has no slides")
	}
	images := make([]io.Reader, 0, len(p.pages))
	for _, page := range p.pages {
		images = append(images, bytes.NewReader(page))
	}
	imp := pdfcpu.DefaultImportConfig()
	conf := model.NewDefaultConfiguration()
	if err := api.ImportImages(nil, w, images, imp, conf); err != nil {
		return fmt.Errorf("unable to import the slide images: %w", err)
	}
	return nil
}

// Close writes the document. An empty deck produces no file.
func (p *PDF) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close: %s (%d slides)", p, p.Len())
	defer func() { logger.Debugf(ctx, "/Close: %s: %v", p, _err) }()

	if p.Len() == 0 {
		logger.Warnf(ctx, "no slides were committed, not writing '%s'", p.Path)
		return nil
	}

	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return ErrWrite{Sink: p.String(), Path: p.Path, Err: err}
	}
	if err := os.WriteFile(p.Path, buf.Bytes(), 0644); err != nil {
		return ErrWrite{Sink: p.String(), Path: p.Path, Err: err}
	}
	return nil
}
