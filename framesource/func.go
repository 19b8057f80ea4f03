package framesource

import (
	"context"
	"fmt"
	"image"
	"io"
)

// FrameFunc renders the frame with the given index.
type FrameFunc func(frameIndex uint64) (image.Image, error)

// Func is a synthetic Source producing Info.TotalFrames frames.
type Func struct {
	Name     string
	Metadata Info
	Render   FrameFunc

	next    uint64
	grabbed bool
}

var _ Source = (*Func)(nil)

func NewFunc(name string, info Info, render FrameFunc) *Func {
	return &Func{
		Name:     name,
		Metadata: info,
		Render:   render,
	}
}

// NewImages is a Func over a fixed list of images.
func NewImages(name string, fps float64, images ...image.Image) *Func {
	return NewFunc(name, Info{FPS: fps, TotalFrames: uint64(len(images))}, func(idx uint64) (image.Image, error) {
		return images[idx], nil
	})
}

func (f *Func) String() string {
	return fmt.Sprintf("Func(%s)", f.Name)
}

func (f *Func) Info(ctx context.Context) Info {
	return f.Metadata
}

func (f *Func) Grab(ctx context.Context) (uint64, error) {
	if f.next >= f.Metadata.TotalFrames {
		f.grabbed = false
		return f.next, io.EOF
	}
	idx := f.next
	f.next++
	f.grabbed = true
	return idx, nil
}

func (f *Func) Retrieve(ctx context.Context) (image.Image, error) {
	if !f.grabbed {
		return nil, fmt.Errorf("no frame was grabbed")
	}
	return f.Render(f.next - 1)
}

func (f *Func) Close(ctx context.Context) error {
	f.next = f.Metadata.TotalFrames
	f.grabbed = false
	return nil
}
