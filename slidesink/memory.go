package slidesink

import (
	"context"
	"fmt"
)

// Memory keeps the slides as they are appended.
type Memory struct {
	Name   string
	slides []Slide
	closed bool
}

var _ Sink = (*Memory)(nil)

func NewMemory(name string) *Memory {
	return &Memory{Name: name}
}

func (m *Memory) String() string {
	return fmt.Sprintf("Memory(%s)", m.Name)
}

func (m *Memory) AppendSlide(ctx context.Context, slide Slide) (uint, error) {
	if m.closed {
		return 0, fmt.Errorf("%s is closed", m)
	}
	slide.Number = uint(len(m.slides)) + 1
	m.slides = append(m.slides, slide)
	return slide.Number, nil
}

// Slides returns the appended slides in commit order.
func (m *Memory) Slides() []Slide {
	return append([]Slide(nil), m.slides...)
}

func (m *Memory) Len() int {
	return len(m.slides)
}

func (m *Memory) Close(ctx context.Context) error {
	m.closed = true
	return nil
}
