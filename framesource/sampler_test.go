package framesource

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *Sampler) []uint64 {
	ctx := context.Background()
	var indexes []uint64
	for {
		frame, err := s.Next(ctx)
		if err == io.EOF {
			return indexes
		}
		require.NoError(t, err)
		indexes = append(indexes, frame.Index)
	}
}

func solid(idx uint64) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 4, 4)), nil
}

func TestSamplerStride(t *testing.T) {
	ctx := context.Background()

	s, err := NewSampler(ctx, NewFunc("30fps", Info{FPS: 30, TotalFrames: 95}, solid), time.Second)
	require.NoError(t, err)
	require.Equal(t, uint64(30), s.Stride)
	require.Equal(t, []uint64{0, 30, 60, 90}, collect(t, s))
	require.Equal(t, uint64(95), s.FramesGrabbed.Load())

	s, err = NewSampler(ctx, NewFunc("fractional", Info{FPS: 29.97, TotalFrames: 60}, solid), time.Second)
	require.NoError(t, err)
	require.Equal(t, uint64(29), s.Stride)

	s, err = NewSampler(ctx, NewFunc("slow", Info{FPS: 2, TotalFrames: 3}, solid), 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, uint64(1), s.Stride)
	require.Equal(t, []uint64{0, 1, 2}, collect(t, s))
}

func TestSamplerUnknownFPS(t *testing.T) {
	s, err := NewSampler(context.Background(), NewFunc("no-fps", Info{TotalFrames: 61}, solid), time.Second)
	require.NoError(t, err)
	require.Equal(t, float64(DefaultFPS), s.FPS)
	require.Equal(t, []uint64{0, 30, 60}, collect(t, s))
}

func TestSamplerInvalidInterval(t *testing.T) {
	_, err := NewSampler(context.Background(), NewFunc("x", Info{FPS: 30}, solid), 0)
	require.Error(t, err)
}

func TestSamplerEmptySource(t *testing.T) {
	s, err := NewSampler(context.Background(), NewFunc("empty", Info{FPS: 30}, solid), time.Second)
	require.NoError(t, err)
	require.Empty(t, collect(t, s))
}

func TestSamplerDecodeErrors(t *testing.T) {
	ctx := context.Background()
	broken := errors.New("corrupt")
	src := NewFunc("broken", Info{FPS: 1, TotalFrames: 5}, func(idx uint64) (image.Image, error) {
		switch idx {
		case 2:
			return nil, broken
		case 3:
			return image.NewGray(image.Rect(0, 0, 0, 0)), nil
		}
		return image.NewGray(image.Rect(0, 0, 2, 2)), nil
	})
	s, err := NewSampler(ctx, src, time.Second)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		frame, err := s.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, time.Duration(i)*time.Second, frame.Timestamp)
	}

	_, err = s.Next(ctx)
	var decodeErr ErrDecode
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, uint64(2), decodeErr.FrameIndex)
	require.ErrorIs(t, err, broken)

	_, err = s.Next(ctx)
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, uint64(3), decodeErr.FrameIndex)
}

func TestSamplerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := NewSampler(ctx, NewFunc("x", Info{FPS: 1, TotalFrames: 5}, solid), time.Second)
	require.NoError(t, err)
	_, err = s.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBackendRegistry(t *testing.T) {
	RegisterBackend("test-func", func(ctx context.Context, url string) (Source, error) {
		return NewFunc(url, Info{FPS: 1, TotalFrames: 1}, solid), nil
	})
	src, err := Open(context.Background(), "test-func", "synthetic")
	require.NoError(t, err)
	require.Equal(t, "Func(synthetic)", src.String())
	require.Contains(t, Backends(), "test-func")

	_, err = Open(context.Background(), "nope", "x")
	require.Error(t, err)
}

func TestInfoDuration(t *testing.T) {
	require.Equal(t, 10*time.Second, Info{FPS: 30, TotalFrames: 300}.Duration())
	require.Zero(t, Info{TotalFrames: 300}.Duration())
	require.Equal(t, 1500*time.Millisecond, FrameTimestamp(45, 30))
}
