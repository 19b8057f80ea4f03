package slidegrab

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/slidegrab/framesource"
	"github.com/xaionaro-go/slidegrab/slidesink"
)

func sourceOpener(src framesource.Source) func(context.Context) (framesource.Source, error) {
	return func(context.Context) (framesource.Source, error) {
		return src, nil
	}
}

func TestExtractBatchIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	missing := errors.New("no such file")

	sinks := []*slidesink.Memory{
		slidesink.NewMemory("a"),
		slidesink.NewMemory("b"),
		slidesink.NewMemory("c"),
	}
	jobs := []Job{
		{Name: "a", Open: sourceOpener(sequence(100, 0, 200, 0)), Sink: sinks[0], CloseSink: true},
		{Name: "b", Open: func(context.Context) (framesource.Source, error) { return nil, missing }, Sink: sinks[1], CloseSink: true},
		{Name: "c", Open: sourceOpener(sequence(100, 10, 10)), Sink: sinks[2], CloseSink: true},
	}

	results := NewExtractor(DefaultConfig()).ExtractBatch(ctx, jobs, 2)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	require.Equal(t, "a", results[0].Job.Name)
	require.Equal(t, uint64(3), results[0].Result.SlidesCommitted)
	require.Equal(t, 3, sinks[0].Len())

	require.ErrorIs(t, results[1].Err, missing)
	require.Nil(t, results[1].Result)

	require.NoError(t, results[2].Err)
	require.Equal(t, 1, sinks[2].Len())
}

func TestExtractBatchSharedSink(t *testing.T) {
	ctx := context.Background()
	mem := slidesink.NewMemory("merged")
	shared := slidesink.NewSerialized(mem)

	var jobs []Job
	for i := 0; i < 8; i++ {
		jobs = append(jobs, Job{
			Name:       fmt.Sprintf("video%d", i),
			Open:       sourceOpener(sequence(100, 0, 200, 0, 200)),
			Sink:       shared,
			Statistics: &Statistics{},
		})
	}
	results := NewExtractor(DefaultConfig()).ExtractBatch(ctx, jobs, 4)
	require.NoError(t, shared.Close(ctx))

	for _, r := range results {
		require.NoError(t, r.Err)
		require.Equal(t, uint64(4), r.Result.SlidesCommitted)
		require.Equal(t, uint64(4), r.Job.Statistics.SlidesCommitted.Load())
	}
	slides := mem.Slides()
	require.Len(t, slides, 32)
	perSource := map[string]uint64{}
	for i, slide := range slides {
		require.Equal(t, uint(i+1), slide.Number)
		// slides of one video keep their relative order
		require.GreaterOrEqual(t, slide.FrameIndex, perSource[slide.Source])
		perSource[slide.Source] = slide.FrameIndex
	}
	require.Len(t, perSource, 8)
}

func TestExtractBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := NewExtractor(DefaultConfig()).ExtractBatch(ctx, []Job{
		{Name: "x", Open: sourceOpener(sequence(100, 0)), Sink: slidesink.NewMemory("x")},
	}, 0)
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestExtractBatchEmpty(t *testing.T) {
	require.Empty(t, NewExtractor(DefaultConfig()).ExtractBatch(context.Background(), nil, 4))
}
