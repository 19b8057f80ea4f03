package slidegrab

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/slidegrab/framesource"
	"github.com/xaionaro-go/slidegrab/logger"
	"github.com/xaionaro-go/slidegrab/slidesink"
	"github.com/xaionaro-go/xcontext"
)

// Job is one video of a batch.
type Job struct {
	Name string
	Open func(ctx context.Context) (framesource.Source, error)
	Sink slidesink.Sink

	// CloseSink closes Sink once the video is done; leave it unset for a
	// sink shared by several jobs.
	CloseSink bool

	// Statistics is optional.
	Statistics *Statistics
}

type JobResult struct {
	Job    *Job
	Result *Result
	Err    error
}

// ExtractBatch processes the jobs on up to workers goroutines. Every job
// gets its own detector and preprocessor; a failing job does not affect the
// others. Results are in the order of jobs.
func (e *Extractor) ExtractBatch(
	ctx context.Context,
	jobs []Job,
	workers int,
) []JobResult {
	logger.Debugf(ctx, "ExtractBatch(ctx, %d jobs, %d workers)", len(jobs), workers)
	defer logger.Debugf(ctx, "/ExtractBatch(ctx, %d jobs, %d workers)", len(jobs), workers)

	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]JobResult, len(jobs))
	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		observability.Go(ctx, func(ctx context.Context) {
			defer wg.Done()
			for idx := range queue {
				job := &jobs[idx]
				result, err := e.runJob(ctx, job)
				results[idx] = JobResult{Job: job, Result: result, Err: err}
			}
		})
	}

	for idx := range jobs {
		queue <- idx
	}
	close(queue)
	wg.Wait()
	return results
}

func (e *Extractor) runJob(
	ctx context.Context,
	job *Job,
) (_ret *Result, _err error) {
	ctx = logger.WithField(ctx, "job", job.Name)
	if job.CloseSink {
		defer func() {
			if err := job.Sink.Close(xcontext.DetachDone(ctx)); err != nil {
				_err = errors.Join(_err, err)
			}
		}()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := job.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", job.Name, err)
	}
	defer func() {
		if err := src.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close %s: %v", src, err)
		}
	}()

	stats := job.Statistics
	if stats == nil {
		stats = &Statistics{}
	}
	return e.ExtractWithStatistics(ctx, job.Name, src, job.Sink, stats)
}
