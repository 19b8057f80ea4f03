package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/slidegrab"
)

const progressBarCells = 20

func progressBar(progress float64) string {
	filled := int(progress * 100 / 5)
	if filled > progressBarCells {
		filled = progressBarCells
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarCells-filled)
}

func formatProgress(name string, s slidegrab.StatisticsSnapshot) string {
	p := s.Progress()
	return fmt.Sprintf("[%s] %5.1f%%  slides: %02d  frames: %s  %s",
		progressBar(p), p*100, s.SlidesCommitted, humanize.Comma(int64(s.FramesRead)), name)
}

type progressPrinter struct {
	out  io.Writer
	jobs []slidegrab.Job

	reported []bool
}

func newProgressPrinter(out io.Writer, jobs []slidegrab.Job) *progressPrinter {
	return &progressPrinter{
		out:      out,
		jobs:     jobs,
		reported: make([]bool, len(jobs)),
	}
}

// Run redraws the progress line until ctx is done.
func (p *progressPrinter) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			p.render()
			fmt.Fprintln(p.out)
			return
		case <-t.C:
			p.render()
		}
	}
}

func (p *progressPrinter) render() {
	var (
		total   slidegrab.StatisticsSnapshot
		started int
		current string
	)
	for _, job := range p.jobs {
		s := job.Statistics.Convert()
		if s.FramesRead == 0 {
			continue
		}
		started++
		total.TotalFrames += s.TotalFrames
		total.FramesRead += s.FramesRead
		total.SlidesCommitted += s.SlidesCommitted
		if s.FramesRead < s.TotalFrames {
			current = job.Name
		}
	}
	if len(p.jobs) > 1 {
		current = fmt.Sprintf("(%d/%d videos) %s", started, len(p.jobs), current)
	}
	fmt.Fprintf(p.out, "\r%s", formatProgress(current, total))
}
