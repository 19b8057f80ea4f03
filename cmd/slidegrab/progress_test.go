package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/slidegrab"
	"github.com/xaionaro-go/slidegrab/slidesink"
)

func TestProgressBar(t *testing.T) {
	require.Equal(t, strings.Repeat("░", 20), progressBar(0))
	require.Equal(t, strings.Repeat("█", 10)+strings.Repeat("░", 10), progressBar(0.5))
	require.Equal(t, strings.Repeat("█", 20), progressBar(1))
	require.Equal(t, strings.Repeat("█", 20), progressBar(1.5))
}

func TestFormatProgress(t *testing.T) {
	line := formatProgress("talk.mp4", slidegrab.StatisticsSnapshot{TotalFrames: 3000, FramesRead: 1500, SlidesCommitted: 7})
	require.Contains(t, line, " 50.0%")
	require.Contains(t, line, "slides: 07")
	require.Contains(t, line, "frames: 1,500")
	require.Contains(t, line, "talk.mp4")
}

func TestProgressPrinterStops(t *testing.T) {
	stats := &slidegrab.Statistics{}
	stats.TotalFrames.Store(100)
	stats.FramesRead.Store(25)
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	newProgressPrinter(&out, []slidegrab.Job{{Name: "a.mp4", Statistics: stats}}).Run(ctx, time.Hour)
	require.Contains(t, out.String(), " 25.0%")
	require.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, filepath.Join("out", "lecture 1_slides.pdf"), outputPath("out", "/videos/lecture 1.MP4", slidesink.FormatPDF))
	require.Equal(t, filepath.Join("out", "talk_slides"), outputPath("out", "talk.mkv", slidesink.FormatDirectory))
}

func TestDiscoverVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.MKV", "a.mp4", "notes.txt", "c.avi"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp4"), 0755))

	videos, err := discoverVideos(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "b.MKV"),
		filepath.Join(dir, "c.avi"),
	}, videos)

	explicit := filepath.Join(dir, "notes.txt")
	videos, err = discoverVideos(context.Background(), []string{explicit})
	require.NoError(t, err)
	require.Equal(t, []string{explicit}, videos)

	_, err = discoverVideos(context.Background(), []string{filepath.Join(dir, "missing.mp4")})
	require.Error(t, err)

	_, err = discoverVideos(context.Background(), []string{"rtmp://example.com/live"})
	require.Error(t, err)
}
