package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/slidegrab"
	"github.com/xaionaro-go/slidegrab/avconv"
	"github.com/xaionaro-go/slidegrab/detector"
	"github.com/xaionaro-go/slidegrab/framesource"
	"github.com/xaionaro-go/slidegrab/framesource/libav"
	"github.com/xaionaro-go/slidegrab/imageprocessor"
	"github.com/xaionaro-go/slidegrab/logger"
	"github.com/xaionaro-go/slidegrab/slidesink"
	"github.com/xaionaro-go/slidegrab/urltools"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags] [video-file-or-directory ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Without arguments the current directory is scanned for %s files.\n\n", strings.Join(urltools.VideoExtensions, " "))
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelInfo
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	configPath := pflag.String("config", "", "path to a YAML config file")
	preset := pflag.String("preset", detector.PresetTwoPhase, fmt.Sprintf("detector preset: %s or %s", detector.PresetTwoPhase, detector.PresetRelativeOnly))
	formatName := pflag.String("format", string(slidesink.FormatPDF), "output format: pdf, dir or zip")
	outputDir := pflag.String("output-dir", ".", "directory to write the decks to")
	mergeInto := pflag.String("merge-into", "", "write the slides of all videos into this single deck")
	workers := pflag.Int("workers", 1, "how many videos to process concurrently")
	decoder := pflag.String("decoder", libav.BackendName, fmt.Sprintf("video decoder backend %v", framesource.Backends()))
	preprocessor := pflag.String("preprocessor", imageprocessor.NameSoftware, fmt.Sprintf("frame preprocessor %v", imageprocessor.Names()))
	showProgress := pflag.Bool("progress", true, "print a progress bar to stderr")

	defaults := slidegrab.DefaultConfig()
	samplingInterval := pflag.Duration("sampling-interval", defaults.SamplingInterval, "playback time between two analyzed frames")
	earlyPhaseDuration := pflag.Duration("early-phase-duration", defaults.Detector.EarlyPhaseDuration, "playback time during which the absolute threshold is used (0 disables)")
	earlyPhaseThreshold := pflag.Uint64("early-phase-threshold", defaults.Detector.EarlyPhaseThreshold, "changed pixels that make a page turn in the early phase")
	sensitivityFactor := pflag.Float64("sensitivity-factor", defaults.Detector.SensitivityFactor, "ratio to the rolling average that makes a page turn")
	minHistoryLength := pflag.Int("min-history-length", defaults.Detector.MinHistoryLength, "history entries required before the ratio rule applies")
	pixelNoiseThreshold := pflag.Uint8("pixel-noise-threshold", defaults.Detector.PixelNoiseThreshold, "luminance delta above which a pixel counts as changed")
	noiseFloor := pflag.Uint64("noise-floor", defaults.Detector.NoiseFloor, "changed pixels a tick must exceed to enter the history")
	historyCapacity := pflag.Int("history-capacity", defaults.Detector.HistoryCapacity, "size of the rolling history")
	kernelSize := pflag.Int("blur-kernel-size", defaults.Preprocessor.KernelSize, "Gaussian blur kernel size (odd)")
	pflag.Parse()

	l := logger.New(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.SetDefault(func() logger.Logger {
		return l
	})
	defer belt.Flush(ctx)

	ctx, cancelFn := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancelFn()

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg, err := slidegrab.ConfigForPreset(*preset)
	if err != nil {
		l.Fatal(err)
	}
	if *configPath != "" {
		var presetOverride string
		if pflag.CommandLine.Changed("preset") {
			presetOverride = *preset
		}
		if cfg, err = slidegrab.LoadConfigWithPreset(*configPath, presetOverride); err != nil {
			l.Fatal(err)
		}
	}
	if cfg.LogLevel != "" && !pflag.CommandLine.Changed("log-level") {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			l.Fatal(err)
		}
		l = l.WithLevel(level)
		ctx = logger.CtxWithLogger(ctx, l)
	}

	astiav.SetLogLevel(avconv.LogLevelToAstiav(l.Level()))
	astiav.SetLogCallback(func(c astiav.Classer, level astiav.LogLevel, fmt, msg string) {
		var cs string
		if c != nil {
			if cl := c.Class(); cl != nil {
				cs = " - class: " + cl.String()
			}
		}
		l.Logf(
			avconv.LogLevelFromAstiav(level),
			"%s%s",
			strings.TrimSpace(msg), cs,
		)
	})

	overrides := map[string]func(){
		"sampling-interval":     func() { cfg.SamplingInterval = *samplingInterval },
		"early-phase-duration":  func() { cfg.Detector.EarlyPhaseDuration = *earlyPhaseDuration },
		"early-phase-threshold": func() { cfg.Detector.EarlyPhaseThreshold = *earlyPhaseThreshold },
		"sensitivity-factor":    func() { cfg.Detector.SensitivityFactor = *sensitivityFactor },
		"min-history-length":    func() { cfg.Detector.MinHistoryLength = *minHistoryLength },
		"pixel-noise-threshold": func() { cfg.Detector.PixelNoiseThreshold = *pixelNoiseThreshold },
		"noise-floor":           func() { cfg.Detector.NoiseFloor = *noiseFloor },
		"history-capacity":      func() { cfg.Detector.HistoryCapacity = *historyCapacity },
		"blur-kernel-size":      func() { cfg.Preprocessor.KernelSize = *kernelSize },
	}
	for name, apply := range overrides {
		if pflag.CommandLine.Changed(name) {
			apply()
		}
	}
	if err := cfg.Validate(); err != nil {
		l.Fatal(err)
	}
	l.Debugf("effective config: %s", spew.Sdump(cfg))

	format, err := slidesink.ParseFormat(*formatName)
	if err != nil {
		l.Fatal(err)
	}

	videos, err := discoverVideos(ctx, pflag.Args())
	if err != nil {
		l.Fatal(err)
	}
	if len(videos) == 0 {
		fmt.Fprintf(os.Stderr, "no video files (%s) found\n", strings.Join(urltools.VideoExtensions, " "))
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		l.Fatal(err)
	}

	var shared slidesink.Sink
	if *mergeInto != "" {
		sink, err := slidesink.New(format, *mergeInto)
		if err != nil {
			l.Fatal(err)
		}
		shared = slidesink.NewSerialized(sink)
	}

	jobs := make([]slidegrab.Job, 0, len(videos))
	outputs := make([]string, 0, len(videos))
	for _, video := range videos {
		video := video
		job := slidegrab.Job{
			Name: video,
			Open: func(ctx context.Context) (framesource.Source, error) {
				return framesource.Open(ctx, *decoder, video)
			},
			Statistics: &slidegrab.Statistics{},
		}
		if shared != nil {
			job.Sink = shared
		} else {
			outPath := outputPath(*outputDir, video, format)
			sink, err := slidesink.New(format, outPath)
			if err != nil {
				l.Fatal(err)
			}
			job.Sink = sink
			job.CloseSink = true
			outputs = append(outputs, outPath)
		}
		jobs = append(jobs, job)
	}

	extractor := slidegrab.NewExtractor(cfg)
	preprocessorName := *preprocessor
	extractor.NewPreprocessor = func(ctx context.Context, cfg imageprocessor.Config) (imageprocessor.Preprocessor, error) {
		return imageprocessor.New(ctx, preprocessorName, cfg)
	}

	startedAt := time.Now()
	progressCtx, stopProgress := context.WithCancel(ctx)
	progressDone := make(chan struct{})
	if *showProgress {
		observability.Go(progressCtx, func(ctx context.Context) {
			defer close(progressDone)
			newProgressPrinter(os.Stderr, jobs).Run(ctx, 500*time.Millisecond)
		})
	} else {
		close(progressDone)
	}

	results := extractor.ExtractBatch(ctx, jobs, *workers)
	stopProgress()
	<-progressDone

	if shared != nil {
		if err := shared.Close(ctx); err != nil {
			l.Errorf("unable to write '%s': %v", *mergeInto, err)
			os.Exit(1)
		}
		outputs = append(outputs, *mergeInto)
	}

	failed := 0
	var slides, frames uint64
	for _, r := range results {
		if r.Result != nil {
			slides += r.Result.SlidesCommitted
			frames += r.Result.FramesRead
		}
		if r.Err != nil {
			failed++
			l.Errorf("'%s' failed: %v", r.Job.Name, r.Err)
			continue
		}
		if r.Result.Empty {
			l.Warnf("'%s' contains no frames", r.Job.Name)
		}
	}

	fmt.Fprintf(os.Stderr, "done: %d/%d videos, %s slides from %s frames in %v\n",
		len(results)-failed, len(results),
		humanize.Comma(int64(slides)), humanize.Comma(int64(frames)),
		time.Since(startedAt).Round(time.Millisecond),
	)
	for _, path := range outputs {
		if info, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "  %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
		}
	}

	if failed > 0 {
		belt.Flush(ctx)
		os.Exit(1)
	}
}

func outputPath(dir string, video string, format slidesink.Format) string {
	base := filepath.Base(video)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"_slides"+format.Extension())
}
