package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/erinpentecost/liquidmetal/internal/config"
	"github.com/erinpentecost/liquidmetal/internal/distfield"
	"github.com/spf13/pflag"
)

var (
	configPath    = pflag.StringP("config", "c", "liquidmetal.yaml", "YAML config file; missing is fine")
	outDir        = pflag.StringP("out", "o", "", "output directory (default: next to each input, or the working directory)")
	format        = pflag.StringP("format", "f", "", "texture format: png, bmp, tiff, tga, dds, dds-la")
	background    = pflag.StringP("background", "b", "", "background alpha: transparent or opaque")
	interpolation = pflag.String("interpolation", "", "resize kernel: catmullrom, bilinear, approxbilinear, nearest, lanczos")
	passes        = pflag.Int("passes", distfield.DefaultPasses, "relaxation passes")
	threads       = pflag.IntP("threads", "t", 0, "images processed at once")
	workers       = pflag.Int("workers", 0, "row bands solved at once per image")
	manifest      = pflag.Bool("manifest", true, "write a JSON manifest with the aspect ratio next to each texture")
	text          = pflag.String("text", "", "render this text as the logo instead of the default triangle")
	textSize      = pflag.Float64("text-size", 200, "point size for --text")
	verbose       = pflag.BoolP("verbose", "v", false, "debug logging")
)

// loadConfig reads the config file and lays explicitly set flags over it.
func loadConfig(fl *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}
	if fl.Changed("out") {
		cfg.OutputDir = *outDir
	}
	if fl.Changed("format") {
		cfg.Format = *format
	}
	if fl.Changed("background") {
		cfg.Background = *background
	}
	if fl.Changed("interpolation") {
		cfg.Interpolation = *interpolation
	}
	if fl.Changed("passes") {
		cfg.Passes = *passes
	}
	if fl.Changed("threads") {
		cfg.Threads = *threads
	}
	if fl.Changed("workers") {
		cfg.Workers = *workers
	}
	if fl.Changed("manifest") {
		cfg.Manifest = *manifest
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: liquidmetal [flags] [image...]\n\n"+
			"Builds liquid-metal distance-field textures from logo images.\n"+
			"With no images, the built-in triangle (or --text) is used.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := newLogger(level)

	cfg, err := loadConfig(pflag.CommandLine)
	if err != nil {
		logger.Error("FAILED", "err", err)
		os.Exit(33)
	}

	a := &app{cfg: cfg, logger: logger}
	if *text != "" {
		a.text = *text
		a.textSize = *textSize
	}

	start := time.Now()
	if err := a.run(context.Background(), pflag.Args()); err != nil {
		logger.Error("FAILED", "err", err)
		os.Exit(33)
	}
	logger.Infof("Done (%s)", time.Since(start).Round(time.Millisecond))
}
