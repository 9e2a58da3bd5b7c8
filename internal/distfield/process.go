// Package distfield turns a logo image into the grayscale distance-like
// texture sampled by the liquid-metal shader.
//
// The pipeline is strictly linear: the source is resized into a working
// range, pixels are split into shape and background, a fixed number of
// diffusion passes builds a smooth field away from the silhouette edge, and
// the field is normalized and written out with an inverse-square falloff.
// It approximates a distance transform; it does not compute an exact one.
package distfield

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures Process. Zero values select defaults.
type Options struct {
	// Background is the alpha policy for background pixels in the output.
	Background Background
	// Interpolation is the resampling kernel used when resizing.
	Interpolation Interpolation
	// Passes overrides DefaultPasses when positive.
	Passes int
	// Workers bounds the row bands computed concurrently per pass.
	// Zero means GOMAXPROCS.
	Workers int
	Logger  *log.Logger
}

// Result is the processed texture plus the side values a renderer needs.
type Result struct {
	Raster *image.NRGBA
	// Aspect is width/height of Raster.
	Aspect float64
	// MaxDist is the field maximum used for normalization.
	MaxDist     float32
	ShapePixels int
	EdgePixels  int
}

// Process runs the full pipeline on src.
// Each call allocates fresh working buffers and shares nothing with other calls.
func Process(ctx context.Context, src image.Image, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	sb := src.Bounds()
	if sb.Empty() {
		return nil, fmt.Errorf("source image is empty: %v", sb)
	}

	start := time.Now()
	w, h := TargetSize(sb.Dx(), sb.Dy())
	scratch := image.NewNRGBA(image.Rect(0, 0, w, h))
	if err := Resize(scratch, src, opts.Interpolation); err != nil {
		return nil, fmt.Errorf("resize %dx%d to %dx%d: %w", sb.Dx(), sb.Dy(), w, h, err)
	}
	logger.Debug("resized", "from", sb.Size(), "to", scratch.Bounds().Size(), "interp", opts.Interpolation)

	shape, edge := Classify(scratch)
	result := &Result{
		Aspect:      float64(w) / float64(h),
		ShapePixels: shape.Count(),
		EdgePixels:  edge.Count(),
	}
	logger.Debug("classified", "shape", result.ShapePixels, "edge", result.EdgePixels)

	solver := NewSolver()
	if opts.Passes > 0 {
		solver.Passes = opts.Passes
	}
	if opts.Workers > 0 {
		solver.Workers = opts.Workers
	}
	field, err := solver.Solve(ctx, shape, edge)
	if err != nil {
		return nil, fmt.Errorf("solve distance field: %w", err)
	}

	result.MaxDist = MaxValue(field)
	result.Raster = Encode(field, shape, opts.Background)
	logger.Debug("encoded",
		"passes", solver.Passes,
		"maxDist", result.MaxDist,
		"background", opts.Background,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}
