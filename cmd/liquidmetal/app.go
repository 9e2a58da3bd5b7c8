package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/erinpentecost/liquidmetal/internal/config"
	"github.com/erinpentecost/liquidmetal/internal/distfield"
	"github.com/erinpentecost/liquidmetal/internal/glyph"
	"github.com/erinpentecost/liquidmetal/internal/imageio"
	"github.com/erinpentecost/liquidmetal/internal/postprocess"
	"golang.org/x/sync/errgroup"
)

const defaultLogoName = "logo"

type app struct {
	cfg    config.Config
	logger *log.Logger
	// text replaces the default triangle when no inputs are given.
	text     string
	textSize float64
}

// textureJob turns one source into one texture (and manifest).
type textureJob struct {
	// Source is the input path, or a label for a built-in logo.
	Source string
	// Load produces the raster. It is called from the worker goroutine.
	Load func() (image.Image, error)
	// Out is the texture path without extension.
	Out string
}

func (a *app) jobs(inputs []string) ([]*textureJob, error) {
	if len(inputs) == 0 {
		dir := a.cfg.OutputDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("get working directory: %w", err)
			}
			dir = wd
		}
		job := &textureJob{
			Source: "triangle",
			Load:   func() (image.Image, error) { return glyph.Triangle(), nil },
			Out:    filepath.Join(dir, defaultLogoName),
		}
		if a.text != "" {
			text, size := a.text, a.textSize
			job.Source = fmt.Sprintf("text %q", text)
			job.Load = func() (image.Image, error) { return glyph.Text(text, size) }
		}
		return []*textureJob{job}, nil
	}

	jobs := make([]*textureJob, 0, len(inputs))
	seen := map[string]string{}
	for _, in := range inputs {
		dir := a.cfg.OutputDir
		if dir == "" {
			dir = filepath.Dir(in)
		}
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(dir, base+"_liquid")
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("inputs %q and %q would both write %q", prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, &textureJob{
			Source: in,
			Load: func() (image.Image, error) {
				img, _, err := imageio.DecodeFile(in)
				return img, err
			},
			Out: out,
		})
	}
	return jobs, nil
}

func (a *app) run(ctx context.Context, inputs []string) error {
	opts, err := a.cfg.Options()
	if err != nil {
		return fmt.Errorf("options: %w", err)
	}
	opts.Logger = a.logger
	procs, err := a.cfg.PostProcessors()
	if err != nil {
		return fmt.Errorf("post-processors: %w", err)
	}
	format, err := imageio.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}

	jobs, err := a.jobs(inputs)
	if err != nil {
		return err
	}
	a.logger.Infof("Processing %d image(s) with %d passes...", len(jobs), a.cfg.Passes)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.cfg.Threads, 1))
	for _, job := range jobs {
		g.Go(func() error {
			return a.process(gctx, job, opts, procs, format)
		})
	}
	return g.Wait()
}

func (a *app) process(ctx context.Context, job *textureJob, opts distfield.Options, procs []postprocess.PostProcessor, format imageio.Format) error {
	a.logger.Infof("Processing %s...", job.Source)
	src, err := job.Load()
	if err != nil {
		return fmt.Errorf("load %s: %w", job.Source, err)
	}

	res, err := distfield.Process(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("process %s: %w", job.Source, err)
	}
	texture, err := postprocess.Apply(res.Raster, procs...)
	if err != nil {
		return fmt.Errorf("post-process %s: %w", job.Source, err)
	}

	texturePath := job.Out + format.Ext()
	if err := imageio.EncodeFile(texturePath, texture, format); err != nil {
		return err
	}
	a.logger.Info("Wrote texture", "path", texturePath, "size", texture.Bounds().Size(), "maxDist", res.MaxDist)

	if !a.cfg.Manifest {
		return nil
	}
	manifestPath := job.Out + ".json"
	m := imageio.Manifest{
		Texture: filepath.Base(texturePath),
		Source:  job.Source,
		Width:   texture.Bounds().Dx(),
		Height:  texture.Bounds().Dy(),
		// The logo's aspect, even when post-processing stretched the texture.
		ImgRatio:   res.Aspect,
		Background: opts.Background.String(),
		Format:     format,
	}
	if err := imageio.WriteManifest(manifestPath, m); err != nil {
		return fmt.Errorf("write manifest for %s: %w", job.Source, err)
	}
	return nil
}
