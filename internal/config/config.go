// Package config loads liquidmetal settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/erinpentecost/liquidmetal/internal/distfield"
	"github.com/erinpentecost/liquidmetal/internal/imageio"
	"github.com/erinpentecost/liquidmetal/internal/postprocess"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Background is "transparent" or "opaque".
	Background    string `yaml:"background"`
	Interpolation string `yaml:"interpolation"`
	Passes        int    `yaml:"passes"`
	// Workers bounds the row bands solved concurrently inside one image.
	Workers int `yaml:"workers"`
	// Threads bounds how many images are processed at once.
	Threads     int                `yaml:"threads"`
	Format      string             `yaml:"format"`
	OutputDir   string             `yaml:"outputDir"`
	Manifest    bool               `yaml:"manifest"`
	PostProcess []postprocess.Spec `yaml:"postprocess,omitempty"`
}

func Default() Config {
	return Config{
		Background:    distfield.Transparent.String(),
		Interpolation: distfield.CatmullRom.String(),
		Passes:        distfield.DefaultPasses,
		Workers:       runtime.GOMAXPROCS(0),
		Threads:       4,
		Format:        string(imageio.PNG),
		Manifest:      true,
	}
}

// Load reads path over Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every enumerated field.
func (c Config) Validate() error {
	if _, err := distfield.ParseBackground(c.Background); err != nil {
		return err
	}
	if _, err := distfield.ParseInterpolation(c.Interpolation); err != nil {
		return err
	}
	if _, err := imageio.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Passes < 1 {
		return fmt.Errorf("passes must be at least 1, got %d", c.Passes)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	for _, s := range c.PostProcess {
		if _, err := postprocess.New(s); err != nil {
			return err
		}
	}
	return nil
}

// Options converts c into pipeline options.
func (c Config) Options() (distfield.Options, error) {
	bg, err := distfield.ParseBackground(c.Background)
	if err != nil {
		return distfield.Options{}, err
	}
	interp, err := distfield.ParseInterpolation(c.Interpolation)
	if err != nil {
		return distfield.Options{}, err
	}
	return distfield.Options{
		Background:    bg,
		Interpolation: interp,
		Passes:        c.Passes,
		Workers:       c.Workers,
	}, nil
}

// PostProcessors builds the configured chain.
func (c Config) PostProcessors() ([]postprocess.PostProcessor, error) {
	procs := make([]postprocess.PostProcessor, 0, len(c.PostProcess))
	for _, s := range c.PostProcess {
		p, err := postprocess.New(s)
		if err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}
	return procs, nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
