package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/erinpentecost/liquidmetal/internal/config"
	"github.com/erinpentecost/liquidmetal/internal/imageio"
	"github.com/erinpentecost/liquidmetal/internal/postprocess"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T, out string) *app {
	t.Helper()
	cfg := config.Default()
	cfg.Passes = 5
	cfg.Threads = 2
	cfg.OutputDir = out
	return &app{cfg: cfg, logger: log.New(io.Discard)}
}

// writeLogo writes a w x h white image with a centered black rectangle.
func writeLogo(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.NRGBA{255, 255, 255, 255}
			if x > w/4 && x < 3*w/4 && y > h/4 && y < 3*h/4 {
				c = color.NRGBA{0, 0, 0, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	require.NoError(t, imageio.EncodeFile(path, img, imageio.PNG))
}

func TestRunWritesTextureAndManifest(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "badge.png")
	writeLogo(t, in, 1200, 600)

	out := filepath.Join(dir, "out")
	a := testApp(t, out)
	require.NoError(t, a.run(context.Background(), []string{in}))

	tex, format, err := imageio.DecodeFile(filepath.Join(out, "badge_liquid.png"))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, image.Pt(1000, 500), tex.Bounds().Size())

	m, err := imageio.ReadManifest(filepath.Join(out, "badge_liquid.json"))
	require.NoError(t, err)
	require.Equal(t, "badge_liquid.png", m.Texture)
	require.Equal(t, in, m.Source)
	require.Equal(t, 1000, m.Width)
	require.Equal(t, 500, m.Height)
	require.InDelta(t, 2.0, m.ImgRatio, 1e-9)
	require.Equal(t, "transparent", m.Background)
	require.Equal(t, imageio.PNG, m.Format)
}

func TestRunManifestDescribesPostProcessedTexture(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "badge.png")
	writeLogo(t, in, 1200, 600)

	a := testApp(t, "")
	a.cfg.PostProcess = []postprocess.Spec{{Name: "pot"}}
	require.NoError(t, a.run(context.Background(), []string{in}))

	tex, _, err := imageio.DecodeFile(filepath.Join(dir, "badge_liquid.png"))
	require.NoError(t, err)
	require.Equal(t, image.Pt(1024, 512), tex.Bounds().Size())

	m, err := imageio.ReadManifest(filepath.Join(dir, "badge_liquid.json"))
	require.NoError(t, err)
	require.Equal(t, 1024, m.Width)
	require.Equal(t, 512, m.Height)
	require.InDelta(t, 2.0, m.ImgRatio, 1e-9)
}

func TestRunSVGInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "mark.svg")
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 80 40" width="800" height="400">
  <rect x="20" y="10" width="40" height="20" fill="black"/>
</svg>`
	require.NoError(t, os.WriteFile(in, []byte(doc), 0666))

	require.NoError(t, testApp(t, "").run(context.Background(), []string{in}))

	m, err := imageio.ReadManifest(filepath.Join(dir, "mark_liquid.json"))
	require.NoError(t, err)
	require.Equal(t, 800, m.Width)
	require.Equal(t, 400, m.Height)
	require.InDelta(t, 2.0, m.ImgRatio, 1e-9)
}

func TestRunWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "mark.png")
	writeLogo(t, in, 600, 600)

	a := testApp(t, "")
	a.cfg.Manifest = false
	a.cfg.Format = string(imageio.DDSLA)
	require.NoError(t, a.run(context.Background(), []string{in}))

	_, format, err := imageio.DecodeFile(filepath.Join(dir, "mark_liquid.dds"))
	require.NoError(t, err)
	require.Equal(t, "dds", format)
	_, err = os.Stat(filepath.Join(dir, "mark_liquid.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunDefaultTriangle(t *testing.T) {
	out := t.TempDir()
	a := testApp(t, out)
	require.NoError(t, a.run(context.Background(), nil))

	m, err := imageio.ReadManifest(filepath.Join(out, defaultLogoName+".json"))
	require.NoError(t, err)
	require.Equal(t, "triangle", m.Source)
	require.Equal(t, 500, m.Width)
	require.Equal(t, 500, m.Height)
	require.InDelta(t, 1.0, m.ImgRatio, 1e-9)
}

func TestRunDecodeError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(in, []byte("not an image"), 0666))

	err := testApp(t, dir).run(context.Background(), []string{in})
	require.Error(t, err)
	var de *imageio.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, in, de.Source)

	_, err = os.Stat(filepath.Join(dir, "notes_liquid.png"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "badge.png")
	writeLogo(t, in, 500, 500)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := testApp(t, dir).run(ctx, []string{in})
	require.ErrorIs(t, err, context.Canceled)
}

func TestJobsRejectsCollidingOutputs(t *testing.T) {
	a := testApp(t, t.TempDir())
	_, err := a.jobs([]string{"a/logo.png", "b/logo.jpg"})
	require.Error(t, err)
}

// parseFlags parses args into a set sharing the package flags, and resets
// them afterwards since the *pflag.Flag values are shared.
func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fl := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fl.AddFlagSet(pflag.CommandLine)
	t.Cleanup(func() {
		fl.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
	require.NoError(t, fl.Parse(args))
	return fl
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "liquidmetal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("passes: 42\nbackground: opaque\n"), 0666))

	*configPath = path
	t.Cleanup(func() { *configPath = "liquidmetal.yaml" })

	fl := parseFlags(t, "--passes", "7", "--format", "tga")

	cfg, err := loadConfig(fl)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Passes)
	require.Equal(t, "tga", cfg.Format)
	// Not given on the command line, so the file wins.
	require.Equal(t, "opaque", cfg.Background)
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	*configPath = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { *configPath = "liquidmetal.yaml" })

	fl := parseFlags(t, "--background", "plaid")

	_, err := loadConfig(fl)
	require.Error(t, err)
}

func TestLoadConfigRejectsZeroPasses(t *testing.T) {
	*configPath = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { *configPath = "liquidmetal.yaml" })

	fl := parseFlags(t, "--passes", "0")

	_, err := loadConfig(fl)
	require.ErrorContains(t, err, "passes")
}
