// Package glyph rasterizes the built-in logo sources used when no image is uploaded.
package glyph

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"

	"github.com/erinpentecost/liquidmetal/internal/imageio"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/vector"
)

const (
	// TriangleSize is the nominal raster size of the default logo.
	TriangleSize = 500
	viewBox      = 100
)

//go:embed triangle.svg
var triangleSVG []byte

// Triangle renders the default logo: a black filled triangle on a
// transparent TriangleSize x TriangleSize canvas, decoded from the same
// embedded SVG document an uploaded logo would go through.
func Triangle() *image.NRGBA {
	img, err := imageio.DecodeSVG(bytes.NewReader(triangleSVG))
	if err != nil {
		panic(fmt.Errorf("failed to decode embedded triangle SVG: %w", err))
	}
	return img
}

// Polygon fills a closed outline given in view box units onto a transparent
// size x size canvas.
func Polygon(points [][2]float32, size int, c color.Color) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	if len(points) < 3 {
		return dst
	}
	scale := float32(size) / viewBox
	r := vector.NewRasterizer(size, size)
	r.MoveTo(points[0][0]*scale, points[0][1]*scale)
	for _, p := range points[1:] {
		r.LineTo(p[0]*scale, p[1]*scale)
	}
	r.ClosePath()
	r.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
	return dst
}

// Text renders s in Go Regular at the given point size, black on a
// transparent canvas with a margin of a quarter of the size on every side.
func Text(s string, size float64) (*image.NRGBA, error) {
	if s == "" {
		return nil, fmt.Errorf("empty text")
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()
	metrics := face.Metrics()
	advance := font.MeasureString(face, s).Ceil()
	pad := int(size / 4)
	w := advance + 2*pad
	h := metrics.Ascent.Ceil() + metrics.Descent.Ceil() + 2*pad

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.Black)
	if _, err := ctx.DrawString(s, freetype.Pt(pad, pad+metrics.Ascent.Ceil())); err != nil {
		return nil, fmt.Errorf("draw %q: %w", s, err)
	}
	return dst, nil
}
