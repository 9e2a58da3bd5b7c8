// Package postprocess adapts a finished texture for renderers with stricter
// upload requirements than the processed raster meets.
package postprocess

import (
	"fmt"
	"image"
	"math"
	"math/bits"
	"strings"

	"golang.org/x/image/draw"
)

type PostProcessor interface {
	Process(src *image.NRGBA) (*image.NRGBA, error)
}

// Spec names a post-processor in configuration.
type Spec struct {
	Name            string `yaml:"name"`
	DownScaleFactor int    `yaml:"downScaleFactor,omitempty"`
	// Distance is the vignette width in pixels.
	Distance float64 `yaml:"distance,omitempty"`
}

// New builds the post-processor described by s.
func New(s Spec) (PostProcessor, error) {
	switch strings.ToLower(s.Name) {
	case "pot", "poweroftwo":
		return &PowerOfTwoProcessor{DownScaleFactor: s.DownScaleFactor}, nil
	case "flipy":
		return &FlipYProcessor{}, nil
	case "vignette":
		if s.Distance < 0 {
			return nil, fmt.Errorf("vignette distance must not be negative, got %v", s.Distance)
		}
		return &VignetteProcessor{Distance: s.Distance}, nil
	default:
		return nil, fmt.Errorf("unknown post-processor %q", s.Name)
	}
}

// Apply runs procs in order.
func Apply(src *image.NRGBA, procs ...PostProcessor) (*image.NRGBA, error) {
	out := src
	for i, p := range procs {
		var err error
		if out, err = p.Process(out); err != nil {
			return nil, fmt.Errorf("post-processor %d (%T): %w", i, p, err)
		}
	}
	return out, nil
}

// PowerOfTwoProcessor rescales each side to the next power of two, after an
// optional integer downscale. Some texture pipelines require it for mipmapping.
type PowerOfTwoProcessor struct {
	DownScaleFactor int
}

func (p *PowerOfTwoProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	factor := max(p.DownScaleFactor, 1)
	b := src.Bounds()
	w := int(nextPoT(uint64(b.Dx() / factor)))
	h := int(nextPoT(uint64(b.Dy() / factor)))
	if w == b.Dx() && h == b.Dy() {
		return src, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

func nextPoT(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	return 1 << bits.Len64(n)
}

// FlipYProcessor mirrors the texture vertically, for renderers whose texture
// origin is the bottom-left corner.
type FlipYProcessor struct{}

func (p *FlipYProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		from := src.PixOffset(b.Min.X, b.Max.Y-1-y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[from:from+rowLen])
	}
	return dst, nil
}

const defaultVignetteDistance = 32.0

// VignetteProcessor fades alpha to zero toward the texture border, so a
// logo that touches its frame does not end in a hard edge. Alpha is only
// ever lowered.
type VignetteProcessor struct {
	// Distance is the fade width in pixels. Zero means 32.
	Distance float64
}

func (p *VignetteProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	b := src.Bounds()
	dist := p.Distance
	if dist == 0 {
		dist = defaultVignetteDistance
	}
	dist = math.Min(dist, math.Min(float64(b.Dx())/2, float64(b.Dy())/2))
	if dist < 1 {
		return src, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.NRGBAAt(x, y)
			edge := float64(min(x-b.Min.X, b.Max.X-1-x, y-b.Min.Y, b.Max.Y-1-y))
			if edge < dist {
				f := edge / dist
				c.A = uint8(math.Round(float64(c.A) * (1 - (1-f)*(1-f)*(1-f))))
			}
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return dst, nil
}
