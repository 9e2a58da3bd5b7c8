package distfield

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/chewxy/math32"
)

// Background selects the alpha written for background pixels.
type Background int

const (
	// Transparent writes background pixels as (255, 255, 255, 0).
	Transparent Background = iota
	// Opaque writes background pixels as (255, 255, 255, 255).
	Opaque
)

func (b Background) String() string {
	switch b {
	case Transparent:
		return "transparent"
	case Opaque:
		return "opaque"
	default:
		return fmt.Sprintf("Background(%d)", int(b))
	}
}

func (b Background) alpha() uint8 {
	if b == Opaque {
		return math.MaxUint8
	}
	return 0
}

// ParseBackground maps "opaque" or "transparent" to a Background.
// The empty string selects Transparent.
func ParseBackground(s string) (Background, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "transparent":
		return Transparent, nil
	case "opaque", "white":
		return Opaque, nil
	default:
		return 0, fmt.Errorf("unknown background %q", s)
	}
}

// MaxValue returns the largest value in f, or 0 for an empty or all-zero field.
func MaxValue(f Field) float32 {
	var m float32
	for _, v := range f.Values {
		if v > m {
			m = v
		}
	}
	return m
}

// Intensity maps a field value to an 8-bit gray level with an inverse-square
// falloff: 255 at the boundary, 0 at the field maximum.
// When maxDist is 0 there is no interior to normalize against and every
// shape pixel gets 255.
func Intensity(v, maxDist float32) uint8 {
	if maxDist <= 0 {
		return math.MaxUint8
	}
	t := v / maxDist
	val := 255 * (1 - t*t)
	if math32.IsNaN(val) {
		return 0
	}
	val = math32.Max(0, math32.Min(255, val))
	return uint8(math.RoundToEven(float64(val)))
}

// Encode renders f as a grayscale texture. Shape pixels carry the falloff
// intensity with full alpha; background pixels are white with bg's alpha.
func Encode(f Field, shape Mask, bg Background) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	maxDist := MaxValue(f)
	bgAlpha := bg.alpha()

	for i, isShape := range shape.Bits {
		p := out.Pix[i*4 : i*4+4 : i*4+4]
		if isShape {
			v := Intensity(f.Values[i], maxDist)
			p[0], p[1], p[2], p[3] = v, v, v, math.MaxUint8
		} else {
			p[0], p[1], p[2], p[3] = math.MaxUint8, math.MaxUint8, math.MaxUint8, bgAlpha
		}
	}
	return out
}
