package distfield

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

const (
	// MinSide is the smallest the dominant side of a working raster may be.
	MinSide = 500
	// MaxSide is the largest the dominant side of a working raster may be.
	MaxSide = 1000
)

// Interpolation selects the resampling kernel used by Resize.
type Interpolation int

const (
	CatmullRom Interpolation = iota
	BiLinear
	ApproxBiLinear
	NearestNeighbor
	// Lanczos uses a Lanczos3 kernel.
	Lanczos
)

var interpolationNames = map[Interpolation]string{
	CatmullRom:      "catmullrom",
	BiLinear:        "bilinear",
	ApproxBiLinear:  "approxbilinear",
	NearestNeighbor: "nearest",
	Lanczos:         "lanczos",
}

func (i Interpolation) String() string {
	if s, ok := interpolationNames[i]; ok {
		return s
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation maps a name like "bilinear" to an Interpolation.
// The empty string selects CatmullRom.
func ParseInterpolation(s string) (Interpolation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CatmullRom, nil
	}
	for k, v := range interpolationNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation %q", s)
}

// TargetSize returns the working dimensions for a w x h source.
// Sources with both sides in [MinSide, MaxSide] are left alone. Otherwise the
// dominant side is clamped into range and the other side scaled to keep the
// aspect ratio.
func TargetSize(w, h int) (int, int) {
	if w >= MinSide && w <= MaxSide && h >= MinSide && h <= MaxSide {
		return w, h
	}
	if w > h {
		switch {
		case w > MaxSide:
			return MaxSide, scaleSide(MaxSide, h, w)
		case w < MinSide:
			return MinSide, scaleSide(MinSide, h, w)
		}
	} else {
		switch {
		case h > MaxSide:
			return scaleSide(MaxSide, w, h), MaxSide
		case h < MinSide:
			return scaleSide(MinSide, w, h), MinSide
		}
	}
	return w, h
}

func scaleSide(target, side, dominant int) int {
	v := int(math.Round(float64(target) * float64(side) / float64(dominant)))
	return max(v, 1)
}

// Resize draws src into dst, scaling it to fill dst's bounds.
// dst is a scratch raster owned by the caller; it must already have the target size.
func Resize(dst *image.NRGBA, src image.Image, interp Interpolation) error {
	if err := CheckRaster(dst); err != nil {
		return fmt.Errorf("resize destination: %w", err)
	}
	sb := src.Bounds()
	if sb.Empty() {
		return fmt.Errorf("resize source is empty")
	}
	db := dst.Bounds()

	if sb.Size() == db.Size() {
		draw.Draw(dst, db, src, sb.Min, draw.Src)
		return nil
	}

	switch interp {
	case CatmullRom:
		draw.CatmullRom.Scale(dst, db, src, sb, draw.Src, nil)
	case BiLinear:
		draw.BiLinear.Scale(dst, db, src, sb, draw.Src, nil)
	case ApproxBiLinear:
		draw.ApproxBiLinear.Scale(dst, db, src, sb, draw.Src, nil)
	case NearestNeighbor:
		draw.NearestNeighbor.Scale(dst, db, src, sb, draw.Src, nil)
	case Lanczos:
		scaled := resize.Resize(uint(db.Dx()), uint(db.Dy()), src, resize.Lanczos3)
		draw.Draw(dst, db, scaled, scaled.Bounds().Min, draw.Src)
	default:
		return fmt.Errorf("unknown interpolation %v", interp)
	}
	return nil
}
