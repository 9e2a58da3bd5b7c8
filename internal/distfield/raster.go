package distfield

import (
	"fmt"
	"image"
)

// Mask is a boolean grid with one entry per pixel, row-major.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

func NewMask(width, height int) Mask {
	return Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

// At reports the mask value at (x, y). Out of bounds is false.
func (m Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Count returns the number of set entries.
func (m Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

func (m Mask) sameSize(o Mask) bool {
	return m.Width == o.Width && m.Height == o.Height && len(m.Bits) == len(o.Bits)
}

// Field is the scalar grid built by the Solver.
type Field struct {
	Width  int
	Height int
	Values []float32
}

// At returns the field value at (x, y). Out of bounds is 0.
func (f Field) At(x, y int) float32 {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0
	}
	return f.Values[y*f.Width+x]
}

// CheckRaster verifies that img is a tightly packed raster anchored at the origin,
// so that len(Pix) == width*height*4.
func CheckRaster(img *image.NRGBA) error {
	if img == nil {
		return fmt.Errorf("nil raster")
	}
	b := img.Bounds()
	if b.Min != (image.Point{}) {
		return fmt.Errorf("raster origin is %v, want (0,0)", b.Min)
	}
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("raster is empty: %dx%d", w, h)
	}
	if img.Stride != w*4 {
		return fmt.Errorf("raster stride is %d, want %d", img.Stride, w*4)
	}
	if len(img.Pix) != w*h*4 {
		return fmt.Errorf("raster has %d bytes, want %d", len(img.Pix), w*h*4)
	}
	return nil
}
