package distfield

import (
	"image"
	"math"
)

// isBackground uses exact equality: opaque pure white, or fully transparent.
// Anti-aliased near-white pixels are shape.
func isBackground(r, g, b, a uint8) bool {
	return (r == math.MaxUint8 && g == math.MaxUint8 && b == math.MaxUint8 && a == math.MaxUint8) || a == 0
}

// Classify splits img into shape and edge masks.
// A shape pixel is an edge if any of its 8 neighbors is out of bounds or not shape.
func Classify(img *image.NRGBA) (shape, edge Mask) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	shape = NewMask(w, h)
	edge = NewMask(w, h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			shape.Bits[y*w+x] = !isBackground(p[0], p[1], p[2], p[3])
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !shape.Bits[y*w+x] {
				continue
			}
			edge.Bits[y*w+x] = touchesOutside(shape, x, y)
		}
	}
	return shape, edge
}

func touchesOutside(shape Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			// At is false out of bounds, which covers the border case.
			if !shape.At(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}
