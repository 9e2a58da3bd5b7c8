package dds

import (
	"fmt"
	"image"
	"image/draw"
	"io"
)

// Layout selects the uncompressed pixel layout written by Encode.
type Layout int

const (
	// RGBA8 stores four bytes per pixel in R, G, B, A order.
	RGBA8 Layout = iota
	// LA8 stores luminance and alpha, two bytes per pixel. Luminance is
	// taken from the red channel, which is exact for grayscale textures.
	LA8
)

func (l Layout) String() string {
	switch l {
	case RGBA8:
		return "rgba8"
	case LA8:
		return "la8"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Encode writes m into w as an uncompressed DDS texture.
func Encode(w io.Writer, m image.Image, layout Layout) error {
	src := asNRGBA(m)
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return fmt.Errorf("dds: empty image")
	}

	hd := header{Width: uint32(width), Height: uint32(height)}
	var bpp int
	switch layout {
	case RGBA8:
		bpp = 4
		hd.PF = pixelFormat{
			Flags:    pfRGB | pfAlphaPixels,
			BitCount: 32,
			RMask:    0x000000FF,
			GMask:    0x0000FF00,
			BMask:    0x00FF0000,
			AMask:    0xFF000000,
		}
	case LA8:
		bpp = 2
		hd.PF = pixelFormat{
			Flags:    pfLuminance | pfAlphaPixels,
			BitCount: 16,
			RMask:    0x00FF,
			AMask:    0xFF00,
		}
	default:
		return fmt.Errorf("dds: unknown layout %v", layout)
	}
	hd.Pitch = uint32(width * bpp)

	if err := writeHeader(w, hd); err != nil {
		return fmt.Errorf("dds: write header: %w", err)
	}

	row := make([]byte, width*bpp)
	for y := 0; y < height; y++ {
		off := y * src.Stride
		line := src.Pix[off : off+width*4]
		if layout == RGBA8 {
			copy(row, line)
		} else {
			for x := 0; x < width; x++ {
				row[x*2] = line[x*4]
				row[x*2+1] = line[x*4+3]
			}
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("dds: write row %d: %w", y, err)
		}
	}
	return nil
}

// asNRGBA returns m as a zero-origin *image.NRGBA, converting if needed.
func asNRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := m.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), m, b.Min, draw.Src)
	return n
}
