package distfield

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ink   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// filledRaster returns a w x h white raster with the rectangle r painted in c.
func filledRaster(w, h int, r image.Rectangle, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if image.Pt(x, y).In(r) {
				img.SetNRGBA(x, y, c)
			} else {
				img.SetNRGBA(x, y, white)
			}
		}
	}
	return img
}

func TestBackgroundPredicate(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want bool
	}{
		{name: "opaque white", c: white, want: true},
		{name: "transparent black", c: color.NRGBA{}, want: true},
		{name: "transparent colored", c: color.NRGBA{R: 10, G: 20, B: 30, A: 0}, want: true},
		{name: "near white", c: color.NRGBA{R: 254, G: 255, B: 255, A: 255}, want: false},
		{name: "translucent white", c: color.NRGBA{R: 255, G: 255, B: 255, A: 254}, want: false},
		{name: "barely visible", c: color.NRGBA{R: 255, G: 255, B: 255, A: 1}, want: false},
		{name: "black", c: ink, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isBackground(tt.c.R, tt.c.G, tt.c.B, tt.c.A))
		})
	}
}

func TestClassifySinglePixel(t *testing.T) {
	img := filledRaster(3, 3, image.Rect(1, 1, 2, 2), ink)
	shape, edge := Classify(img)

	require.Equal(t, 1, shape.Count())
	require.True(t, shape.At(1, 1))
	require.Equal(t, 1, edge.Count())
	require.True(t, edge.At(1, 1))
}

func TestClassifyBlock(t *testing.T) {
	img := filledRaster(5, 5, image.Rect(1, 1, 4, 4), ink)
	shape, edge := Classify(img)

	require.Equal(t, 9, shape.Count())
	require.Equal(t, 8, edge.Count())
	require.False(t, edge.At(2, 2), "block center has only shape neighbors")
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if edge.At(x, y) {
				require.True(t, shape.At(x, y), "edge (%d,%d) outside shape", x, y)
			}
		}
	}
}

func TestClassifyDiagonalNeighbor(t *testing.T) {
	// The 3x3 block's center touches background only through the diagonal
	// once the top-left corner is cleared.
	img := filledRaster(5, 5, image.Rect(1, 1, 4, 4), ink)
	img.SetNRGBA(1, 1, white)
	_, edge := Classify(img)
	require.True(t, edge.At(2, 2))
}

func TestClassifyImageBorder(t *testing.T) {
	img := filledRaster(3, 3, image.Rect(0, 0, 3, 3), ink)
	shape, edge := Classify(img)

	require.Equal(t, 9, shape.Count())
	require.Equal(t, 8, edge.Count(), "every pixel on the raster border is an edge")
	require.False(t, edge.At(1, 1))
}

func TestClassifyAllBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	shape, edge := Classify(img)
	require.Zero(t, shape.Count())
	require.Zero(t, edge.Count())
}
