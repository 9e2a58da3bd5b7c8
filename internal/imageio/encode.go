package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dblezek/tga"
	"github.com/erinpentecost/liquidmetal/internal/dds"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output texture container.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	TGA  Format = "tga"
	// DDS is uncompressed RGBA8.
	DDS Format = "dds"
	// DDSLA is uncompressed luminance+alpha, half the size of DDS.
	DDSLA Format = "dds-la"
)

var formats = []Format{PNG, BMP, TIFF, TGA, DDS, DDSLA}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	switch f {
	case DDS, DDSLA:
		return ".dds"
	case TIFF:
		return ".tif"
	default:
		return "." + string(f)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case BMP:
		// 40-byte BMP headers carry no alpha mask, so readers treat the
		// background as opaque white.
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case TGA:
		return tga.Encode(w, img)
	case DDS:
		return dds.Encode(w, img, dds.RGBA8)
	case DDSLA:
		return dds.Encode(w, img, dds.LA8)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// EncodeFile writes img to path, creating parent directories as needed.
func EncodeFile(path string, img image.Image, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return fmt.Errorf("create directory for %q: %w", path, err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("encode %s %q: %w", f, path, err)
	}
	return out.Close()
}
