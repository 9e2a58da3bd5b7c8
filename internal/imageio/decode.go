// Package imageio decodes uploaded logo images and writes the processed
// textures, plus the manifest a renderer reads alongside them.
package imageio

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/dblezek/tga"
	"github.com/erinpentecost/liquidmetal/internal/dds"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// DecodeError reports that a source could not be turned into a raster.
// No partial image is ever returned alongside it.
type DecodeError struct {
	// Source names the input, usually a file path.
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// sniffLen leaves room for whitespace before an <svg> tag.
const sniffLen = 64

type decoder struct {
	name   string
	match  func(head []byte) bool
	decode func(io.Reader) (image.Image, error)
}

func prefix(ps ...string) func([]byte) bool {
	return func(head []byte) bool {
		for _, p := range ps {
			if bytes.HasPrefix(head, []byte(p)) {
				return true
			}
		}
		return false
	}
}

func isWebP(head []byte) bool {
	return len(head) >= 12 && string(head[:4]) == "RIFF" && string(head[8:12]) == "WEBP"
}

func decodeDDS(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := dds.Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// decoders is checked in order against the first sniffLen bytes. TGA has
// no magic number, so it is the fallback.
var decoders = []decoder{
	{name: "png", match: prefix("\x89PNG\r\n\x1a\n"), decode: png.Decode},
	{name: "jpeg", match: prefix("\xff\xd8"), decode: jpeg.Decode},
	{name: "gif", match: prefix("GIF87a", "GIF89a"), decode: gif.Decode},
	{name: "bmp", match: prefix("BM"), decode: bmp.Decode},
	{name: "tiff", match: prefix("II*\x00", "MM\x00*"), decode: tiff.Decode},
	{name: "webp", match: isWebP, decode: webp.Decode},
	{name: "dds", match: prefix("DDS "), decode: decodeDDS},
	{name: "svg", match: isSVG, decode: decodeSVG},
}

// Decode reads a whole image from r and reports the detected format name.
// Failures are returned as *DecodeError with the given source name.
func Decode(r io.Reader, source string) (image.Image, string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(sniffLen)
	if err != nil && len(head) == 0 {
		return nil, "", &DecodeError{Source: source, Err: fmt.Errorf("read header: %w", err)}
	}

	for _, d := range decoders {
		if !d.match(head) {
			continue
		}
		img, err := d.decode(br)
		if err != nil {
			return nil, d.name, &DecodeError{Source: source, Err: fmt.Errorf("%s: %w", d.name, err)}
		}
		return checked(img, d.name, source)
	}

	img, err := tga.Decode(br)
	if err != nil {
		return nil, "", &DecodeError{Source: source, Err: fmt.Errorf("unrecognized image format: %w", err)}
	}
	return checked(img, "tga", source)
}

func checked(img image.Image, format, source string) (image.Image, string, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, format, &DecodeError{Source: source, Err: fmt.Errorf("%s: empty image", format)}
	}
	return img, format, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &DecodeError{Source: path, Err: err}
	}
	defer f.Close()
	return Decode(f, path)
}
