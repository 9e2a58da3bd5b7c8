package imageio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Browsers size an <img> with no width, height or viewBox at 300x150.
const (
	svgDefaultWidth  = 300
	svgDefaultHeight = 150
	// svgMaxSide caps either declared side.
	svgMaxSide = 8192
)

func isSVG(head []byte) bool {
	head = bytes.TrimLeft(head, " \t\r\n\ufeff")
	return bytes.HasPrefix(head, []byte("<svg")) || bytes.HasPrefix(head, []byte("<?xml"))
}

// svgSize reads the declared width and height of the root <svg> element,
// falling back to the viewBox and then to the browser default.
func svgSize(data []byte) (int, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return 0, 0, fmt.Errorf("no <svg> element")
		}
		if err != nil {
			return 0, 0, fmt.Errorf("parse svg: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return 0, 0, fmt.Errorf("root element is <%s>, not <svg>", start.Name.Local)
		}

		var w, h, vbW, vbH float64
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				w = svgLength(attr.Value)
			case "height":
				h = svgLength(attr.Value)
			case "viewBox":
				f := strings.FieldsFunc(attr.Value, func(r rune) bool { return r == ',' || r == ' ' })
				if len(f) == 4 {
					vbW, _ = strconv.ParseFloat(f[2], 64)
					vbH, _ = strconv.ParseFloat(f[3], 64)
				}
			}
		}
		switch {
		case w > 0 && h > 0:
		case w > 0 && vbW > 0 && vbH > 0:
			h = w * vbH / vbW
		case h > 0 && vbW > 0 && vbH > 0:
			w = h * vbW / vbH
		case vbW > 0 && vbH > 0:
			w, h = vbW, vbH
		default:
			w, h = svgDefaultWidth, svgDefaultHeight
		}
		iw, ih := int(math.Round(w)), int(math.Round(h))
		if iw < 1 || ih < 1 || iw > svgMaxSide || ih > svgMaxSide {
			return 0, 0, fmt.Errorf("unusable svg size %vx%v", w, h)
		}
		return iw, ih, nil
	}
}

// svgLength parses a length in user units. Percentages and unknown units
// yield 0 so the caller falls back to the viewBox.
func svgLength(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

// DecodeSVG rasterizes an SVG document at its declared size onto a
// transparent canvas.
func DecodeSVG(r io.Reader) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	w, h, err := svgSize(data)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	out := image.NewNRGBA(canvas.Bounds())
	draw.Draw(out, out.Bounds(), canvas, image.Point{}, draw.Src)
	return out, nil
}

func decodeSVG(r io.Reader) (image.Image, error) {
	img, err := DecodeSVG(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}
