package dds

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math/bits"

	"github.com/mauserzjeh/dxt"
)

var errMagic = errors.New("dds: missing magic 'DDS '")

func errShort(n int) error {
	return fmt.Errorf("dds: data too short for header: %d < %d", n, fileHeader)
}

// DecodeConfig reads only the header.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var buf [fileHeader]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, fmt.Errorf("dds: read header: %w", err)
	}
	hd, err := parseHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(hd.Width),
		Height:     int(hd.Height),
	}, nil
}

func decodeReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dds: read: %w", err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Decode parses a DDS file. Only the top mip level is returned.
func Decode(data []byte) (*image.NRGBA, error) {
	hd, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if hd.Width == 0 || hd.Height == 0 {
		return nil, fmt.Errorf("dds: empty image %dx%d", hd.Width, hd.Height)
	}
	body := data[fileHeader:]
	if len(body) == 0 {
		return nil, fmt.Errorf("dds: no image data")
	}

	width, height := uint(hd.Width), uint(hd.Height)
	var pix []byte
	if hd.PF.Flags&pfFourCC != 0 {
		switch hd.PF.FourCC {
		case "DXT1":
			pix, err = dxt.DecodeDXT1(body, width, height)
		case "DXT3":
			pix, err = dxt.DecodeDXT3(body, width, height)
		case "DXT5":
			pix, err = dxt.DecodeDXT5(body, width, height)
		default:
			return nil, fmt.Errorf("dds: unsupported FourCC %q", hd.PF.FourCC)
		}
		if err != nil {
			return nil, fmt.Errorf("dds: decode %s: %w", hd.PF.FourCC, err)
		}
	} else {
		pix, err = decodeMasked(body, hd)
		if err != nil {
			return nil, err
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	if len(pix) < len(img.Pix) {
		return nil, fmt.Errorf("dds: decoded %d bytes, want %d", len(pix), len(img.Pix))
	}
	copy(img.Pix, pix)
	return img, nil
}

// decodeMasked expands an uncompressed surface described by channel bit masks.
func decodeMasked(body []byte, hd header) ([]byte, error) {
	pf := hd.PF
	if pf.BitCount == 0 || pf.BitCount%8 != 0 || pf.BitCount > 32 {
		return nil, fmt.Errorf("dds: unsupported bit count %d", pf.BitCount)
	}
	bpp := int(pf.BitCount / 8)
	w, h := int(hd.Width), int(hd.Height)
	pitch := w * bpp
	if hd.Flags&flagPitch != 0 && int(hd.Pitch) > pitch {
		pitch = int(hd.Pitch)
	}
	if len(body) < pitch*(h-1)+w*bpp {
		return nil, fmt.Errorf("dds: data too small (%d < %d)", len(body), pitch*h)
	}

	luminance := pf.Flags&pfLuminance != 0
	alphaOnly := pf.Flags&(pfAlpha|pfRGB|pfLuminance) == pfAlpha
	hasAlpha := pf.Flags&(pfAlphaPixels|pfAlpha) != 0 && pf.AMask != 0

	out := make([]byte, w*h*4)
	var word [4]byte
	for y := 0; y < h; y++ {
		row := body[y*pitch:]
		for x := 0; x < w; x++ {
			copy(word[:], row[x*bpp:x*bpp+bpp])
			v := binary.LittleEndian.Uint32(word[:])
			clear(word[:])

			o := out[(y*w+x)*4 : (y*w+x)*4+4 : (y*w+x)*4+4]
			switch {
			case alphaOnly:
				o[0], o[1], o[2] = 255, 255, 255
			case luminance:
				l := channel(v, pf.RMask)
				o[0], o[1], o[2] = l, l, l
			default:
				o[0] = channel(v, pf.RMask)
				o[1] = channel(v, pf.GMask)
				o[2] = channel(v, pf.BMask)
			}
			o[3] = 255
			if hasAlpha {
				o[3] = channel(v, pf.AMask)
			}
		}
	}
	return out, nil
}

// channel extracts the bits under mask from v and rescales them to 8 bits.
func channel(v, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask)
	raw := (v & mask) >> shift
	if width >= 8 {
		return uint8(raw >> (width - 8))
	}
	top := uint32(1)<<width - 1
	return uint8((raw*255 + top/2) / top)
}
