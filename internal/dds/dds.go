// Package dds reads and writes DirectDraw Surface textures.
//
// Decoding covers DXT1/DXT3/DXT5 and mask-described uncompressed layouts
// (RGB, RGBA, luminance, luminance+alpha). Encoding writes uncompressed
// RGBA8 or L8A8; block compression smears the smooth gradients of a
// distance-field texture, so it is not offered.
package dds

import (
	"encoding/binary"
	"image"
	"io"
)

const (
	magic = "DDS "

	headerSize = 124
	pfSize     = 32
	// Offsets inside the 124-byte header that follows the magic.
	offFlags   = 4
	offHeight  = 8
	offWidth   = 12
	offPitch   = 16
	offPF      = 72
	offCaps    = 104
	fileHeader = len(magic) + headerSize

	flagCaps        = 0x1
	flagHeight      = 0x2
	flagWidth       = 0x4
	flagPitch       = 0x8
	flagPixelFormat = 0x1000

	pfAlphaPixels = 0x1
	pfAlpha       = 0x2
	pfFourCC      = 0x4
	pfRGB         = 0x40
	pfLuminance   = 0x20000

	capsTexture = 0x1000
)

func init() {
	image.RegisterFormat("dds", magic, decodeReader, DecodeConfig)
}

// pixelFormat mirrors DDS_PIXELFORMAT.
type pixelFormat struct {
	Flags    uint32
	FourCC   string
	BitCount uint32
	RMask    uint32
	GMask    uint32
	BMask    uint32
	AMask    uint32
}

type header struct {
	Width  uint32
	Height uint32
	Flags  uint32
	Pitch  uint32
	PF     pixelFormat
}

func parseHeader(data []byte) (header, error) {
	if len(data) < fileHeader {
		return header{}, errShort(len(data))
	}
	if string(data[:len(magic)]) != magic {
		return header{}, errMagic
	}
	h := data[len(magic):fileHeader]
	le := binary.LittleEndian
	pf := h[offPF : offPF+pfSize]
	return header{
		Flags:  le.Uint32(h[offFlags:]),
		Height: le.Uint32(h[offHeight:]),
		Width:  le.Uint32(h[offWidth:]),
		Pitch:  le.Uint32(h[offPitch:]),
		PF: pixelFormat{
			Flags:    le.Uint32(pf[4:]),
			FourCC:   string(pf[8:12]),
			BitCount: le.Uint32(pf[12:]),
			RMask:    le.Uint32(pf[16:]),
			GMask:    le.Uint32(pf[20:]),
			BMask:    le.Uint32(pf[24:]),
			AMask:    le.Uint32(pf[28:]),
		},
	}, nil
}

func writeHeader(w io.Writer, hd header) error {
	var buf [fileHeader]byte
	copy(buf[:], magic)
	h := buf[len(magic):]
	put := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(h[off:], v)
	}

	put(0, headerSize)
	put(offFlags, flagCaps|flagHeight|flagWidth|flagPixelFormat|flagPitch)
	put(offHeight, hd.Height)
	put(offWidth, hd.Width)
	put(offPitch, hd.Pitch)

	put(offPF, pfSize)
	put(offPF+4, hd.PF.Flags)
	copy(h[offPF+8:offPF+12], hd.PF.FourCC)
	put(offPF+12, hd.PF.BitCount)
	put(offPF+16, hd.PF.RMask)
	put(offPF+20, hd.PF.GMask)
	put(offPF+24, hd.PF.BMask)
	put(offPF+28, hd.PF.AMask)

	put(offCaps, capsTexture)

	_, err := w.Write(buf[:])
	return err
}
