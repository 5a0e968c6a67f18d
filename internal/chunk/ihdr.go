package chunk

import (
	"fmt"
	"log"

	"streampng.dev/internal/bitstream"
)

// Color type mask bits, as laid out in the PNG header: a color type is a
// combination of whether it uses a palette, carries color samples (as
// opposed to a single gray sample), and carries an alpha sample.
const (
	ColorMaskPalette = 1 << 0
	ColorMaskColor   = 1 << 1
	ColorMaskAlpha   = 1 << 2
)

const (
	ColorGrayscale      = 0
	ColorTruecolor      = ColorMaskColor
	ColorIndexed        = ColorMaskColor | ColorMaskPalette
	ColorGrayscaleAlpha = ColorMaskAlpha
	ColorTruecolorAlpha = ColorMaskColor | ColorMaskAlpha
)

// IHDR holds the decoded header chunk plus the values derived from it that
// every later stage needs: how many bytes make up one pixel once unpacked
// to byte granularity, and how many bytes make up one filtered scanline.
type IHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8

	Channels       int
	BitsPerPixel   int
	BytesPerPixel  int // rounded up; 1 for any sub-byte pixel
	Stride         int // bytes per filtered scanline, including sub-byte packing
}

// validDepths lists, for each color type, the bit depths the PNG format
// permits. Values not present here are a bad attribute.
var validDepths = map[uint8][]uint8{
	ColorGrayscale:      {1, 2, 4, 8, 16},
	ColorTruecolor:      {8, 16},
	ColorIndexed:        {1, 2, 4, 8},
	ColorGrayscaleAlpha: {8, 16},
	ColorTruecolorAlpha: {8, 16},
}

var channelsByColorType = map[uint8]int{
	ColorGrayscale:      1,
	ColorTruecolor:      3,
	ColorIndexed:        1,
	ColorGrayscaleAlpha: 2,
	ColorTruecolorAlpha: 4,
}

// ErrInterlaceNotImplemented signals an IHDR asking for Adam7 interlacing,
// a transform this decoder's linear scanline pipeline does not perform.
var ErrInterlaceNotImplemented = fmt.Errorf("chunk: interlaced images are not implemented")

// maxDimension is the largest width or height IHDR may declare: the format
// encodes both as unsigned 4-byte integers with the top bit reserved.
const maxDimension = 1<<31 - 1

// ParseIHDR decodes and validates the 13-byte header chunk payload.
func ParseIHDR(data []byte) (IHDR, error) {
	if len(data) != 13 {
		return IHDR{}, fmt.Errorf("chunk: IHDR must be 13 bytes, got %d", len(data))
	}

	h := IHDR{
		Width:             bitstream.ReadUint32(data[0:4]),
		Height:            bitstream.ReadUint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         data[9],
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		InterlaceMethod:   data[12],
	}

	if h.Width == 0 || h.Height == 0 {
		return IHDR{}, fmt.Errorf("chunk: zero width or height")
	}
	// The format reserves the top bit of both dimensions (they are encoded
	// as PNG's "4-byte unsigned integer" but constrained to 0..2^31-1), so
	// an IHDR claiming more than that is rejected before it can be used to
	// size any scanline buffer.
	if h.Width > maxDimension || h.Height > maxDimension {
		return IHDR{}, fmt.Errorf("chunk: width/height %dx%d exceeds %d", h.Width, h.Height, maxDimension)
	}

	channels, ok := channelsByColorType[h.ColorType]
	if !ok {
		return IHDR{}, fmt.Errorf("chunk: bad color type %d", h.ColorType)
	}
	depths := validDepths[h.ColorType]
	depthOK := false
	for _, d := range depths {
		if d == h.BitDepth {
			depthOK = true
			break
		}
	}
	if !depthOK {
		return IHDR{}, fmt.Errorf("chunk: bit depth %d invalid for color type %d", h.BitDepth, h.ColorType)
	}

	if h.CompressionMethod != 0 {
		return IHDR{}, fmt.Errorf("chunk: unknown compression method %d", h.CompressionMethod)
	}
	if h.FilterMethod != 0 {
		return IHDR{}, fmt.Errorf("chunk: unknown filter method %d", h.FilterMethod)
	}
	switch h.InterlaceMethod {
	case 0:
	case 1:
		return IHDR{}, ErrInterlaceNotImplemented
	default:
		return IHDR{}, fmt.Errorf("chunk: unknown interlace method %d", h.InterlaceMethod)
	}

	h.Channels = channels
	h.BitsPerPixel = channels * int(h.BitDepth)
	h.BytesPerPixel = (h.BitsPerPixel + 7) / 8
	h.Stride = (h.BitsPerPixel*int(h.Width) + 7) / 8

	log.Printf("chunk: IHDR %dx%d depth=%d colorType=%d stride=%d", h.Width, h.Height, h.BitDepth, h.ColorType, h.Stride)
	return h, nil
}
