package chunk

import (
	"fmt"

	"streampng.dev/internal/bitstream"
)

// TransparencyKind says which of Transparency's variants is populated. A
// single bundled struct that always carries a palette slice, an RGB
// triple, and a gray value regardless of color type invites a caller to
// read the wrong field; tagging the variant makes the color-type
// dependence explicit instead.
type TransparencyKind int

const (
	TransparencyNone TransparencyKind = iota
	TransparencyPalette
	TransparencyGray
	TransparencyTruecolor
)

// Transparency holds a decoded tRNS chunk. Exactly one of PaletteAlpha,
// GrayKey, or TruecolorKey is meaningful, selected by Kind.
type Transparency struct {
	Kind TransparencyKind

	// PaletteAlpha holds one alpha value per palette entry, indexed the
	// same way the IDAT pixel samples index the palette: PaletteAlpha[i]
	// is the alpha to use for palette index i, and indices beyond the end
	// of the slice default to fully opaque (255). The indexed tRNS form
	// can also be read as a sentinel value to key transparent rather than
	// a per-index alpha table; this decoder uses the per-index reading,
	// recorded in the design notes.
	PaletteAlpha []byte

	// GrayKey is the sample value, at the image's bit depth, that should
	// be rendered fully transparent in a grayscale image.
	GrayKey uint16

	// TruecolorKey is the RGB triple, each channel at the image's bit
	// depth, that should be rendered fully transparent in a truecolor
	// image.
	TruecolorKey [3]uint16
}

// ParseTRNS decodes a tRNS chunk according to the color type of the image
// it belongs to; tRNS is not valid for the two color types that already
// carry their own alpha channel.
func ParseTRNS(data []byte, h IHDR) (Transparency, error) {
	switch h.ColorType {
	case ColorIndexed:
		if len(data) > 256 {
			return Transparency{}, fmt.Errorf("chunk: tRNS has more entries than a palette can")
		}
		alpha := make([]byte, len(data))
		copy(alpha, data)
		return Transparency{Kind: TransparencyPalette, PaletteAlpha: alpha}, nil
	case ColorGrayscale:
		if len(data) != 2 {
			return Transparency{}, fmt.Errorf("chunk: tRNS for grayscale must be 2 bytes, got %d", len(data))
		}
		return Transparency{Kind: TransparencyGray, GrayKey: bitstream.ReadUint16(data)}, nil
	case ColorTruecolor:
		if len(data) != 6 {
			return Transparency{}, fmt.Errorf("chunk: tRNS for truecolor must be 6 bytes, got %d", len(data))
		}
		return Transparency{
			Kind: TransparencyTruecolor,
			TruecolorKey: [3]uint16{
				bitstream.ReadUint16(data[0:2]),
				bitstream.ReadUint16(data[2:4]),
				bitstream.ReadUint16(data[4:6]),
			},
		}, nil
	default:
		return Transparency{}, fmt.Errorf("chunk: tRNS not allowed for color type %d", h.ColorType)
	}
}
