package png

import (
	"streampng.dev/internal/chunk"
	"streampng.dev/internal/raster"
)

// Descriptor is the subset of decoded state the pixel transform needs:
// the header, the palette (if any), and any transparency key. Capturing
// it lets Transform run independently of a live Decoder, e.g. against a
// row captured earlier and transformed later.
type Descriptor struct {
	Header  chunk.IHDR
	Palette chunk.Palette
	Trans   chunk.Transparency
}

// Descriptor captures the decoder's current header/palette/transparency
// state. Only meaningful after InfoFunc has fired.
func (d *Decoder) Descriptor() Descriptor {
	return Descriptor{Header: d.ihdr, Palette: d.palette, Trans: d.trans}
}

// Transform unpacks one reconstructed scanline, at the native bit depth
// and color type described by desc, into 8-bit-per-channel RGBA pixels.
// out is reused as the destination buffer when it has enough capacity,
// following append's growth rule; pass nil to always allocate fresh.
func Transform(desc Descriptor, row []byte, out []byte) []byte {
	opts := raster.Options{Header: desc.Header, Palette: desc.Palette, Trans: desc.Trans}
	return raster.RowRGBA(opts, row, out[:0])
}
