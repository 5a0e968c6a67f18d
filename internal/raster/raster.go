// Package raster turns a reconstructed PNG scanline — still at its native
// bit depth and color type — into 8-bit-per-channel RGBA pixels.
package raster

import "streampng.dev/internal/chunk"

// Options bundles the per-image state a transform needs beyond the row
// bytes themselves: the header (for bit depth, color type, and width), the
// palette for indexed images, and any transparency key.
type Options struct {
	Header chunk.IHDR
	Palette chunk.Palette
	Trans   chunk.Transparency
}

// RowRGBA unpacks one reconstructed scanline into 8-bit RGBA quadruples,
// appending width*4 bytes to dst and returning the extended slice.
func RowRGBA(opts Options, row []byte, dst []byte) []byte {
	h := opts.Header
	width := int(h.Width)
	samples := unpackSamples(row, int(h.BitDepth), h.Channels, width)

	switch h.ColorType {
	case chunk.ColorGrayscale:
		for x := 0; x < width; x++ {
			v := samples[x]
			a := uint8(255)
			if opts.Trans.Kind == chunk.TransparencyGray && v == opts.Trans.GrayKey {
				a = 0
			}
			g := downscale(v, h.BitDepth)
			dst = append(dst, g, g, g, a)
		}
	case chunk.ColorGrayscaleAlpha:
		for x := 0; x < width; x++ {
			v := samples[x*2]
			av := samples[x*2+1]
			g := downscale(v, h.BitDepth)
			a := downscale(av, h.BitDepth)
			dst = append(dst, g, g, g, a)
		}
	case chunk.ColorTruecolor:
		for x := 0; x < width; x++ {
			r, g, b := samples[x*3], samples[x*3+1], samples[x*3+2]
			a := uint8(255)
			if opts.Trans.Kind == chunk.TransparencyTruecolor &&
				r == opts.Trans.TruecolorKey[0] &&
				g == opts.Trans.TruecolorKey[1] &&
				b == opts.Trans.TruecolorKey[2] {
				a = 0
			}
			dst = append(dst, downscale(r, h.BitDepth), downscale(g, h.BitDepth), downscale(b, h.BitDepth), a)
		}
	case chunk.ColorTruecolorAlpha:
		for x := 0; x < width; x++ {
			r, g, b, av := samples[x*4], samples[x*4+1], samples[x*4+2], samples[x*4+3]
			dst = append(dst, downscale(r, h.BitDepth), downscale(g, h.BitDepth), downscale(b, h.BitDepth), downscale(av, h.BitDepth))
		}
	case chunk.ColorIndexed:
		for x := 0; x < width; x++ {
			idx := int(samples[x])
			var entry chunk.PaletteEntry
			if idx < len(opts.Palette.Entries) {
				entry = opts.Palette.Entries[idx]
			}
			a := uint8(255)
			if opts.Trans.Kind == chunk.TransparencyPalette && idx < len(opts.Trans.PaletteAlpha) {
				a = opts.Trans.PaletteAlpha[idx]
			}
			dst = append(dst, entry.R, entry.G, entry.B, a)
		}
	}
	return dst
}

// downscale maps a sample at its native bit depth down to 8 bits. 16-bit
// samples drop their low byte; anything at or under 8 bits is scaled up so
// the full depth range maps onto 0-255 evenly, matching how the reference
// decoder treats sub-8-bit grayscale and indexed channel values.
func downscale(v uint16, bitDepth uint8) uint8 {
	if bitDepth == 16 {
		return uint8(v >> 8)
	}
	if bitDepth == 8 {
		return uint8(v)
	}
	max := (uint16(1) << bitDepth) - 1
	return uint8((uint32(v) * 255) / uint32(max))
}

// unpackSamples extracts width*channels raw per-channel sample values from
// one packed scanline. Samples narrower than a byte are packed MSB-first
// with no padding between samples, only at the end of the row.
func unpackSamples(row []byte, bitDepth, channels, width int) []uint16 {
	out := make([]uint16, width*channels)
	switch bitDepth {
	case 16:
		for i := range out {
			out[i] = uint16(row[i*2])<<8 | uint16(row[i*2+1])
		}
	case 8:
		for i := range out {
			out[i] = uint16(row[i])
		}
	default:
		bitPos := 0
		for i := range out {
			out[i] = uint16(readBits(row, bitPos, bitDepth))
			bitPos += bitDepth
		}
	}
	return out
}

func readBits(row []byte, bitPos, n int) byte {
	byteIdx := bitPos / 8
	bitOff := bitPos % 8
	shift := 8 - bitOff - n
	mask := byte(1<<uint(n)) - 1
	return (row[byteIdx] >> uint(shift)) & mask
}
