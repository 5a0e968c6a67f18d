// Package filter reconstructs PNG scanlines that were filtered before
// compression (PNG 9.2): each byte of a filtered scanline is stored as the
// difference from a predictor based on already-reconstructed neighbors, and
// reconstruction reverses that in place.
package filter

import (
	"errors"
	"fmt"
)

// ErrUnknownFilterType is returned (wrapped) when a scanline declares a
// filter type byte outside the five PNG defines.
var ErrUnknownFilterType = errors.New("filter: unknown filter type")

// Type is one of the five filter types a scanline may declare in its
// leading byte.
type Type byte

const (
	None    Type = 0
	Sub     Type = 1
	Up      Type = 2
	Average Type = 3
	Paeth   Type = 4
)

// Reconstruct undoes scanline filtering in place. cur holds the filtered
// bytes of the current scanline on entry and the reconstructed pixel bytes
// on return. prev holds the already-reconstructed previous scanline, or a
// same-length all-zero slice for the first scanline of the image. bpp is
// the number of bytes spanned by one whole pixel (at least 1), used to
// find the "left" neighbor even when pixels are packed at sub-byte depths.
func Reconstruct(t Type, cur, prev []byte, bpp int) error {
	switch t {
	case None:
		return nil
	case Sub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
		return nil
	case Up:
		for i := range cur {
			cur[i] += prev[i]
		}
		return nil
	case Average:
		for i := range cur {
			var a int
			if i >= bpp {
				a = int(cur[i-bpp])
			}
			b := int(prev[i])
			cur[i] += byte((a + b) / 2)
		}
		return nil
	case Paeth:
		for i := range cur {
			var a, c byte
			if i >= bpp {
				a = cur[i-bpp]
				c = prev[i-bpp]
			}
			b := prev[i]
			cur[i] += paeth(a, b, c)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFilterType, t)
	}
}

// paeth implements the Paeth predictor (PNG 9.4): pick whichever of the
// left, above, and upper-left neighbors is closest to a+b-c.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
