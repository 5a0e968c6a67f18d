package chunk

import (
	"fmt"

	"streampng.dev/internal/bitstream"
)

// Gamma holds a decoded gAMA chunk: the encoder's gamma value, stored as an
// integer scaled by 100000.
type Gamma struct {
	value uint32
}

// ParseGAMA decodes a gAMA chunk payload.
func ParseGAMA(data []byte) (Gamma, error) {
	if len(data) != 4 {
		return Gamma{}, fmt.Errorf("chunk: gAMA must be 4 bytes, got %d", len(data))
	}
	return Gamma{value: bitstream.ReadUint32(data)}, nil
}

// Present reports whether this chunk should be treated as present at all.
// A gAMA chunk whose value decodes to zero is nonsensical (gamma can't be
// zero) and is defined to mean "no gamma information", matching both this
// decoder and the reference implementation it follows.
func (g Gamma) Present() bool {
	return g.value != 0
}

// Value returns the decoded gamma as a float, the value divided by 100000.
func (g Gamma) Value() float64 {
	return float64(g.value) / 100000.0
}
