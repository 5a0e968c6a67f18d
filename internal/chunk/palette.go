package chunk

import "fmt"

// PaletteEntry is one RGB triple in a PLTE chunk.
type PaletteEntry struct {
	R, G, B uint8
}

// Palette holds the decoded PLTE chunk.
type Palette struct {
	Entries []PaletteEntry
}

// ParsePLTE decodes a PLTE chunk payload, which must be a whole number of
// RGB triples and no more than 256 of them.
func ParsePLTE(data []byte) (Palette, error) {
	if len(data)%3 != 0 {
		return Palette{}, fmt.Errorf("chunk: PLTE length %d is not a multiple of 3", len(data))
	}
	n := len(data) / 3
	if n == 0 || n > 256 {
		return Palette{}, fmt.Errorf("chunk: PLTE has %d entries", n)
	}
	entries := make([]PaletteEntry, n)
	for i := range entries {
		entries[i] = PaletteEntry{R: data[i*3], G: data[i*3+1], B: data[i*3+2]}
	}
	return Palette{Entries: entries}, nil
}
