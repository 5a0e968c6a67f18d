package chunk

import (
	"fmt"
	"log"
)

// Stage tracks how far a datastream has progressed through the chunk
// sequence the PNG format requires: a fixed header, an optional palette,
// one or more image-data chunks, and a terminator. The sequence only ever
// moves forward; seeing an earlier stage's chunk again, or an out-of-order
// one, is a structural error the caller should surface as a bad attribute.
type Stage int

const (
	StageNone Stage = iota
	StageIHDR
	StagePLTE
	StageIDAT
	StageIEND
)

// Advance validates that chunk type t is allowed to appear while the
// datastream is at stage cur, and returns the stage it moves to. PLTE is
// only mentioned for color types that use a palette; this function does
// not know color type, so that check is left to the IHDR/PLTE handlers.
func Advance(cur Stage, t Type) (Stage, error) {
	switch t {
	case IHDR:
		if cur != StageNone {
			return cur, fmt.Errorf("chunk: IHDR must be the first chunk")
		}
		return StageIHDR, nil
	case PLTE:
		if cur != StageIHDR {
			return cur, fmt.Errorf("chunk: PLTE may only follow IHDR")
		}
		return StagePLTE, nil
	case IDAT:
		switch cur {
		case StageIHDR, StagePLTE, StageIDAT:
			return StageIDAT, nil
		default:
			return cur, fmt.Errorf("chunk: IDAT out of order")
		}
	case IEND:
		if cur != StageIDAT {
			return cur, fmt.Errorf("chunk: IEND must follow at least one IDAT")
		}
		return StageIEND, nil
	default:
		// Ancillary chunks are not sequence-critical here; the PNG spec
		// constrains some of them relative to PLTE/IDAT (e.g. tRNS before
		// IDAT). Of those rules only one is checked, by the decoder's tRNS
		// handler: an indexed image's tRNS must follow its PLTE. The rest,
		// including tRNS before IDAT, are not enforced.
		if cur == StageNone {
			return cur, fmt.Errorf("chunk: %s before IHDR", t)
		}
		if cur == StageIEND {
			return cur, fmt.Errorf("chunk: %s after IEND", t)
		}
		log.Printf("chunk: %s accepted at stage %d", t, cur)
		return cur, nil
	}
}
