// Package frame defines the pieces of the PNG chunk-framing state machine:
// its states, the signature every datastream starts with, and the CRC over
// a chunk's type and data. The machine itself, the signature check and the
// length/type/data/crc cycle every chunk goes through, runs in the png
// package's Decoder.Write.
package frame

import "github.com/snksoft/crc"

// State is a position in the chunk-framing state machine. The decoder
// falls through SIGNATURE, then cycles CHUNK_HEADER -> CHUNK_DATA ->
// CHUNK_CRC once per chunk until the stream ends.
type State int

const (
	StateSignature State = iota
	StateChunkHeader
	StateChunkData
	StateChunkCRC
)

// Signature is the fixed 8-byte sequence every PNG datastream must begin
// with.
var Signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// ComputeCRC runs the external CRC-32 engine over a chunk's type and data,
// the same two fields the CRC stored in the datastream was computed over.
func ComputeCRC(typ [4]byte, data []byte) uint32 {
	buf := make([]byte, 0, 4+len(data))
	buf = append(buf, typ[:]...)
	buf = append(buf, data...)
	return uint32(crc.CalculateCRC(crc.CRC32, buf))
}
