// Package bitstream accumulates bytes arriving across successive Write calls
// until a fixed-size field is complete, and decodes the big-endian integers
// PNG uses for chunk lengths and CRCs.
package bitstream

import "encoding/binary"

// Accumulator collects exactly Want bytes, across any number of Feed calls,
// before it reports itself full. It mirrors fill_buffer from the streaming
// C decoder this package is modeled on: the source slice is consumed
// incrementally and the caller is told how much was used.
type Accumulator struct {
	buf  []byte
	want int
}

// Reset prepares the accumulator to collect want bytes from scratch.
func (a *Accumulator) Reset(want int) {
	if cap(a.buf) < want {
		a.buf = make([]byte, 0, want)
	} else {
		a.buf = a.buf[:0]
	}
	a.want = want
}

// Full reports whether the accumulator has collected all of its wanted bytes.
func (a *Accumulator) Full() bool {
	return len(a.buf) >= a.want
}

// Len reports how many bytes have been collected so far.
func (a *Accumulator) Len() int {
	return len(a.buf)
}

// Feed consumes bytes from the front of src into the accumulator, advancing
// src past whatever was consumed. It returns the number of bytes taken.
func (a *Accumulator) Feed(src []byte) (consumed int) {
	need := a.want - len(a.buf)
	if need <= 0 {
		return 0
	}
	if need > len(src) {
		need = len(src)
	}
	a.buf = append(a.buf, src[:need]...)
	return need
}

// Bytes returns the bytes collected so far.
func (a *Accumulator) Bytes() []byte {
	return a.buf
}

// ReadUint32 decodes a big-endian uint32, as used for chunk lengths and CRCs.
func ReadUint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// ReadUint16 decodes a big-endian uint16, as used for 16-bit sample and
// transparency key fields.
func ReadUint16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}
