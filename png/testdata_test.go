package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
)

// writeChunk appends one well-formed chunk (length, type, data, crc) to buf.
// PNG's CRC-32 is the same polynomial/init/xor as the IEEE 802.3 CRC-32 the
// standard library already implements, so tests build fixtures with
// hash/crc32 directly rather than depending on the decoder's own CRC
// engine to validate itself.
func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf.Write(lenBuf[:])

	body := append([]byte(typ), data...)
	buf.Write(body)

	crc := crc32.ChecksumIEEE(body)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	buf.Write(crcBuf[:])
}

// buildGrayscalePNG constructs a minimal valid grayscale PNG of the given
// size, where pixel (x, y) has gray value (x+y*width)%256.
func buildGrayscalePNG(width, height int) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale
	writeChunk(&buf, "IHDR", ihdr)

	var raw bytes.Buffer
	for y := 0; y < height; y++ {
		raw.WriteByte(0) // filter type None
		for x := 0; x < width; x++ {
			raw.WriteByte(byte((x + y*width) % 256))
		}
	}
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write(raw.Bytes())
	zw.Close()
	writeChunk(&buf, "IDAT", compressed.Bytes())

	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

// buildIndexedPNGWithTRNS constructs a 2x1 indexed-color PNG with a
// two-entry palette and a tRNS chunk giving index 0 full alpha and index 1
// zero alpha.
func buildIndexedPNGWithTRNS() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 2)
	binary.BigEndian.PutUint32(ihdr[4:8], 1)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 3 // indexed
	writeChunk(&buf, "IHDR", ihdr)

	plte := []byte{10, 20, 30, 40, 50, 60}
	writeChunk(&buf, "PLTE", plte)
	writeChunk(&buf, "tRNS", []byte{255, 0})

	var raw bytes.Buffer
	raw.WriteByte(0) // filter type None
	raw.WriteByte(0) // index 0
	raw.WriteByte(1) // index 1
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write(raw.Bytes())
	zw.Close()
	writeChunk(&buf, "IDAT", compressed.Bytes())

	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}
