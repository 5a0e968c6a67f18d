// Package png implements a push-driven, streaming PNG decoder: bytes are
// fed to it as they arrive over Write, and it calls back into the caller
// with header info, each reconstructed scanline, text chunks, and unknown
// chunks as soon as enough of the datastream has arrived to produce them.
//
// A Decoder never blocks waiting for more input. If Write is called with
// fewer bytes than are needed to finish whatever it is in the middle of,
// it buffers what it has and returns; the next Write call picks up where
// the last one left off.
package png

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"streampng.dev/internal/bitstream"
	"streampng.dev/internal/chunk"
	"streampng.dev/internal/filter"
	"streampng.dev/internal/frame"
	"streampng.dev/internal/idat"
)

// InfoFunc is called once, as soon as the header chunk has been parsed and
// validated, before any scanline is delivered.
type InfoFunc func(d *Decoder)

// RowFunc is called once per scanline, in order, with that row's
// reconstructed bytes at the image's native bit depth and color type. The
// slice is only valid for the duration of the call.
type RowFunc func(d *Decoder, row uint32, data []byte)

// TextFunc is called once per tEXt/zTXt chunk, after any compression has
// been undone. iTXt is not one of the chunk types this decoder interprets;
// it is forwarded to UnknownChunkFunc like any other unrecognized chunk.
type TextFunc func(d *Decoder, keyword, text string)

// UnknownChunkFunc is called for every chunk this decoder does not assign
// specific meaning to (including recognized-but-not-core ancillary
// chunks), regardless of the chunk's critical/ancillary or
// public/private/safe-to-copy bits: this decoder makes no chunk-forwarding
// decisions of its own and leaves that entirely to the caller.
type UnknownChunkFunc func(d *Decoder, chunkType [4]byte, data []byte)

// maxChunkLength is the largest chunk length the PNG format permits: the
// length field's top bit must be zero, so any value at or above 2^31 is a
// malformed header, rejected before it is ever used to size a buffer.
const maxChunkLength = 1<<31 - 1

// Decoder is a single PNG datastream decode in progress. The zero value is
// not usable; construct one with NewDecoder.
type Decoder struct {
	context any

	infoFunc         InfoFunc
	rowFunc          RowFunc
	textFunc         TextFunc
	unknownChunkFunc UnknownChunkFunc
	maxTextChunkSize int

	dead     bool
	lastErr  error
	finished bool

	state     frame.State
	sigAcc    bitstream.Accumulator
	headerAcc bitstream.Accumulator
	dataAcc   bitstream.Accumulator
	crcAcc    bitstream.Accumulator
	chunkLen  uint32
	chunkType [4]byte

	stage chunk.Stage

	haveIHDR    bool
	ihdr        chunk.IHDR
	havePalette bool
	palette     chunk.Palette
	haveTrans   bool
	trans       chunk.Transparency
	haveGamma   bool
	gamma       chunk.Gamma

	idatPipeline *idat.Pipeline
}

// NewDecoder constructs a Decoder ready to receive bytes via Write.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{maxTextChunkSize: defaultMaxTextChunkSize}
	d.sigAcc.Reset(len(frame.Signature))
	d.headerAcc.Reset(8)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetContext attaches an arbitrary value to the decoder, retrievable from
// any callback via d.Context(). The decoder never interprets it.
func (d *Decoder) SetContext(v any) { d.context = v }

// Context returns the value last passed to SetContext or WithContext.
func (d *Decoder) Context() any { return d.context }

func (d *Decoder) SetInfoFunc(f InfoFunc)                 { d.infoFunc = f }
func (d *Decoder) SetRowFunc(f RowFunc)                   { d.rowFunc = f }
func (d *Decoder) SetTextFunc(f TextFunc)                 { d.textFunc = f }
func (d *Decoder) SetUnknownChunkFunc(f UnknownChunkFunc) { d.unknownChunkFunc = f }

// Width returns the image width. Valid only after InfoFunc has fired.
func (d *Decoder) Width() uint32 { return d.ihdr.Width }

// Height returns the image height. Valid only after InfoFunc has fired.
func (d *Decoder) Height() uint32 { return d.ihdr.Height }

// BitDepth returns the per-channel bit depth. Valid only after InfoFunc.
func (d *Decoder) BitDepth() uint8 { return d.ihdr.BitDepth }

// Color type mask bits, for testing the value returned by ColorType.
const (
	ColorMaskPalette = chunk.ColorMaskPalette
	ColorMaskColor   = chunk.ColorMaskColor
	ColorMaskAlpha   = chunk.ColorMaskAlpha
)

// ColorType returns the raw PNG color type byte. Valid only after InfoFunc.
func (d *Decoder) ColorType() uint8 { return d.ihdr.ColorType }

// Interlaced reports whether the header asked for interlacing. Since this
// decoder rejects interlace=1 at header time, this is always false for any
// decoder that has successfully passed the header.
func (d *Decoder) Interlaced() bool { return d.ihdr.InterlaceMethod != 0 }

// Palette returns the decoded PLTE entries, or nil if the image has none.
func (d *Decoder) Palette() []chunk.PaletteEntry {
	if !d.havePalette {
		return nil
	}
	return d.palette.Entries
}

// PaletteEntries returns the number of PLTE entries.
func (d *Decoder) PaletteEntries() int {
	return len(d.palette.Entries)
}

// HasGamma reports whether a meaningful gAMA chunk was seen.
func (d *Decoder) HasGamma() bool {
	return d.haveGamma && d.gamma.Present()
}

// Gamma returns the decoded gamma value. Meaningless unless HasGamma.
func (d *Decoder) Gamma() float64 {
	return d.gamma.Value()
}

// Transform unpacks one reconstructed scanline, as delivered to RowFunc,
// into 8-bit-per-channel RGBA pixels (width*4 bytes). It is a pure
// function of the row and the header/palette/transparency state already
// parsed; it does not consume input or change decoder state.
func (d *Decoder) Transform(row []byte) []byte {
	return Transform(d.Descriptor(), row, nil)
}

// Close marks the decoder finished. It is safe to call more than once and
// safe to call after a failed Write. It does not itself validate that the
// stream reached IEND; a Write sequence that never reaches IEND simply
// never calls InfoFunc/RowFunc again, and the caller can tell from its own
// EOF that the image was truncated.
func (d *Decoder) Close() error {
	d.dead = true
	return nil
}

// Write feeds the next slice of raw PNG bytes to the decoder. Callbacks
// set via SetInfoFunc/SetRowFunc/SetTextFunc/SetUnknownChunkFunc may fire
// synchronously, any number of times, before Write returns.
//
// Once Write has returned a non-nil error, the decoder is poisoned: every
// subsequent call to Write returns that same error immediately without
// consuming input or firing callbacks.
func (d *Decoder) Write(p []byte) (int, error) {
	if d.dead {
		if d.lastErr != nil {
			return 0, d.lastErr
		}
		return 0, &DecodeError{Status: StatusEOF, Err: errors.New("write after close")}
	}
	if len(p) == 0 {
		// An empty Write is the caller's explicit end-of-stream signal. It
		// is only a success if the datastream had already reached IEND;
		// otherwise it reports the stream as truncated.
		if d.finished {
			return 0, nil
		}
		return d.fail(StatusEOF, errors.New("end of stream reached before IEND"))
	}
	if d.finished {
		return d.fail(StatusEOF, errors.New("data written after IEND"))
	}

	total := len(p)
	for len(p) > 0 {
		switch d.state {
		case frame.StateSignature:
			n := d.sigAcc.Feed(p)
			p = p[n:]
			if d.sigAcc.Full() {
				if !bytes.Equal(d.sigAcc.Bytes(), frame.Signature[:]) {
					return d.fail(StatusBadSignature, errors.New("bad png signature"))
				}
				d.state = frame.StateChunkHeader
			}

		case frame.StateChunkHeader:
			n := d.headerAcc.Feed(p)
			p = p[n:]
			if d.headerAcc.Full() {
				hb := d.headerAcc.Bytes()
				d.chunkLen = bitstream.ReadUint32(hb[0:4])
				if d.chunkLen > maxChunkLength {
					return d.fail(StatusBadAttribute, errors.WithStack(fmt.Errorf("chunk length %d has high bit set", d.chunkLen)))
				}
				copy(d.chunkType[:], hb[4:8])
				d.dataAcc.Reset(int(d.chunkLen))
				d.crcAcc.Reset(4)
				d.state = frame.StateChunkData
			}

		case frame.StateChunkData:
			n := d.dataAcc.Feed(p)
			p = p[n:]
			if d.dataAcc.Full() {
				d.state = frame.StateChunkCRC
			}

		case frame.StateChunkCRC:
			n := d.crcAcc.Feed(p)
			p = p[n:]
			if d.crcAcc.Full() {
				if derr := d.finishChunk(); derr != nil {
					de := derr.(*DecodeError)
					return d.fail(de.Status, de.Err)
				}
				d.headerAcc.Reset(8)
				d.state = frame.StateChunkHeader
			}
		}
	}
	return total, nil
}

func (d *Decoder) fail(status Status, err error) (int, error) {
	de := &DecodeError{Status: status, Err: err}
	d.dead = true
	d.lastErr = de
	return 0, de
}

// finishChunk is called once a chunk's length/type/data/crc have all been
// collected. It validates the CRC and the chunk ordering, then dispatches
// to whichever per-type handling applies.
func (d *Decoder) finishChunk() error {
	data := d.dataAcc.Bytes()
	computed := frame.ComputeCRC(d.chunkType, data)
	stored := bitstream.ReadUint32(d.crcAcc.Bytes())
	if computed != stored {
		return &DecodeError{Status: StatusBadCRC, Err: errors.WithStack(fmt.Errorf("chunk %s: crc mismatch", string(d.chunkType[:])))}
	}

	t := chunk.FromBytes(d.chunkType)
	newStage, err := chunk.Advance(d.stage, t)
	if err != nil {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(err)}
	}
	d.stage = newStage

	switch t {
	case chunk.IHDR:
		return d.handleIHDR(data)
	case chunk.PLTE:
		return d.handlePLTE(data)
	case chunk.TRNS:
		return d.handleTRNS(data)
	case chunk.GAMA:
		return d.handleGAMA(data)
	case chunk.IDAT:
		return d.handleIDAT(data)
	case chunk.IEND:
		return d.handleIEND()
	case chunk.TEXT:
		txt, perr := chunk.ParseTEXt(data)
		if perr != nil {
			return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(perr)}
		}
		if d.textFunc != nil {
			d.textFunc(d, txt.Keyword, txt.Text)
		}
		return nil
	case chunk.ZTXT:
		txt, perr := chunk.ParseZTXt(data, d.maxTextChunkSize)
		if perr != nil {
			if errors.Is(perr, chunk.ErrTextTooLarge) {
				return &DecodeError{Status: StatusNotImplemented, Err: errors.WithStack(perr)}
			}
			return &DecodeError{Status: StatusZlibError, Err: errors.WithStack(perr)}
		}
		if d.textFunc != nil {
			d.textFunc(d, txt.Keyword, txt.Text)
		}
		return nil
	case chunk.CHRM, chunk.SBIT, chunk.BKGD, chunk.HIST, chunk.TIME:
		if perr := chunk.ValidateAncillaryLength(t, data, d.ihdr); perr != nil {
			return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(perr)}
		}
		if d.unknownChunkFunc != nil {
			d.unknownChunkFunc(d, d.chunkType, data)
		}
		return nil
	case chunk.PHYS:
		if _, perr := chunk.ParsePHYs(data); perr != nil {
			return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(perr)}
		}
		if d.unknownChunkFunc != nil {
			d.unknownChunkFunc(d, d.chunkType, data)
		}
		return nil
	default:
		if d.unknownChunkFunc != nil {
			d.unknownChunkFunc(d, d.chunkType, data)
		}
		return nil
	}
}

func (d *Decoder) handleIHDR(data []byte) error {
	h, err := chunk.ParseIHDR(data)
	if err != nil {
		if errors.Is(err, chunk.ErrInterlaceNotImplemented) {
			return &DecodeError{Status: StatusNotImplemented, Err: errors.WithStack(err)}
		}
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(err)}
	}
	d.ihdr = h
	d.haveIHDR = true
	d.idatPipeline = idat.New(h.Stride, h.BytesPerPixel, h.Height, d.emitRow)
	if d.infoFunc != nil {
		d.infoFunc(d)
	}
	return nil
}

func (d *Decoder) handlePLTE(data []byte) error {
	if d.ihdr.ColorType != chunk.ColorIndexed && d.ihdr.ColorType != chunk.ColorTruecolor && d.ihdr.ColorType != chunk.ColorTruecolorAlpha {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(fmt.Errorf("PLTE not allowed for color type %d", d.ihdr.ColorType))}
	}
	pal, err := chunk.ParsePLTE(data)
	if err != nil {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(err)}
	}
	d.palette = pal
	d.havePalette = true
	return nil
}

func (d *Decoder) handleTRNS(data []byte) error {
	if !d.haveIHDR {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(fmt.Errorf("tRNS before IHDR"))}
	}
	// tRNS must follow PLTE for paletted images: the palette is what gives
	// each tRNS byte its meaning.
	if d.ihdr.ColorType == chunk.ColorIndexed && !d.havePalette {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(fmt.Errorf("tRNS before PLTE for indexed color image"))}
	}
	tr, err := chunk.ParseTRNS(data, d.ihdr)
	if err != nil {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(err)}
	}
	d.trans = tr
	d.haveTrans = true
	return nil
}

func (d *Decoder) handleGAMA(data []byte) error {
	g, err := chunk.ParseGAMA(data)
	if err != nil {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(err)}
	}
	d.gamma = g
	d.haveGamma = true
	return nil
}

func (d *Decoder) handleIDAT(data []byte) error {
	if d.idatPipeline == nil {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(fmt.Errorf("IDAT before IHDR"))}
	}
	if d.ihdr.ColorType == chunk.ColorIndexed && !d.havePalette {
		return &DecodeError{Status: StatusBadAttribute, Err: errors.WithStack(fmt.Errorf("indexed color image has no PLTE chunk"))}
	}
	if err := d.idatPipeline.Feed(data); err != nil {
		return &DecodeError{Status: classifyIdatErr(err), Err: errors.WithStack(err)}
	}
	return nil
}

func (d *Decoder) handleIEND() error {
	if d.idatPipeline != nil {
		if err := d.idatPipeline.Close(); err != nil {
			return &DecodeError{Status: StatusZlibError, Err: errors.WithStack(err)}
		}
	}
	d.finished = true
	return nil
}

func (d *Decoder) emitRow(row uint32, data []byte) error {
	if d.rowFunc != nil {
		d.rowFunc(d, row, data)
	}
	return nil
}

func classifyIdatErr(err error) Status {
	if errors.Is(err, filter.ErrUnknownFilterType) {
		return StatusBadFilter
	}
	return StatusZlibError
}
