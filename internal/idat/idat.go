// Package idat drives the zlib/deflate inflate session that spans every
// IDAT chunk in a datastream, and turns the resulting byte stream into
// reconstructed scanlines, one filter-reversal at a time.
package idat

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"streampng.dev/internal/filter"
)

// RowFunc is called once per reconstructed scanline, in order, with the
// row's de-filtered pixel bytes. The slice is reused by the pipeline on the
// next call and must not be retained.
type RowFunc func(row uint32, data []byte) error

// Pipeline accumulates IDAT payload bytes pushed to it across any number of
// Feed calls and, as soon as enough compressed data is available, inflates
// and de-filters one scanline at a time, emitting it through RowFunc.
type Pipeline struct {
	feeder  *feeder
	zr      io.ReadCloser
	started bool

	stride int
	bpp    int
	height uint32
	row    uint32

	bufs    [2][]byte
	cur     int
	zeroRow []byte

	onRow RowFunc
}

// New builds a pipeline for an image with the given scanline stride (bytes
// per filtered row, excluding the filter-type byte), bytes-per-pixel (used
// to locate the "left" neighbor during filter reconstruction), and height
// in scanlines.
func New(stride, bpp int, height uint32, onRow RowFunc) *Pipeline {
	p := &Pipeline{
		stride:  stride,
		bpp:     bpp,
		height:  height,
		onRow:   onRow,
		feeder:  &feeder{},
		zeroRow: make([]byte, stride),
	}
	p.bufs[0] = make([]byte, 1+stride)
	p.bufs[1] = make([]byte, 1+stride)
	return p
}

// Done reports whether every scanline the image declared has been emitted.
func (p *Pipeline) Done() bool {
	return p.row >= p.height
}

// Feed supplies the next slice of raw IDAT payload bytes (the concatenation
// of one or more IDAT chunks' Data fields) and pumps as much of the
// inflate/filter pipeline forward as the available compressed data allows.
// It returns without error, with bytes buffered for later, when there is
// not yet enough input to produce the next scanline.
func (p *Pipeline) Feed(data []byte) error {
	if p.Done() {
		if len(data) > 0 {
			return fmt.Errorf("idat: data present after the image's final scanline")
		}
		return nil
	}
	p.feeder.push(data)
	return p.pump()
}

// Close signals that no more IDAT bytes will arrive. If the pipeline has
// not yet produced every scanline, that is a truncated-stream error.
func (p *Pipeline) Close() error {
	p.feeder.closed = true
	if err := p.pump(); err != nil {
		return err
	}
	if !p.Done() {
		return fmt.Errorf("idat: stream ended after %d of %d scanlines", p.row, p.height)
	}
	return nil
}

func (p *Pipeline) pump() error {
	if !p.started {
		zr, err := zlib.NewReader(p.feeder)
		if err != nil {
			if suspend(err) {
				return nil
			}
			return fmt.Errorf("idat: zlib header: %w", err)
		}
		p.zr = zr
		p.started = true
	}

	for p.row < p.height {
		full := p.bufs[p.cur%2][:1+p.stride]
		if _, err := io.ReadFull(p.zr, full); err != nil {
			if suspend(err) {
				return nil
			}
			return fmt.Errorf("idat: inflate: %w", err)
		}

		ft := filter.Type(full[0])
		cur := full[1:]
		prev := p.zeroRow
		if p.row > 0 {
			prev = p.bufs[(p.cur+1)%2][1:]
		}
		if err := filter.Reconstruct(ft, cur, prev, p.bpp); err != nil {
			return fmt.Errorf("idat: row %d: %w", p.row, err)
		}
		if err := p.onRow(p.row, cur); err != nil {
			return err
		}
		p.row++
		p.cur++
	}
	return nil
}

// suspend reports whether err means "ran out of input for now", a
// recoverable condition the pipeline resumes from on the next Feed, as
// opposed to a genuine zlib stream corruption.
func suspend(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrNoProgress)
}

// feeder is an io.Reader over a queue of byte slices fed to it over time.
// Reading past the end of what has been pushed returns (0, nil) rather than
// blocking, matching the decoder's synchronous, non-blocking Write
// contract: zlib's reader treats that as "try again once more data
// arrives" rather than a stream error.
type feeder struct {
	pending [][]byte
	offset  int
	closed  bool
}

func (f *feeder) push(b []byte) {
	if len(b) == 0 {
		return
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	f.pending = append(f.pending, cp)
}

func (f *feeder) Read(p []byte) (int, error) {
	for len(f.pending) > 0 {
		cur := f.pending[0]
		if f.offset >= len(cur) {
			f.pending = f.pending[1:]
			f.offset = 0
			continue
		}
		n := copy(p, cur[f.offset:])
		f.offset += n
		if f.offset >= len(cur) {
			f.pending = f.pending[1:]
			f.offset = 0
		}
		return n, nil
	}
	if f.closed {
		return 0, io.EOF
	}
	return 0, nil
}
