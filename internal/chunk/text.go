package chunk

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Text holds a decoded textual chunk (tEXt or zTXt), normalized to a plain
// keyword/text pair regardless of which of the two wire forms it came from.
type Text struct {
	Keyword string
	Text    string
}

// ErrTextTooLarge reports that a zTXt chunk's inflated text exceeded the
// caller-supplied cap. Checked with errors.Is so the caller can distinguish
// "text is bigger than we're willing to hold" from a genuinely malformed
// chunk.
var ErrTextTooLarge = errors.New("chunk: inflated text exceeds size limit")

// ParseTEXt decodes an uncompressed tEXt chunk: a keyword, a nul separator,
// and Latin-1 text running to the end of the chunk.
func ParseTEXt(data []byte) (Text, error) {
	kw, rest, err := splitKeyword(data)
	if err != nil {
		return Text{}, err
	}
	return Text{Keyword: kw, Text: string(rest)}, nil
}

// ParseZTXt decodes a zTXt chunk: a keyword, a nul separator, a one-byte
// compression method (always zlib/deflate), and zlib-compressed text. The
// inflated text is capped at maxSize bytes — a small chunk that inflates to
// more than that is ErrTextTooLarge, not an unbounded read.
func ParseZTXt(data []byte, maxSize int) (Text, error) {
	kw, rest, err := splitKeyword(data)
	if err != nil {
		return Text{}, err
	}
	if len(rest) < 1 {
		return Text{}, fmt.Errorf("chunk: zTXt missing compression method")
	}
	if rest[0] != 0 {
		return Text{}, fmt.Errorf("chunk: zTXt unknown compression method %d", rest[0])
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest[1:]))
	if err != nil {
		return Text{}, fmt.Errorf("chunk: zTXt zlib header: %w", err)
	}
	defer zr.Close()
	text, err := io.ReadAll(io.LimitReader(zr, int64(maxSize)+1))
	if err != nil {
		return Text{}, fmt.Errorf("chunk: zTXt inflate: %w", err)
	}
	if len(text) > maxSize {
		return Text{}, fmt.Errorf("%w: %d bytes", ErrTextTooLarge, len(text))
	}
	return Text{Keyword: kw, Text: string(text)}, nil
}

func splitKeyword(data []byte) (keyword string, rest []byte, err error) {
	kw, rest, err := splitNul(data)
	if err != nil {
		return "", nil, fmt.Errorf("chunk: missing keyword separator: %w", err)
	}
	if len(kw) == 0 || len(kw) > 79 {
		return "", nil, fmt.Errorf("chunk: keyword length %d out of range", len(kw))
	}
	return kw, rest, nil
}

func splitNul(data []byte) (before string, after []byte, err error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", nil, fmt.Errorf("no nul separator")
	}
	return string(data[:i]), data[i+1:], nil
}
