package chunk

import (
	"bytes"
	"compress/zlib"
	"errors"
	"testing"
)

func buildZTXt(t *testing.T, keyword string, text []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(keyword)
	buf.WriteByte(0)
	buf.WriteByte(0) // compression method: zlib/deflate

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(text); err != nil {
		t.Fatalf("zlib.Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib.Close: %v", err)
	}
	buf.Write(compressed.Bytes())
	return buf.Bytes()
}

func TestParseTEXt(t *testing.T) {
	data := append([]byte("Title\x00"), []byte("hello world")...)
	txt, err := ParseTEXt(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txt.Keyword != "Title" || txt.Text != "hello world" {
		t.Errorf("got %+v", txt)
	}
}

func TestParseTEXtMissingSeparator(t *testing.T) {
	if _, err := ParseTEXt([]byte("no separator here")); err == nil {
		t.Fatal("expected error for missing nul separator")
	}
}

func TestParseZTXt(t *testing.T) {
	data := buildZTXt(t, "Comment", []byte("hello world"))
	txt, err := ParseZTXt(data, 1<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txt.Keyword != "Comment" || txt.Text != "hello world" {
		t.Errorf("got %+v", txt)
	}
}

func TestParseZTXtTooLarge(t *testing.T) {
	data := buildZTXt(t, "Comment", bytes.Repeat([]byte{'x'}, 100))
	_, err := ParseZTXt(data, 10)
	if !errors.Is(err, ErrTextTooLarge) {
		t.Fatalf("expected ErrTextTooLarge, got %v", err)
	}
}

func TestParseZTXtUnknownCompressionMethod(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Comment")
	buf.WriteByte(0)
	buf.WriteByte(1) // only method 0 (zlib/deflate) is defined
	if _, err := ParseZTXt(buf.Bytes(), 1<<20); err == nil {
		t.Fatal("expected error for unknown compression method")
	}
}
