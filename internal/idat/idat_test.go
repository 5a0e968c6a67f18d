package idat

import (
	"bytes"
	"compress/zlib"
	"testing"
)

// buildZlibScanlines deflates one scanline per entry of rows, each prefixed with a
// filter-type byte of 0 (None), so the raw pixel bytes pass straight
// through filter reconstruction unchanged.
func buildZlibScanlines(t *testing.T, stride int, rows [][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	for _, row := range rows {
		if len(row) != stride {
			t.Fatalf("row length %d != stride %d", len(row), stride)
		}
		if _, err := zw.Write([]byte{0}); err != nil {
			t.Fatalf("write filter byte: %v", err)
		}
		if _, err := zw.Write(row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zlib writer: %v", err)
	}
	return buf.Bytes()
}

func TestPipelineSingleShot(t *testing.T) {
	stride := 3
	rows := [][]byte{{1, 2, 3}, {4, 5, 6}}
	compressed := buildZlibScanlines(t, stride, rows)

	var got [][]byte
	p := New(stride, 1, uint32(len(rows)), func(row uint32, data []byte) error {
		cp := append([]byte(nil), data...)
		got = append(got, cp)
		return nil
	})

	if err := p.Feed(compressed); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}
	for i, row := range rows {
		if !bytes.Equal(got[i], row) {
			t.Errorf("row %d = %v, want %v", i, got[i], row)
		}
	}
}

func TestPipelineOneByteAtATime(t *testing.T) {
	stride := 4
	rows := [][]byte{{9, 8, 7, 6}, {1, 1, 1, 1}, {0, 255, 0, 255}}
	compressed := buildZlibScanlines(t, stride, rows)

	var got [][]byte
	p := New(stride, 1, uint32(len(rows)), func(row uint32, data []byte) error {
		cp := append([]byte(nil), data...)
		got = append(got, cp)
		return nil
	})

	for i := 0; i < len(compressed); i++ {
		if err := p.Feed(compressed[i : i+1]); err != nil {
			t.Fatalf("Feed byte %d: %v", i, err)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}
	for i, row := range rows {
		if !bytes.Equal(got[i], row) {
			t.Errorf("row %d = %v, want %v", i, got[i], row)
		}
	}
}

func TestPipelineRejectsDataAfterFinalScanline(t *testing.T) {
	stride := 2
	rows := [][]byte{{1, 2}}
	compressed := buildZlibScanlines(t, stride, rows)

	p := New(stride, 1, uint32(len(rows)), func(row uint32, data []byte) error { return nil })
	if err := p.Feed(compressed); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !p.Done() {
		t.Fatal("expected pipeline to be done after its declared row count")
	}
	if err := p.Feed([]byte{0xFF}); err == nil {
		t.Fatal("expected error feeding data past the final scanline")
	}
}
