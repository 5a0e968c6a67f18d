package filter

import (
	"bytes"
	"errors"
	"testing"
)

func TestReconstructNone(t *testing.T) {
	cur := []byte{1, 2, 3}
	prev := []byte{9, 9, 9}
	want := []byte{1, 2, 3}
	if err := Reconstruct(None, cur, prev, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(cur, want) {
		t.Errorf("got %v, want %v", cur, want)
	}
}

func TestReconstructSub(t *testing.T) {
	// bpp=3, first pixel passes through, second pixel accumulates.
	cur := []byte{10, 20, 30, 1, 1, 1}
	prev := make([]byte, len(cur))
	if err := Reconstruct(Sub, cur, prev, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{10, 20, 30, 11, 21, 31}
	if !bytes.Equal(cur, want) {
		t.Errorf("got %v, want %v", cur, want)
	}
}

func TestReconstructUp(t *testing.T) {
	cur := []byte{5, 5, 5}
	prev := []byte{1, 2, 3}
	if err := Reconstruct(Up, cur, prev, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{6, 7, 8}
	if !bytes.Equal(cur, want) {
		t.Errorf("got %v, want %v", cur, want)
	}
}

func TestReconstructAverage(t *testing.T) {
	cur := []byte{4, 4}
	prev := []byte{0, 10}
	if err := Reconstruct(Average, cur, prev, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// pixel 0: a=0 (no left), b=prev[0]=0 -> avg 0, +4 = 4
	// pixel 1: a=cur[0]=4 (already reconstructed), b=prev[1]=10 -> avg 7, +4 = 11
	want := []byte{4, 11}
	if !bytes.Equal(cur, want) {
		t.Errorf("got %v, want %v", cur, want)
	}
}

func TestReconstructPaeth(t *testing.T) {
	cur := []byte{0, 0}
	prev := []byte{0, 0}
	if err := Reconstruct(Paeth, cur, prev, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0, 0}
	if !bytes.Equal(cur, want) {
		t.Errorf("got %v, want %v", cur, want)
	}
}

func TestReconstructUnknownFilterType(t *testing.T) {
	cur := make([]byte, 3)
	prev := make([]byte, 3)
	err := Reconstruct(Type(7), cur, prev, 1)
	if err == nil {
		t.Fatal("expected error for unknown filter type")
	}
	if !errors.Is(err, ErrUnknownFilterType) {
		t.Errorf("expected ErrUnknownFilterType in chain, got %v", err)
	}
}

func TestPaethPicksClosestNeighbor(t *testing.T) {
	cases := []struct {
		a, b, c byte
		want    byte
	}{
		{a: 10, b: 0, c: 0, want: 10}, // p=10, closest to a
		{a: 0, b: 10, c: 0, want: 10}, // p=10, closest to b
		{a: 0, b: 0, c: 10, want: 0},  // p=-10, tie broken toward a (<=)
	}
	for _, c := range cases {
		got := paeth(c.a, c.b, c.c)
		if got != c.want {
			t.Errorf("paeth(%d,%d,%d) = %d, want %d", c.a, c.b, c.c, got, c.want)
		}
	}
}
