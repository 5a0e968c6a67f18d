package chunk

import "testing"

func TestAdvanceHappyPath(t *testing.T) {
	stage := StageNone
	var err error
	for _, t2 := range []Type{IHDR, PLTE, IDAT, IDAT, IEND} {
		stage, err = Advance(stage, t2)
		if err != nil {
			t.Fatalf("advancing on %s: %v", t2, err)
		}
	}
	if stage != StageIEND {
		t.Fatalf("final stage = %v, want StageIEND", stage)
	}
}

func TestAdvanceRejectsIHDRNotFirst(t *testing.T) {
	if _, err := Advance(StageIHDR, IHDR); err == nil {
		t.Fatal("expected error for a second IHDR")
	}
}

func TestAdvanceRejectsPLTEAfterIDAT(t *testing.T) {
	stage, err := Advance(StageIHDR, IDAT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Advance(stage, PLTE); err == nil {
		t.Fatal("expected error for PLTE after IDAT")
	}
}

func TestAdvanceRejectsAncillaryBeforeIHDR(t *testing.T) {
	if _, err := Advance(StageNone, GAMA); err == nil {
		t.Fatal("expected error for a chunk before IHDR")
	}
}

func TestAdvanceRejectsChunksAfterIEND(t *testing.T) {
	if _, err := Advance(StageIEND, TEXT); err == nil {
		t.Fatal("expected error for a chunk after IEND")
	}
}
