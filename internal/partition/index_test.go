package partition

import "testing"

func TestIntern_FirstSeenOrderDenseIDs(t *testing.T) {
	idx := New(0, true)
	id0, isNew0 := idx.Intern("QUICK")
	id1, isNew1 := idx.Intern("FOX")
	id0Again, isNew0Again := idx.Intern("QUICK")

	if !isNew0 || !isNew1 {
		t.Fatal("expected first occurrences to be new")
	}
	if isNew0Again {
		t.Fatal("expected repeated term to not be new")
	}
	if id0 != 0 || id1 != 1 {
		t.Fatalf("expected dense ids 0,1; got %d,%d", id0, id1)
	}
	if id0Again != id0 {
		t.Fatalf("expected stable id for repeated term, got %d want %d", id0Again, id0)
	}
}

func TestBeginEndDoc_SizesAndOffsetsTrackNumDocs(t *testing.T) {
	idx := New(0, true)

	d0 := idx.BeginDoc(0)
	idx.EndDoc(4)
	d1 := idx.BeginDoc(17)
	idx.EndDoc(3)

	if d0 != 0 || d1 != 1 {
		t.Fatalf("expected doc ids 0,1; got %d,%d", d0, d1)
	}
	if idx.NumDocs != 2 {
		t.Fatalf("NumDocs = %d, want 2", idx.NumDocs)
	}
	if len(idx.DocSizes) != int(idx.NumDocs) || len(idx.LineOffsets) != int(idx.NumDocs) {
		t.Fatalf("doc_sizes/line_offsets length mismatch with NumDocs: %d/%d vs %d",
			len(idx.DocSizes), len(idx.LineOffsets), idx.NumDocs)
	}
	if idx.LineOffsets[1] != 17 {
		t.Errorf("line offset for doc 1 = %d, want 17", idx.LineOffsets[1])
	}
}

func TestEndDoc_SaturatesAt65535(t *testing.T) {
	idx := New(0, false)
	idx.BeginDoc(0)
	idx.EndDoc(70000)
	if idx.DocSizes[0] != 65535 {
		t.Errorf("doc size = %d, want 65535 (saturated)", idx.DocSizes[0])
	}
}

func TestFinalize_ComputesAverage(t *testing.T) {
	idx := New(0, false)
	idx.BeginDoc(0)
	idx.EndDoc(4)
	idx.BeginDoc(0)
	idx.EndDoc(6)
	idx.Finalize()

	if idx.AvgDocSize != 5.0 {
		t.Errorf("AvgDocSize = %v, want 5.0", idx.AvgDocSize)
	}
}

func TestFinalize_EmptyPartition(t *testing.T) {
	idx := New(0, false)
	idx.Finalize()
	if idx.AvgDocSize != 0 {
		t.Errorf("AvgDocSize = %v, want 0 for empty partition", idx.AvgDocSize)
	}
}

func TestInMemoryMode_NoLineOffsets(t *testing.T) {
	idx := New(0, false)
	idx.BeginDoc(123) // offset ignored
	idx.EndDoc(1)
	if idx.LineOffsets != nil {
		t.Errorf("expected nil LineOffsets in in-memory mode, got %v", idx.LineOffsets)
	}
}
