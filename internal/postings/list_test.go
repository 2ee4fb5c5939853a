package postings

import "testing"

// addDoc simulates the tokenizer calling Add once per occurrence within a
// document, then Flush at the document boundary.
func addDoc(l *List, docID uint64, occurrences int) {
	for i := 0; i < occurrences; i++ {
		l.Add(docID)
	}
	l.Flush()
}

func TestList_BasicRoundTrip(t *testing.T) {
	l := &List{}
	addDoc(l, 0, 2) // doc 0: tf=2
	addDoc(l, 1, 1) // doc 1: tf=1
	addDoc(l, 5, 3) // doc 5: tf=3

	if l.DF() != 3 {
		t.Fatalf("DF() = %d, want 3", l.DF())
	}

	posts := l.Decode()
	want := []Posting{{0, 2}, {1, 1}, {5, 3}}
	if len(posts) != len(want) {
		t.Fatalf("len(posts) = %d, want %d", len(posts), len(want))
	}
	for i := range want {
		if posts[i] != want[i] {
			t.Errorf("index %d: got %+v, want %+v", i, posts[i], want[i])
		}
	}
}

func TestList_StrictlyIncreasingDocIDs(t *testing.T) {
	l := &List{}
	addDoc(l, 0, 1)
	addDoc(l, 3, 1)
	addDoc(l, 10, 1)

	posts := l.Decode()
	for i := 1; i < len(posts); i++ {
		if posts[i].DocID <= posts[i-1].DocID {
			t.Fatalf("doc ids not strictly increasing at index %d: %+v", i, posts)
		}
	}
}

func TestList_TFSaturatesAt255(t *testing.T) {
	l := &List{}
	addDoc(l, 0, 300)

	posts := l.Decode()
	if len(posts) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(posts))
	}
	if posts[0].TF != 255 {
		t.Errorf("tf = %d, want 255 (saturated)", posts[0].TF)
	}
}

func TestList_DFMatchesRunTotalAndDecodedCount(t *testing.T) {
	l := &List{}
	addDoc(l, 0, 1)
	addDoc(l, 1, 1)
	addDoc(l, 2, 1)
	addDoc(l, 4, 5)

	posts := l.Decode()
	if uint64(len(posts)) != l.DF() {
		t.Errorf("decoded %d postings, DF() = %d", len(posts), l.DF())
	}
	runTotal := uint64(0)
	for _, r := range l.TermFreqRuns() {
		runTotal += uint64(r.Count)
	}
	if runTotal != l.DF() {
		t.Errorf("RLE run total = %d, DF() = %d", runTotal, l.DF())
	}
}

func TestList_Evict_ClearsDocIDsKeepsNothingQueryable(t *testing.T) {
	l := &List{}
	addDoc(l, 0, 1)
	addDoc(l, 1, 1)
	l.Evict()

	if !l.Evicted() {
		t.Fatal("expected Evicted() true")
	}
	if posts := l.Decode(); posts != nil {
		t.Errorf("expected nil decode for evicted list, got %v", posts)
	}

	// A further occurrence after eviction must not resurrect postings.
	l.Add(2)
	l.Flush()
	if posts := l.Decode(); posts != nil {
		t.Errorf("expected evicted list to stay empty, got %v", posts)
	}
}

func TestList_EncodedDocIDs_RoundTripsThroughParse(t *testing.T) {
	l := &List{}
	addDoc(l, 0, 1)
	addDoc(l, 2, 1)
	addDoc(l, 9, 1)

	buf := l.EncodedDocIDs()
	df, deltas, err := ParseEncodedDocIDs(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if df != l.DF() {
		t.Errorf("parsed df = %d, want %d", df, l.DF())
	}
	reloaded := FromParts(df, deltas, l.TermFreqRuns(), false)
	if got, want := reloaded.Decode(), l.Decode(); len(got) != len(want) {
		t.Fatalf("reloaded decode length = %d, want %d", len(got), len(want))
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("index %d: got %+v, want %+v", i, got[i], want[i])
			}
		}
	}
}

func TestStore_AddGetDenseIDs(t *testing.T) {
	s := NewStore()
	id0, l0 := s.Add()
	id1, l1 := s.Add()
	if id0 != 0 || id1 != 1 {
		t.Fatalf("expected dense ids 0,1, got %d,%d", id0, id1)
	}
	if s.Get(0) != l0 || s.Get(1) != l1 {
		t.Error("Get did not return the lists Add created")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if s.Get(99) != nil {
		t.Error("expected nil for out-of-range term id")
	}
}
