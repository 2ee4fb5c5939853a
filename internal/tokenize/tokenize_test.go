package tokenize

import (
	"reflect"
	"testing"

	"github.com/jinterlante/bm25engine/internal/partition"
)

func TestTokenize_SplitsOnWhitespaceAndUppercases(t *testing.T) {
	got := Tokenize([]byte("the Quick  brown\tfox"))
	want := []string{"THE", "QUICK", "BROWN", "FOX"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// TestTokenize_EscapeKeepsQuoteLiteralAndDoesNotSplit checks that
// `HELLO \"WORLD\"` tokenizes to {HELLO, "WORLD"}.
func TestTokenize_EscapeKeepsQuoteLiteralAndDoesNotSplit(t *testing.T) {
	got := Tokenize([]byte(`HELLO \"WORLD\"`))
	want := []string{"HELLO", `"WORLD"`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenize_EscapedWhitespaceDoesNotSplit(t *testing.T) {
	got := Tokenize([]byte(`A\ B C`))
	want := []string{"A B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	got := Tokenize([]byte("   \t  "))
	if len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}
}

func TestIndexText_DocWithZeroNonStopTokens(t *testing.T) {
	idx := partition.New(0, false)
	idx.BeginDoc(0)
	size := IndexText(idx, 0, []byte("THE A AN"), Options{
		StopWords: map[string]bool{"THE": true, "A": true, "AN": true},
	})
	if size != 3 {
		t.Errorf("doc size = %d, want 3 (stop words still count)", size)
	}
	if idx.Postings.Len() != 0 {
		t.Errorf("expected no postings for an all-stop-word doc, got %d terms", idx.Postings.Len())
	}
}

func TestIndexText_TFSaturatesAt255For300Occurrences(t *testing.T) {
	idx := partition.New(0, false)
	idx.BeginDoc(0)

	text := make([]byte, 0, 300*5)
	for i := 0; i < 300; i++ {
		if i > 0 {
			text = append(text, ' ')
		}
		text = append(text, []byte("REPEAT")...)
	}
	IndexText(idx, 0, text, Options{})

	termID, ok := idx.Lookup("REPEAT")
	if !ok {
		t.Fatal("expected REPEAT to be indexed")
	}
	posts := idx.Postings.Get(termID).Decode()
	if len(posts) != 1 || posts[0].TF != 255 {
		t.Fatalf("got %v, want one posting with TF=255", posts)
	}
}

func TestIndexText_HighDFEviction(t *testing.T) {
	idx := partition.New(0, false)
	const nDocs = 10
	const maxDF = 5

	var evicted []string
	opts := Options{
		MaxDF: maxDF,
		OnEvict: func(term string) {
			evicted = append(evicted, term)
		},
	}

	for d := uint64(0); d < nDocs; d++ {
		idx.BeginDoc(0)
		IndexText(idx, d, []byte("COMMON RARE"+string(rune('A'+d))), opts)
	}

	termID, ok := idx.Lookup("COMMON")
	if !ok {
		t.Fatal("expected COMMON to be interned")
	}
	list := idx.Postings.Get(termID)
	if !list.Evicted() {
		t.Fatal("expected COMMON to be evicted once df reached maxDF")
	}
	if len(evicted) != 1 || evicted[0] != "COMMON" {
		t.Errorf("OnEvict calls = %v, want exactly one call for COMMON", evicted)
	}
	if posts := list.Decode(); posts != nil {
		t.Errorf("expected evicted term to decode empty, got %v", posts)
	}
}
