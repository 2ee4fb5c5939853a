// Package tokenize implements the tokenizer, the per-document indexer,
// and the high-df eviction policy. Both ingestion and query tokenization
// go through the same token scanner so the two stay identical: a query
// must be tokenized exactly the way its matching documents were.
package tokenize

import (
	"bytes"
	"unicode"

	"github.com/jinterlante/bm25engine/internal/partition"
)

// forEachToken splits text into maximal runs of non-whitespace bytes,
// honoring `\`-escapes: a backslash consumes the following byte
// literally, even if that byte is whitespace or another backslash, and
// the escaped byte never itself triggers a split.
//
// fn receives each token already upper-cased. The slice passed to fn is
// only valid for the duration of the call.
func forEachToken(text []byte, fn func(tok []byte)) {
	var buf []byte
	n := len(text)
	flush := func() {
		if len(buf) > 0 {
			fn(bytes.ToUpper(buf))
			buf = buf[:0]
		}
	}
	for i := 0; i < n; {
		b := text[i]
		if b == '\\' {
			if i+1 < n {
				buf = append(buf, text[i+1])
				i += 2
			} else {
				i++
			}
			continue
		}
		if isSpace(b) {
			flush()
			i++
			continue
		}
		buf = append(buf, b)
		i++
	}
	flush()
}

func isSpace(b byte) bool {
	return unicode.IsSpace(rune(b))
}

// Tokenize returns every token in text, upper-cased, in order, including
// tokens that would be dropped as stop words. Used for query
// tokenization, where the caller decides stop-word/eviction handling
// itself.
func Tokenize(text []byte) []string {
	var out []string
	forEachToken(text, func(tok []byte) {
		out = append(out, string(tok))
	})
	return out
}

// Options configures document indexing.
type Options struct {
	// StopWords holds uppercase stop words; membership is tested on the
	// token's upper-cased form.
	StopWords map[string]bool

	// MaxDF is the resolved, absolute high-df eviction threshold for this
	// build. Zero disables eviction.
	MaxDF uint64

	// OnEvict, if non-nil, is called the moment a term crosses MaxDF and
	// is evicted, letting the caller log/count the event.
	OnEvict func(term string)
}

// IndexText tokenizes text and updates idx's postings for docID in
// place, applying stop-word filtering and high-df eviction. It returns
// the document's size: total token count, including stop words.
func IndexText(idx *partition.Index, docID uint64, text []byte, opts Options) int {
	touched := make(map[uint32]struct{})
	size := 0

	forEachToken(text, func(tok []byte) {
		size++
		if opts.StopWords != nil && opts.StopWords[string(tok)] {
			return
		}

		term := string(tok)
		termID, isNew := idx.Intern(term)
		list := idx.Postings.Get(termID)
		if list == nil {
			return // defensive; cannot happen if Intern/Add stay in sync
		}
		if list.Evicted() {
			return // doc size already accounted above; postings stay frozen
		}

		list.Add(docID)
		touched[termID] = struct{}{}
		_ = isNew
	})

	for termID := range touched {
		list := idx.Postings.Get(termID)
		list.Flush()
		if opts.MaxDF > 0 && !list.Evicted() && list.RunCount(opts.MaxDF) {
			list.Evict()
			if opts.OnEvict != nil {
				if term := reverseLookup(idx, termID); term != "" {
					opts.OnEvict(term)
				}
			}
		}
	}

	return size
}

// reverseLookup finds the term string for a term id, used only for the
// (optional, rarely-invoked) eviction callback. O(n) in vocabulary size;
// acceptable since eviction is itself a rare event relative to indexing.
func reverseLookup(idx *partition.Index, termID uint32) string {
	for term, id := range idx.TermToID {
		if id == termID {
			return term
		}
	}
	return ""
}
