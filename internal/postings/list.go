// Package postings implements the per-term posting list: a
// vbyte-delta-compressed doc-id stream paired with a run-length-encoded
// per-document term-frequency stream. Each List is owned exclusively by
// one partition; there is no cross-partition sharing.
package postings

import (
	"github.com/jinterlante/bm25engine/internal/rle"
	"github.com/jinterlante/bm25engine/internal/vbyte"
)

// maxTermFreq is the saturation point for a single document's term
// frequency: the 8-bit RLE value field caps at 255.
const maxTermFreq = 255

// List is one term's posting list within a partition.
//
// During ingestion, deltas and termFreqs grow incrementally via Add and
// Flush. After ingestion, the list is frozen; Decode and EncodedDocIDs
// read it without further mutation.
type List struct {
	deltas    []byte       // vbyte-encoded doc-id deltas, ascending
	termFreqs rle.Sequence // one value per document containing the term
	df        uint64
	lastDocID uint64 // doc id most recently appended (delta base)

	openDocID  uint64
	openTF     uint8
	hasOpenRun bool // true while a document's tf is accumulating but not yet Flush()ed

	evicted bool
}

// Add records one occurrence of this term in docID. Call it once per
// token occurrence; the list itself tracks whether docID is a
// continuation of the currently-open document or the start of a new
// one. Add is a no-op once the list has been evicted: the caller still
// accounts the occurrence toward doc size, but postings stop growing.
func (l *List) Add(docID uint64) {
	if l.evicted {
		return
	}
	if l.hasOpenRun && l.openDocID == docID {
		if l.openTF < maxTermFreq {
			l.openTF++
		}
		return
	}
	if l.hasOpenRun {
		// Defensive: a caller that forgets to Flush between documents would
		// otherwise silently merge two documents' counts.
		l.commit()
	}
	delta := docID - l.lastDocID
	if l.df == 0 {
		delta = docID
	}
	l.deltas = vbyte.AppendEncode(l.deltas, delta)
	l.df++
	l.lastDocID = docID
	l.openDocID = docID
	l.openTF = 1
	l.hasOpenRun = true
}

// Flush closes out the currently-open document's term frequency, pushing
// it onto the RLE stream. The indexer calls Flush once per document for
// every term touched in that document.
func (l *List) Flush() {
	if l.hasOpenRun {
		l.commit()
	}
}

func (l *List) commit() {
	l.termFreqs = rle.Append(l.termFreqs, l.openTF)
	l.hasOpenRun = false
	l.openTF = 0
}

// DF returns the document frequency accumulated so far.
func (l *List) DF() uint64 {
	return l.df
}

// RunCount reports whether the running RLE total has already reached
// threshold, without decompressing the tf stream: the O(runs) early-exit
// high-df eviction uses.
func (l *List) RunCount(threshold uint64) bool {
	return rle.SizeAtLeast(l.termFreqs, threshold)
}

// Evict clears the doc-id buffer and marks the list evicted. The term's
// entry in a partition's term-to-id map is untouched by this call;
// eviction only affects the posting list itself.
func (l *List) Evict() {
	l.deltas = nil
	l.evicted = true
}

// Evicted reports whether this list has been evicted.
func (l *List) Evicted() bool {
	return l.evicted
}

// Posting is one decoded (doc_id, tf) pair.
type Posting struct {
	DocID uint64
	TF    uint8
}

// Decode reconstructs the full (doc_id, tf) stream in ascending doc-id
// order. Evicted lists decode to nil.
func (l *List) Decode() []Posting {
	if l.evicted || l.df == 0 {
		return nil
	}
	tfs := rle.Expand(l.termFreqs)
	out := make([]Posting, 0, l.df)
	r := vbyte.NewReader(l.deltas)
	var docID uint64
	for i := uint64(0); i < l.df; i++ {
		delta, ok := r.Next()
		if !ok {
			break
		}
		docID += delta
		tf := uint8(0)
		if int(i) < len(tfs) {
			tf = tfs[i]
		}
		out = append(out, Posting{DocID: docID, TF: tf})
	}
	return out
}

// EncodedDocIDs returns the on-disk representation of the doc-id stream:
// a vbyte-encoded df prefix followed by the vbyte-encoded deltas.
// Evicted lists encode to just the (zero) df prefix.
func (l *List) EncodedDocIDs() []byte {
	if l.evicted {
		return vbyte.Encode(0)
	}
	buf := vbyte.Encode(l.df)
	return append(buf, l.deltas...)
}

// TermFreqRuns exposes the raw RLE run sequence, used by persistence to
// serialize the tf stream.
func (l *List) TermFreqRuns() rle.Sequence {
	return l.termFreqs
}

// ParseEncodedDocIDs splits a buffer produced by EncodedDocIDs back into
// its df prefix and delta bytes, used by persist when reloading a
// partition from disk.
func ParseEncodedDocIDs(buf []byte) (df uint64, deltas []byte, err error) {
	df, n := vbyte.Decode(buf)
	if n == 0 {
		return 0, nil, vbyte.ErrTruncated
	}
	return df, buf[n:], nil
}

// FromParts reconstructs a frozen List from its serialized components,
// used when loading a persisted partition. The returned list has no
// ingestion scratch state; Add/Flush must not be called on it.
func FromParts(df uint64, deltas []byte, termFreqs rle.Sequence, evicted bool) *List {
	return &List{
		df:        df,
		deltas:    deltas,
		termFreqs: termFreqs,
		evicted:   evicted,
	}
}
