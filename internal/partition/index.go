// Package partition holds the per-partition state: a local term
// vocabulary, its posting list store, per-document sizes, source byte
// offsets, and document count/average. A partition is built by exactly
// one worker goroutine and is read-only once ingestion completes.
package partition

import (
	"math"

	"github.com/jinterlante/bm25engine/internal/postings"
)

// maxDocSize is the saturation point for a document's recorded size: a
// 16-bit per-document size field that saturates at 65535.
const maxDocSize = math.MaxUint16

// Index is one partition's frozen (or still-building) state.
type Index struct {
	ID int

	TermToID map[string]uint32
	Postings *postings.Store

	DocSizes    []uint16
	LineOffsets []uint64 // nil in in-memory mode: there is no source file to seek into

	NumDocs uint64

	totalSize uint64
	AvgDocSize float64
}

// New returns an empty partition ready for ingestion. hasLineOffsets
// should be false for in-memory corpora.
func New(id int, hasLineOffsets bool) *Index {
	idx := &Index{
		ID:       id,
		TermToID: make(map[string]uint32),
		Postings: postings.NewStore(),
	}
	if hasLineOffsets {
		idx.LineOffsets = []uint64{}
	}
	return idx
}

// Intern returns the term id for term, allocating a fresh one (and an
// empty posting list) in first-seen order if term is new to this
// partition.
func (idx *Index) Intern(term string) (id uint32, isNew bool) {
	if id, ok := idx.TermToID[term]; ok {
		return id, false
	}
	id, _ = idx.Postings.Add()
	idx.TermToID[term] = id
	return id, true
}

// Lookup returns the term id for term without allocating one.
func (idx *Index) Lookup(term string) (id uint32, ok bool) {
	id, ok = idx.TermToID[term]
	return id, ok
}

// BeginDoc allocates the next dense document id and records its source
// offset (ignored in in-memory mode, where offset is meaningless).
func (idx *Index) BeginDoc(offset uint64) uint64 {
	docID := idx.NumDocs
	idx.NumDocs++
	if idx.LineOffsets != nil {
		idx.LineOffsets = append(idx.LineOffsets, offset)
	}
	return docID
}

// EndDoc records the finished document's size, saturating at 65535.
func (idx *Index) EndDoc(size int) {
	if size > maxDocSize {
		size = maxDocSize
	}
	idx.DocSizes = append(idx.DocSizes, uint16(size))
	idx.totalSize += uint64(size)
}

// Finalize computes AvgDocSize from the accumulated document sizes.
// Called once per partition after its ingestion worker finishes.
func (idx *Index) Finalize() {
	if idx.NumDocs == 0 {
		idx.AvgDocSize = 0
		return
	}
	idx.AvgDocSize = float64(idx.totalSize) / float64(idx.NumDocs)
}

// FromParts reconstructs a frozen partition from its persisted
// components. The returned Index has no ingestion scratch state;
// BeginDoc/EndDoc must not be called on it. AvgDocSize is recomputed
// here and may be overwritten by the caller from persisted metadata
// (float64 round-trip is exact, but callers reloading from disk prefer
// the stored value to avoid relying on that).
func FromParts(id int, termToID map[string]uint32, store *postings.Store, docSizes []uint16, lineOffsets []uint64) *Index {
	idx := &Index{
		ID:          id,
		TermToID:    termToID,
		Postings:    store,
		DocSizes:    docSizes,
		LineOffsets: lineOffsets,
		NumDocs:     uint64(len(docSizes)),
	}
	for _, s := range docSizes {
		idx.totalSize += uint64(s)
	}
	idx.Finalize()
	return idx
}
