// Package query implements the BM25 scoring executor: per-partition
// scoring with a bounded top-k heap and a cross-partition merge, in the
// min-heap block-merge style of a posting-list traversal engine.
package query

import (
	"math"

	"github.com/jinterlante/bm25engine/internal/partition"
	"github.com/jinterlante/bm25engine/internal/tokenize"
)

// Options configures one scoring pass: stop words, df limits (including an
// optional per-query max_df cap), BM25 parameters, boost, global N, and
// top-k. The query text is passed to ScorePartition separately.
type Options struct {
	StopWords map[string]bool
	MinDF     int
	// MaxDFOverride, if non-zero, is a per-query document-frequency cap
	// tighter than whatever threshold ingestion already baked into
	// eviction.
	MaxDFOverride uint64
	K1, B         float64
	// Boost multiplies every contribution from this partition's column;
	// 1.0 when unset.
	Boost   float64
	GlobalN uint64
	K       int
}

// ScorePartition tokenizes queryText identically to ingestion, scores
// every surviving term against idx, and returns at most K results sorted
// descending by score.
func ScorePartition(idx *partition.Index, queryText []byte, opts Options) []Result {
	boost := opts.Boost
	if boost == 0 {
		boost = 1.0
	}

	scores := make(map[uint64]float64)
	for _, tok := range tokenize.Tokenize(queryText) {
		if opts.StopWords != nil && opts.StopWords[tok] {
			continue
		}
		termID, ok := idx.Lookup(tok)
		if !ok {
			continue
		}
		list := idx.Postings.Get(termID)
		if list == nil || list.Evicted() {
			continue
		}
		df := list.DF()
		if df == 0 || df < uint64(opts.MinDF) {
			continue
		}
		if opts.MaxDFOverride > 0 && df >= opts.MaxDFOverride {
			continue
		}

		// The +1 keeps idf positive even when a term appears in more than
		// half the corpus (df > N/2), where the textbook
		// ln((N-df+0.5)/(df+0.5)) goes negative and would flip otherwise
		// positive term-frequency contributions to negative scores.
		idf := math.Log(1 + (float64(opts.GlobalN)-float64(df)+0.5)/(float64(df)+0.5))
		for _, p := range list.Decode() {
			docSize := float64(0)
			if int(p.DocID) < len(idx.DocSizes) {
				docSize = float64(idx.DocSizes[p.DocID])
			}
			lengthNorm := 1 - opts.B
			if idx.AvgDocSize > 0 {
				lengthNorm += opts.B * docSize / idx.AvgDocSize
			}
			tf := float64(p.TF)
			contribution := idf * tf / (tf + opts.K1*lengthNorm) * boost
			scores[p.DocID] += contribution
		}
	}

	top := newTopK(opts.K)
	for docID, score := range scores {
		top.add(Result{PartitionID: idx.ID, DocID: docID, Score: score})
	}
	return top.sorted()
}

// Merge combines per-partition top-k result sets into one global top-k
// via a bounded min-heap of size k.
func Merge(perPartition [][]Result, k int) []Result {
	top := newTopK(k)
	for _, results := range perPartition {
		for _, r := range results {
			top.add(r)
		}
	}
	return top.sorted()
}
