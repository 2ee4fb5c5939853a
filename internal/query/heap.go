package query

import "container/heap"

// Result is one ranked match: which partition produced it, its
// partition-local document id, and its accumulated BM25 score.
type Result struct {
	PartitionID int
	DocID       uint64
	Score       float64
}

// minHeap is a bounded min-heap of Results ordered by ascending Score, so
// the root is always the current weakest survivor.
type minHeap []Result

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(Result)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topK accumulates Results, keeping only the k highest-scoring ones seen
// so far. The same type backs both per-partition scoring and the final
// cross-partition merge.
type topK struct {
	h minHeap
	k int
}

func newTopK(k int) *topK {
	return &topK{k: k}
}

func (t *topK) add(r Result) {
	if t.k <= 0 {
		return
	}
	if len(t.h) < t.k {
		heap.Push(&t.h, r)
		return
	}
	if r.Score > t.h[0].Score {
		heap.Pop(&t.h)
		heap.Push(&t.h, r)
	}
}

// sorted drains the heap into a descending-by-score slice.
func (t *topK) sorted() []Result {
	n := len(t.h)
	out := make([]Result, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(Result)
	}
	return out
}
