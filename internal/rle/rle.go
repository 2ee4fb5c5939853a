// Package rle implements run-length encoding over a stream of uint8
// values, used to store per-document term frequencies. A Run packs a
// 16-bit repeat count with the 8-bit value being repeated; Append grows
// the last run in place when the incoming value matches and the run has
// not saturated its 16-bit counter.
package rle

// MaxRepeat is the largest repeat count a single Run can hold.
const MaxRepeat = 0xffff

// Run is one (repeat_count, value) pair.
type Run struct {
	Count uint16
	Value uint8
}

// Sequence is an ordered list of runs. The total size of the sequence is
// the sum of each run's Count.
type Sequence []Run

// Append appends v to the logical stream represented by seq, extending the
// last run if possible, and returns the updated sequence.
func Append(seq Sequence, v uint8) Sequence {
	if n := len(seq); n > 0 && seq[n-1].Value == v && seq[n-1].Count < MaxRepeat {
		seq[n-1].Count++
		return seq
	}
	return append(seq, Run{Count: 1, Value: v})
}

// Size returns the sum of repeat counts across the sequence — the number
// of logical values it represents.
func Size(seq Sequence) uint64 {
	var total uint64
	for _, r := range seq {
		total += uint64(r.Count)
	}
	return total
}

// SizeAtLeast reports whether Size(seq) >= threshold without fully summing
// past the point where the answer is already known: an early-exit used by
// high-df eviction so the check stays O(runs) instead of O(decompressed
// size).
func SizeAtLeast(seq Sequence, threshold uint64) bool {
	var total uint64
	for _, r := range seq {
		total += uint64(r.Count)
		if total >= threshold {
			return true
		}
	}
	return false
}

// Expand decodes seq back into its flat []uint8 form. Used at query time
// when decoding a posting's term-frequency stream.
func Expand(seq Sequence) []uint8 {
	out := make([]uint8, 0, Size(seq))
	for _, r := range seq {
		for i := uint16(0); i < r.Count; i++ {
			out = append(out, r.Value)
		}
	}
	return out
}
