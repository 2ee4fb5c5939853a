package persist

import (
	"fmt"

	"github.com/jinterlante/bm25engine/internal/partition"
	"github.com/jinterlante/bm25engine/internal/postings"
	"github.com/jinterlante/bm25engine/internal/rle"
	"github.com/jinterlante/bm25engine/internal/vbyte"
)

// encodeTermMapping serializes idx's term vocabulary in ascending term-id
// order: a count prefix, then one length-prefixed term string per id. Id
// order is recovered on load from the vocabulary's position, not stored
// explicitly.
func encodeTermMapping(idx *partition.Index) []byte {
	n := idx.Postings.Len()
	terms := make([]string, n)
	for term, id := range idx.TermToID {
		terms[id] = term
	}

	buf := vbyte.Encode(uint64(n))
	for _, term := range terms {
		buf = vbyte.AppendEncode(buf, uint64(len(term)))
		buf = append(buf, term...)
	}
	return buf
}

func decodeTermMapping(buf []byte) (map[string]uint32, error) {
	count, n := vbyte.Decode(buf)
	if n == 0 {
		return nil, fmt.Errorf("%w: term mapping count", ErrCorruptFile)
	}
	buf = buf[n:]

	out := make(map[string]uint32, count)
	for id := uint64(0); id < count; id++ {
		length, n := vbyte.Decode(buf)
		if n == 0 || uint64(len(buf)-n) < length {
			return nil, fmt.Errorf("%w: term mapping entry %d", ErrCorruptFile, id)
		}
		buf = buf[n:]
		out[string(buf[:length])] = uint32(id)
		buf = buf[length:]
	}
	return out, nil
}

// encodeInvertedIndex serializes every posting list in term-id order:
// evicted flag, length-prefixed encoded doc-id stream, then the raw RLE
// term-frequency runs.
func encodeInvertedIndex(idx *partition.Index) []byte {
	n := idx.Postings.Len()
	buf := vbyte.Encode(uint64(n))
	for id := 0; id < n; id++ {
		list := idx.Postings.Get(uint32(id))

		if list.Evicted() {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}

		encoded := list.EncodedDocIDs()
		buf = vbyte.AppendEncode(buf, uint64(len(encoded)))
		buf = append(buf, encoded...)

		runs := list.TermFreqRuns()
		buf = vbyte.AppendEncode(buf, uint64(len(runs)))
		for _, r := range runs {
			buf = append(buf, byte(r.Count), byte(r.Count>>8), r.Value)
		}
	}
	return buf
}

func decodeInvertedIndex(buf []byte) (*postings.Store, error) {
	count, n := vbyte.Decode(buf)
	if n == 0 {
		return nil, fmt.Errorf("%w: inverted index count", ErrCorruptFile)
	}
	buf = buf[n:]

	store := postings.NewStore()
	for id := uint64(0); id < count; id++ {
		if len(buf) < 1 {
			return nil, fmt.Errorf("%w: posting %d: missing evicted flag", ErrCorruptFile, id)
		}
		evicted := buf[0] == 1
		buf = buf[1:]

		encLen, n := vbyte.Decode(buf)
		if n == 0 || uint64(len(buf)-n) < encLen {
			return nil, fmt.Errorf("%w: posting %d: doc-id length", ErrCorruptFile, id)
		}
		buf = buf[n:]
		encoded := buf[:encLen]
		buf = buf[encLen:]

		df, deltas, err := postings.ParseEncodedDocIDs(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: posting %d: %v", ErrCorruptFile, id, err)
		}

		runCount, n := vbyte.Decode(buf)
		if n == 0 {
			return nil, fmt.Errorf("%w: posting %d: run count", ErrCorruptFile, id)
		}
		buf = buf[n:]

		runs := make(rle.Sequence, 0, runCount)
		for i := uint64(0); i < runCount; i++ {
			if len(buf) < 3 {
				return nil, fmt.Errorf("%w: posting %d: truncated run %d", ErrCorruptFile, id, i)
			}
			count16 := uint16(buf[0]) | uint16(buf[1])<<8
			value := buf[2]
			runs = append(runs, rle.Run{Count: count16, Value: value})
			buf = buf[3:]
		}

		list := postings.FromParts(df, deltas, runs, evicted)
		store.SetAt(uint32(id), list)
	}
	return store, nil
}

// encodeUint16Vector vbyte-compresses a uint16 vector (doc_sizes) behind a
// count prefix.
func encodeUint16Vector(vs []uint16) []byte {
	wide := make([]uint64, len(vs))
	for i, v := range vs {
		wide[i] = uint64(v)
	}
	buf := vbyte.Encode(uint64(len(vs)))
	return append(buf, vbyte.EncodeSlice(wide)...)
}

func decodeUint16Vector(buf []byte) ([]uint16, error) {
	count, n := vbyte.Decode(buf)
	if n == 0 {
		return nil, fmt.Errorf("%w: vector count", ErrCorruptFile)
	}
	wide, err := vbyte.DecodeSlice(buf[n:], int(count))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	out := make([]uint16, len(wide))
	for i, v := range wide {
		out[i] = uint16(v)
	}
	return out, nil
}

// encodeUint64Vector vbyte-compresses a uint64 vector (line_offsets)
// behind a count prefix. A nil slice (in-memory corpora have no source
// file to seek into) encodes as count 0.
func encodeUint64Vector(vs []uint64) []byte {
	buf := vbyte.Encode(uint64(len(vs)))
	return append(buf, vbyte.EncodeSlice(vs)...)
}

func decodeUint64Vector(buf []byte) ([]uint64, error) {
	count, n := vbyte.Decode(buf)
	if n == 0 {
		return nil, fmt.Errorf("%w: vector count", ErrCorruptFile)
	}
	if count == 0 {
		return nil, nil
	}
	vs, err := vbyte.DecodeSlice(buf[n:], int(count))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	return vs, nil
}
