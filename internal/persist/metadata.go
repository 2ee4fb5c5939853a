package persist

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jinterlante/bm25engine/internal/config"
	"github.com/jinterlante/bm25engine/internal/vbyte"
)

// Metadata is the single metadata.bin payload: global scalars, per-
// partition averages, and enough corpus shape (file type, filename,
// column list, search column, stop words, boosts) to reopen an index
// without its original Config.
type Metadata struct {
	NumDocs       uint64
	MinDF         int
	MaxDF         float64
	K1, B         float64
	NumPartitions int
	AvgDocSizes   []float64

	FileType     config.FileType
	Filename     string
	SearchCol    string
	Columns      []string
	StopWords    []string
	ColumnBoosts map[string]float64
}

func putFloat64(buf []byte, v float64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	return append(buf, tmp[:]...)
}

func takeFloat64(buf []byte) (float64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, fmt.Errorf("%w: truncated float64", ErrCorruptFile)
	}
	bits := binary.LittleEndian.Uint64(buf[:8])
	return math.Float64frombits(bits), buf[8:], nil
}

func putString(buf []byte, s string) []byte {
	buf = vbyte.AppendEncode(buf, uint64(len(s)))
	return append(buf, s...)
}

func takeString(buf []byte) (string, []byte, error) {
	length, n := vbyte.Decode(buf)
	if n == 0 || uint64(len(buf)-n) < length {
		return "", nil, fmt.Errorf("%w: truncated string", ErrCorruptFile)
	}
	buf = buf[n:]
	return string(buf[:length]), buf[length:], nil
}

func encodeMetadata(m Metadata) []byte {
	buf := vbyte.Encode(m.NumDocs)
	buf = vbyte.AppendEncode(buf, uint64(m.MinDF))
	buf = putFloat64(buf, m.MaxDF)
	buf = putFloat64(buf, m.K1)
	buf = putFloat64(buf, m.B)
	buf = vbyte.AppendEncode(buf, uint64(m.NumPartitions))

	buf = vbyte.AppendEncode(buf, uint64(len(m.AvgDocSizes)))
	for _, v := range m.AvgDocSizes {
		buf = putFloat64(buf, v)
	}

	buf = append(buf, byte(m.FileType))
	buf = putString(buf, m.Filename)
	buf = putString(buf, m.SearchCol)

	buf = vbyte.AppendEncode(buf, uint64(len(m.Columns)))
	for _, c := range m.Columns {
		buf = putString(buf, c)
	}

	buf = vbyte.AppendEncode(buf, uint64(len(m.StopWords)))
	for _, w := range m.StopWords {
		buf = putString(buf, w)
	}

	buf = vbyte.AppendEncode(buf, uint64(len(m.ColumnBoosts)))
	for k, v := range m.ColumnBoosts {
		buf = putString(buf, k)
		buf = putFloat64(buf, v)
	}

	return buf
}

func decodeMetadata(buf []byte) (Metadata, error) {
	var m Metadata
	var err error

	numDocs, n := vbyte.Decode(buf)
	if n == 0 {
		return m, fmt.Errorf("%w: num_docs", ErrCorruptFile)
	}
	m.NumDocs = numDocs
	buf = buf[n:]

	minDF, n := vbyte.Decode(buf)
	if n == 0 {
		return m, fmt.Errorf("%w: min_df", ErrCorruptFile)
	}
	m.MinDF = int(minDF)
	buf = buf[n:]

	if m.MaxDF, buf, err = takeFloat64(buf); err != nil {
		return m, err
	}
	if m.K1, buf, err = takeFloat64(buf); err != nil {
		return m, err
	}
	if m.B, buf, err = takeFloat64(buf); err != nil {
		return m, err
	}

	numPartitions, n := vbyte.Decode(buf)
	if n == 0 {
		return m, fmt.Errorf("%w: num_partitions", ErrCorruptFile)
	}
	m.NumPartitions = int(numPartitions)
	buf = buf[n:]

	numAvgs, n := vbyte.Decode(buf)
	if n == 0 {
		return m, fmt.Errorf("%w: avg_doc_sizes count", ErrCorruptFile)
	}
	buf = buf[n:]
	m.AvgDocSizes = make([]float64, numAvgs)
	for i := range m.AvgDocSizes {
		if m.AvgDocSizes[i], buf, err = takeFloat64(buf); err != nil {
			return m, err
		}
	}

	if len(buf) < 1 {
		return m, fmt.Errorf("%w: file type", ErrCorruptFile)
	}
	m.FileType = config.FileType(buf[0])
	buf = buf[1:]

	if m.Filename, buf, err = takeString(buf); err != nil {
		return m, err
	}
	if m.SearchCol, buf, err = takeString(buf); err != nil {
		return m, err
	}

	numCols, n := vbyte.Decode(buf)
	if n == 0 {
		return m, fmt.Errorf("%w: columns count", ErrCorruptFile)
	}
	buf = buf[n:]
	m.Columns = make([]string, numCols)
	for i := range m.Columns {
		if m.Columns[i], buf, err = takeString(buf); err != nil {
			return m, err
		}
	}

	numStopWords, n := vbyte.Decode(buf)
	if n == 0 {
		return m, fmt.Errorf("%w: stop words count", ErrCorruptFile)
	}
	buf = buf[n:]
	m.StopWords = make([]string, numStopWords)
	for i := range m.StopWords {
		if m.StopWords[i], buf, err = takeString(buf); err != nil {
			return m, err
		}
	}

	numBoosts, n := vbyte.Decode(buf)
	if n == 0 {
		return m, fmt.Errorf("%w: boosts count", ErrCorruptFile)
	}
	buf = buf[n:]
	if numBoosts > 0 {
		m.ColumnBoosts = make(map[string]float64, numBoosts)
		for i := uint64(0); i < numBoosts; i++ {
			var key string
			var val float64
			if key, buf, err = takeString(buf); err != nil {
				return m, err
			}
			if val, buf, err = takeFloat64(buf); err != nil {
				return m, err
			}
			m.ColumnBoosts[key] = val
		}
	}

	return m, nil
}
