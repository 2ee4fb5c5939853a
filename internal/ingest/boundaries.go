package ingest

import (
	"bufio"
	"io"
	"os"
)

// maxLineLen caps a single record at 1 MiB; beyond that the corpus is
// considered pathological and ingestion fails fatally rather than
// buffering unbounded memory per line.
const maxLineLen = 1 << 20

// byteRange is a half-open [Start, End) span of a file, always aligned to
// a record boundary: Start is either 0, dataStart, or immediately after a
// '\n' found by snapLineBoundary, and End is the next partition's Start
// (or the file size for the last partition).
type byteRange struct {
	Start, End int64
}

// computeByteRanges splits [dataStart, fileSize) into n roughly equal
// byte ranges, snapping every internal split point forward to the next
// newline so no partition begins or ends mid-record: each partition
// holds a disjoint, record-aligned byte range. Ranges may be empty near
// the end of a small file; callers skip those.
func computeByteRanges(f *os.File, dataStart, fileSize int64, n int) ([]byteRange, error) {
	if n < 1 {
		n = 1
	}
	total := fileSize - dataStart
	if total <= 0 {
		ranges := make([]byteRange, n)
		for i := range ranges {
			ranges[i] = byteRange{Start: fileSize, End: fileSize}
		}
		return ranges, nil
	}

	offsets := make([]int64, n+1)
	offsets[0] = dataStart
	offsets[n] = fileSize
	chunk := total / int64(n)
	for i := 1; i < n; i++ {
		target := dataStart + int64(i)*chunk
		if target >= fileSize {
			target = fileSize
		}
		snapped, err := snapLineBoundary(f, target, fileSize)
		if err != nil {
			return nil, err
		}
		// Keep offsets non-decreasing; small files can snap several
		// targets to the same boundary, which just yields empty ranges.
		if snapped < offsets[i-1] {
			snapped = offsets[i-1]
		}
		offsets[i] = snapped
	}

	ranges := make([]byteRange, n)
	for i := 0; i < n; i++ {
		ranges[i] = byteRange{Start: offsets[i], End: offsets[i+1]}
	}
	return ranges, nil
}

// snapLineBoundary returns the offset of the first byte after the next
// '\n' at or after target, or fileSize if none is found.
func snapLineBoundary(f *os.File, target, fileSize int64) (int64, error) {
	if target >= fileSize {
		return fileSize, nil
	}
	r := io.NewSectionReader(f, target, fileSize-target)
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return fileSize, nil
		}
		if err != nil {
			return 0, err
		}
		target++
		if b == '\n' {
			return target, nil
		}
	}
}

// countLines counts '\n'-terminated records in [start, end) of f. A
// final record with no trailing newline counts too, matching how the
// worker loop treats EOF.
func countLines(f *os.File, start, end int64) (uint64, error) {
	if end <= start {
		return 0, nil
	}
	r := io.NewSectionReader(f, start, end-start)
	br := bufio.NewReaderSize(r, 256*1024)
	var count uint64
	var sawAnyByte bool
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		sawAnyByte = true
		if b == '\n' {
			count++
			sawAnyByte = false
		}
	}
	if sawAnyByte {
		count++
	}
	return count, nil
}
