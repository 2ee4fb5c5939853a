package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jinterlante/bm25engine/internal/extract"
	"github.com/jinterlante/bm25engine/internal/metrics"
	"github.com/jinterlante/bm25engine/internal/partition"
	"github.com/jinterlante/bm25engine/internal/progress"
	"github.com/jinterlante/bm25engine/internal/tokenize"
)

// newLineScanner returns a bufio.Scanner over [start, end) of f, splitting
// on lines and rejecting any single record over maxLineLen.
func newLineScanner(f *os.File, start, end int64) *bufio.Scanner {
	sr := io.NewSectionReader(f, start, end-start)
	sc := bufio.NewScanner(sr)
	sc.Buffer(make([]byte, 64*1024), maxLineLen)
	return sc
}

// processCSV tokenizes every record in rng, extracting column colIdx as
// the searchable text, and indexes it into idx at offset (rng.Start+bytes
// consumed so far).
func processCSV(f *os.File, rng byteRange, colIdx int, idx *partition.Index, opts tokenize.Options, rep *progress.Reporter, partitionID, totalEstimate int) error {
	if rng.End <= rng.Start {
		return nil
	}
	sc := newLineScanner(f, rng.Start, rng.End)
	offset := uint64(rng.Start)
	done := 0
	for sc.Scan() {
		line := sc.Bytes()
		recordStart := offset
		offset += uint64(len(line)) + 1

		field, err := extract.CSVField(line, colIdx)
		if err != nil {
			return fmt.Errorf("%w: partition %d: %v", ErrMalformedRecord, partitionID, err)
		}

		docID := idx.BeginDoc(recordStart)
		size := tokenize.IndexText(idx, docID, field, opts)
		idx.EndDoc(size)

		done++
		metrics.DocsIndexedTotal.WithLabelValues(fmt.Sprint(partitionID)).Inc()
		rep.Update(partitionID, done, totalEstimate, offset-uint64(rng.Start))
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("%w: partition %d", ErrLineTooLong, partitionID)
		}
		return fmt.Errorf("ingest: partition %d: %w", partitionID, err)
	}
	rep.Finish(partitionID, totalEstimate)
	return nil
}

// processJSON tokenizes every newline-delimited JSON record in rng,
// extracting searchKey as the searchable text.
func processJSON(f *os.File, rng byteRange, searchKey string, idx *partition.Index, opts tokenize.Options, rep *progress.Reporter, partitionID, totalEstimate int) error {
	if rng.End <= rng.Start {
		return nil
	}
	sc := newLineScanner(f, rng.Start, rng.End)
	offset := uint64(rng.Start)
	done := 0
	for sc.Scan() {
		line := sc.Bytes()
		recordStart := offset
		offset += uint64(len(line)) + 1
		if len(line) == 0 {
			continue
		}

		field, found, err := extract.JSONField(line, searchKey)
		if err != nil {
			return fmt.Errorf("%w: partition %d: %v", ErrMalformedRecord, partitionID, err)
		}
		if !found {
			return fmt.Errorf("%w: partition %d: key %q", ErrMissingSearchColumn, partitionID, searchKey)
		}

		docID := idx.BeginDoc(recordStart)
		size := tokenize.IndexText(idx, docID, field, opts)
		idx.EndDoc(size)

		done++
		metrics.DocsIndexedTotal.WithLabelValues(fmt.Sprint(partitionID)).Inc()
		rep.Update(partitionID, done, totalEstimate, offset-uint64(rng.Start))
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("%w: partition %d", ErrLineTooLong, partitionID)
		}
		return fmt.Errorf("ingest: partition %d: %w", partitionID, err)
	}
	rep.Finish(partitionID, totalEstimate)
	return nil
}

// processInMemory indexes docs[lo:hi] directly: an in-memory document IS
// its own searchable text, with no extraction step.
func processInMemory(docs []string, lo, hi int, idx *partition.Index, opts tokenize.Options, rep *progress.Reporter, partitionID int) error {
	total := hi - lo
	for i := lo; i < hi; i++ {
		docID := idx.BeginDoc(0)
		size := tokenize.IndexText(idx, docID, []byte(docs[i]), opts)
		idx.EndDoc(size)

		metrics.DocsIndexedTotal.WithLabelValues(fmt.Sprint(partitionID)).Inc()
		rep.Update(partitionID, i-lo+1, total, uint64(len(docs[i])))
	}
	rep.Finish(partitionID, total)
	return nil
}
