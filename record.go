package bm25engine

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jinterlante/bm25engine/internal/config"
	"github.com/jinterlante/bm25engine/internal/partition"
)

// reconstruct rebuilds the original record a Result points at: seeking
// back to its source line for file-backed corpora, or indexing back into
// the in-memory document slice.
func (idx *Index) reconstruct(r Result) (Record, error) {
	if r.PartitionID < 0 || r.PartitionID >= len(idx.partitions) {
		return Record{}, fmt.Errorf("%w: partition %d out of range", ErrIndexUnusable, r.PartitionID)
	}
	p := idx.partitions[r.PartitionID]

	switch idx.fileType {
	case config.FileTypeInMemory:
		return idx.reconstructInMemory(r)
	case config.FileTypeCSV:
		return idx.reconstructCSV(r, p)
	case config.FileTypeJSON:
		return idx.reconstructJSON(r, p)
	default:
		return Record{}, fmt.Errorf("%w: unknown file type", ErrIndexUnusable)
	}
}

// reconstructInMemory indexes back into the document slice Build was
// called with. It only works on a freshly built Index: the original text
// is never persisted, so an Index reloaded via Open cannot answer
// GetTopK for an in-memory corpus.
func (idx *Index) reconstructInMemory(r Result) (Record, error) {
	if len(idx.cfg.Documents) == 0 {
		return Record{}, fmt.Errorf("%w: original documents unavailable (index was reloaded via Open)", ErrIndexUnusable)
	}
	if r.PartitionID >= len(idx.inMemoryRanges) {
		return Record{}, fmt.Errorf("%w: no in-memory range for partition %d", ErrIndexUnusable, r.PartitionID)
	}
	rng := idx.inMemoryRanges[r.PartitionID]
	docIdx := rng[0] + int(r.DocID)
	if docIdx < 0 || docIdx >= rng[1] || docIdx >= len(idx.cfg.Documents) {
		return Record{}, fmt.Errorf("%w: doc id %d out of range for partition %d", ErrIndexUnusable, r.DocID, r.PartitionID)
	}
	return Record{Fields: []Field{{Name: "text", Value: idx.cfg.Documents[docIdx]}}}, nil
}

func (idx *Index) readSourceLine(offset uint64) (string, error) {
	if idx.sourceFile == nil {
		return "", fmt.Errorf("%w: source file not open", ErrIndexUnusable)
	}
	r := io.NewSectionReader(idx.sourceFile, int64(offset), 1<<20)
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func lineOffsetFor(p *partition.Index, docID uint64) (uint64, error) {
	if docID >= uint64(len(p.LineOffsets)) {
		return 0, fmt.Errorf("%w: doc id %d has no recorded line offset in partition %d", ErrIndexUnusable, docID, p.ID)
	}
	return p.LineOffsets[docID], nil
}

func (idx *Index) reconstructCSV(r Result, p *partition.Index) (Record, error) {
	offset, err := lineOffsetFor(p, r.DocID)
	if err != nil {
		return Record{}, err
	}
	line, err := idx.readSourceLine(offset)
	if err != nil {
		return Record{}, err
	}

	cr := csv.NewReader(strings.NewReader(line))
	fields, err := cr.Read()
	if err != nil {
		return Record{}, fmt.Errorf("%w: re-parsing CSV row: %v", ErrIndexUnusable, err)
	}

	rec := Record{Fields: make([]Field, 0, len(fields))}
	for i, v := range fields {
		name := fmt.Sprintf("col_%d", i)
		if i < len(idx.columns) {
			name = idx.columns[i]
		}
		rec.Fields = append(rec.Fields, Field{Name: name, Value: v})
	}
	return rec, nil
}

func (idx *Index) reconstructJSON(r Result, p *partition.Index) (Record, error) {
	offset, err := lineOffsetFor(p, r.DocID)
	if err != nil {
		return Record{}, err
	}
	line, err := idx.readSourceLine(offset)
	if err != nil {
		return Record{}, err
	}

	dec := json.NewDecoder(strings.NewReader(line))
	rec := Record{}
	if _, err := dec.Token(); err != nil { // consume '{'
		return Record{}, fmt.Errorf("%w: re-parsing JSON row: %v", ErrIndexUnusable, err)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Record{}, fmt.Errorf("%w: re-parsing JSON key: %v", ErrIndexUnusable, err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Record{}, fmt.Errorf("%w: re-parsing JSON value: %v", ErrIndexUnusable, err)
		}
		rec.Fields = append(rec.Fields, Field{Name: key, Value: rawJSONToString(raw)})
	}
	return rec, nil
}

func rawJSONToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
