// Package persist implements the on-disk layout: one directory holding
// four files per partition (unique_term_mapping.bin_<p>,
// inverted_index.bin_<p>, doc_sizes.bin_<p>, line_offsets.bin_<p>) plus a
// single metadata.bin of global scalars, matching the layout named by
// the engine's persistence requirements. Writes go through a
// write-then-rename helper so a reader never observes a half-written
// generation.
package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jinterlante/bm25engine/internal/partition"
)

func termMappingPath(dir string, p int) string {
	return filepath.Join(dir, fmt.Sprintf("unique_term_mapping.bin_%d", p))
}

func invertedIndexPath(dir string, p int) string {
	return filepath.Join(dir, fmt.Sprintf("inverted_index.bin_%d", p))
}

func docSizesPath(dir string, p int) string {
	return filepath.Join(dir, fmt.Sprintf("doc_sizes.bin_%d", p))
}

func lineOffsetsPath(dir string, p int) string {
	return filepath.Join(dir, fmt.Sprintf("line_offsets.bin_%d", p))
}

func metadataPath(dir string) string {
	return filepath.Join(dir, "metadata.bin")
}

// Save writes every partition and the given Metadata to dir, creating it
// if necessary.
func Save(dir string, partitions []*partition.Index, meta Metadata) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: creating %s: %w", dir, err)
	}

	for _, idx := range partitions {
		if err := writeFileAtomic(termMappingPath(dir, idx.ID), encodeTermMapping(idx)); err != nil {
			return err
		}
		if err := writeFileAtomic(invertedIndexPath(dir, idx.ID), encodeInvertedIndex(idx)); err != nil {
			return err
		}
		if err := writeFileAtomic(docSizesPath(dir, idx.ID), encodeUint16Vector(idx.DocSizes)); err != nil {
			return err
		}
		if err := writeFileAtomic(lineOffsetsPath(dir, idx.ID), encodeUint64Vector(idx.LineOffsets)); err != nil {
			return err
		}
	}

	return writeFileAtomic(metadataPath(dir), encodeMetadata(meta))
}

// Load reconstructs every partition and the global Metadata from dir.
func Load(dir string) ([]*partition.Index, Metadata, error) {
	metaBytes, err := os.ReadFile(metadataPath(dir))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("persist: reading metadata: %w", err)
	}
	meta, err := decodeMetadata(metaBytes)
	if err != nil {
		return nil, Metadata{}, err
	}

	partitions := make([]*partition.Index, meta.NumPartitions)
	for p := 0; p < meta.NumPartitions; p++ {
		idx, err := loadPartition(dir, p)
		if err != nil {
			return nil, Metadata{}, err
		}
		if p < len(meta.AvgDocSizes) {
			idx.AvgDocSize = meta.AvgDocSizes[p]
		}
		partitions[p] = idx
	}

	return partitions, meta, nil
}

func loadPartition(dir string, p int) (*partition.Index, error) {
	termBytes, err := os.ReadFile(termMappingPath(dir, p))
	if err != nil {
		return nil, fmt.Errorf("persist: reading term mapping %d: %w", p, err)
	}
	termToID, err := decodeTermMapping(termBytes)
	if err != nil {
		return nil, fmt.Errorf("persist: term mapping %d: %w", p, err)
	}

	invBytes, err := os.ReadFile(invertedIndexPath(dir, p))
	if err != nil {
		return nil, fmt.Errorf("persist: reading inverted index %d: %w", p, err)
	}
	store, err := decodeInvertedIndex(invBytes)
	if err != nil {
		return nil, fmt.Errorf("persist: inverted index %d: %w", p, err)
	}

	sizeBytes, err := os.ReadFile(docSizesPath(dir, p))
	if err != nil {
		return nil, fmt.Errorf("persist: reading doc sizes %d: %w", p, err)
	}
	docSizes, err := decodeUint16Vector(sizeBytes)
	if err != nil {
		return nil, fmt.Errorf("persist: doc sizes %d: %w", p, err)
	}

	offsetBytes, err := os.ReadFile(lineOffsetsPath(dir, p))
	if err != nil {
		return nil, fmt.Errorf("persist: reading line offsets %d: %w", p, err)
	}
	lineOffsets, err := decodeUint64Vector(offsetBytes)
	if err != nil {
		return nil, fmt.Errorf("persist: line offsets %d: %w", p, err)
	}

	idx := partition.FromParts(p, termToID, store, docSizes, lineOffsets)
	return idx, nil
}
