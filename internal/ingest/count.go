package ingest

import (
	"os"

	"github.com/jinterlante/bm25engine/internal/config"
)

// countRecords returns the total number of records a build will process,
// used to resolve a fractional max_df into an absolute threshold before
// any worker starts. max_df always resolves against num_docs, never file
// size, for both CSV and JSON corpora.
func countRecords(ft config.FileType, cfg config.Config, f *os.File, dataStart, fileSize int64) (uint64, error) {
	if ft == config.FileTypeInMemory {
		return uint64(len(cfg.Documents)), nil
	}
	return countLines(f, dataStart, fileSize)
}

// resolveMaxDF turns cfg.MaxDF into an absolute document-frequency
// threshold. Values below 2 are treated as a fraction of numDocs;
// values of 2 or greater are already an absolute count.
func resolveMaxDF(maxDF float64, numDocs uint64) uint64 {
	if maxDF < 2 {
		return uint64(maxDF * float64(numDocs))
	}
	return uint64(maxDF)
}
