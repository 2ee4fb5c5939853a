// Package ingest implements corpus partitioning and the per-partition
// tokenization pass: splitting a CSV/JSON file or an in-memory document
// slice into N record-aligned partitions and indexing each on its own
// goroutine, joined with golang.org/x/sync/errgroup.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/jinterlante/bm25engine/internal/config"
	"github.com/jinterlante/bm25engine/internal/extract"
	"github.com/jinterlante/bm25engine/internal/metrics"
	"github.com/jinterlante/bm25engine/internal/partition"
	"github.com/jinterlante/bm25engine/internal/progress"
	"github.com/jinterlante/bm25engine/internal/tokenize"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a Build: one frozen partition.Index per
// worker, plus the totals the scoring layer needs that are only known
// once every partition has finished.
type Result struct {
	Partitions []*partition.Index
	NumDocs    uint64

	// InMemoryRanges holds each partition's [lo, hi) slice of cfg.Documents,
	// letting a caller reconstruct a record from (partitionID, docID)
	// without a source file to seek into. Nil for file-backed corpora.
	InMemoryRanges [][2]int

	// CSVHeader holds the parsed column names, non-nil only for CSV
	// corpora.
	CSVHeader []string
}

// Build partitions cfg's corpus across cfg.NumPartitions workers and
// indexes each partition concurrently. rep may be nil (callers get
// progress.NewSilent() for non-interactive use).
func Build(ctx context.Context, cfg config.Config, rep *progress.Reporter) (Result, error) {
	ft, err := cfg.FileType()
	if err != nil {
		return Result{}, err
	}
	if rep == nil {
		rep = progress.NewSilent()
	}
	stopWords := cfg.StopWordSet()

	switch ft {
	case config.FileTypeInMemory:
		return buildInMemory(ctx, cfg, stopWords, rep)
	case config.FileTypeCSV:
		return buildFile(ctx, cfg, ft, stopWords, rep)
	case config.FileTypeJSON:
		return buildFile(ctx, cfg, ft, stopWords, rep)
	default:
		return Result{}, fmt.Errorf("ingest: unsupported file type %v", ft)
	}
}

func buildInMemory(ctx context.Context, cfg config.Config, stopWords map[string]bool, rep *progress.Reporter) (Result, error) {
	n := cfg.NumPartitions
	numDocs := uint64(len(cfg.Documents))
	maxDF := resolveMaxDF(cfg.MaxDF, numDocs)

	partitions := make([]*partition.Index, n)
	ranges := make([][2]int, n)
	g, _ := errgroup.WithContext(ctx)
	chunk := (len(cfg.Documents) + n - 1) / n
	if chunk < 1 {
		chunk = 1
	}
	for p := 0; p < n; p++ {
		p := p
		lo := p * chunk
		hi := lo + chunk
		if lo > len(cfg.Documents) {
			lo = len(cfg.Documents)
		}
		if hi > len(cfg.Documents) {
			hi = len(cfg.Documents)
		}
		ranges[p] = [2]int{lo, hi}
		idx := partition.New(p, false)
		partitions[p] = idx
		g.Go(func() error {
			opts := evictingOptions(p, stopWords, maxDF)
			return processInMemory(cfg.Documents, lo, hi, idx, opts, rep, p)
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	res, err := finalize(partitions)
	if err != nil {
		return Result{}, err
	}
	res.InMemoryRanges = ranges
	return res, nil
}

func buildFile(ctx context.Context, cfg config.Config, ft config.FileType, stopWords map[string]bool, rep *progress.Reporter) (Result, error) {
	f, err := os.Open(cfg.Filename)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: opening %s: %w", cfg.Filename, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("ingest: stat %s: %w", cfg.Filename, err)
	}
	fileSize := info.Size()

	var dataStart int64
	var colIdx int
	var csvHeader []string
	if ft == config.FileTypeCSV {
		header, headerLen, err := readFirstLine(f)
		if err != nil {
			return Result{}, fmt.Errorf("ingest: reading header: %w", err)
		}
		csvHeader = extract.CSVHeader(header)
		colIdx = -1
		for i, c := range csvHeader {
			if c == cfg.SearchCol {
				colIdx = i
				break
			}
		}
		if colIdx < 0 {
			return Result{}, fmt.Errorf("%w: column %q", ErrMissingSearchColumn, cfg.SearchCol)
		}
		dataStart = headerLen
	}

	numDocs, err := countRecords(ft, cfg, f, dataStart, fileSize)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: counting records: %w", err)
	}
	maxDF := resolveMaxDF(cfg.MaxDF, numDocs)

	n := cfg.NumPartitions
	ranges, err := computeByteRanges(f, dataStart, fileSize, n)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: computing partition boundaries: %w", err)
	}

	partitions := make([]*partition.Index, n)
	g, _ := errgroup.WithContext(ctx)
	for p := 0; p < n; p++ {
		p := p
		rng := ranges[p]
		idx := partition.New(p, true)
		partitions[p] = idx
		estimate := int(numDocs) / n
		g.Go(func() error {
			opts := evictingOptions(p, stopWords, maxDF)
			switch ft {
			case config.FileTypeCSV:
				return processCSV(f, rng, colIdx, idx, opts, rep, p, estimate)
			case config.FileTypeJSON:
				return processJSON(f, rng, cfg.SearchCol, idx, opts, rep, p, estimate)
			default:
				return fmt.Errorf("ingest: unsupported file type %v", ft)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	res, err := finalize(partitions)
	if err != nil {
		return Result{}, err
	}
	res.CSVHeader = csvHeader
	return res, nil
}

// evictingOptions builds tokenize.Options with an OnEvict hook that
// records the bm25_ingest_terms_evicted_total metric.
func evictingOptions(partitionID int, stopWords map[string]bool, maxDF uint64) tokenize.Options {
	return tokenize.Options{
		StopWords: stopWords,
		MaxDF:     maxDF,
		OnEvict: func(string) {
			metrics.TermsEvictedTotal.WithLabelValues(fmt.Sprint(partitionID)).Inc()
		},
	}
}

func finalize(partitions []*partition.Index) (Result, error) {
	var total uint64
	for _, idx := range partitions {
		idx.Finalize()
		total += idx.NumDocs
	}
	return Result{Partitions: partitions, NumDocs: total}, nil
}

// readFirstLine reads a CSV header line and returns it along with its
// byte length including the trailing newline (the data-region start).
func readFirstLine(f *os.File) ([]byte, int64, error) {
	if _, err := f.Seek(0, 0); err != nil {
		return nil, 0, err
	}
	r := bufio.NewReaderSize(f, 64*1024)
	line, err := r.ReadString('\n')
	if err != nil && len(line) == 0 {
		return nil, 0, err
	}
	trimmed := line
	if len(trimmed) > 0 && trimmed[len(trimmed)-1] == '\n' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if len(trimmed) > 0 && trimmed[len(trimmed)-1] == '\r' {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return []byte(trimmed), int64(len(line)), nil
}
