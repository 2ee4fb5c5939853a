// Package bm25engine builds and queries a partitioned, in-process BM25
// full-text index over CSV, newline-delimited JSON, or in-memory
// document batches. Ingestion shards the corpus into N byte- or
// index-range partitions, each tokenized and scored by its own worker;
// a coordinator merges per-partition top-k results into one ranked
// answer.
package bm25engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jinterlante/bm25engine/internal/config"
	"github.com/jinterlante/bm25engine/internal/ingest"
	"github.com/jinterlante/bm25engine/internal/metrics"
	"github.com/jinterlante/bm25engine/internal/partition"
	"github.com/jinterlante/bm25engine/internal/persist"
	"github.com/jinterlante/bm25engine/internal/progress"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "bm25engine"

// Index is a built or reloaded engine instance: one partition.Index per
// worker, plus the global scalars (num_docs, k1, b, min_df, max_df) that
// scoring needs.
type Index struct {
	cfg        config.Config
	partitions []*partition.Index
	numDocs    uint64
	fileType   config.FileType
	columns    []string

	inMemoryRanges [][2]int
	sourceFile     *os.File

	logger *slog.Logger
}

// Option configures Build or Open.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	reporter *progress.Reporter
}

// WithLogger attaches a structured logger; the zero value uses slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress attaches a terminal progress reporter (see the progress
// package); omit for a silent build.
func WithProgress(r *progress.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

func resolveOptions(opts []Option) options {
	o := options{logger: slog.Default(), reporter: progress.NewSilent()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Build ingests cfg's corpus and returns a ready-to-query Index.
func Build(ctx context.Context, cfg config.Config, opts ...Option) (*Index, error) {
	o := resolveOptions(opts)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "bm25engine.Build")
	defer span.End()
	span.SetAttributes(
		attribute.Int("num_partitions", cfg.NumPartitions),
		attribute.String("filename", cfg.Filename),
	)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ft, err := cfg.FileType()
	if err != nil {
		return nil, err
	}

	o.logger.Info("bm25engine: build starting",
		slog.String("file_type", ft.String()),
		slog.Int("num_partitions", cfg.NumPartitions),
	)

	start := time.Now()
	res, err := ingest.Build(ctx, cfg, o.reporter)
	metrics.BuildDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		o.logger.Error("bm25engine: build failed", slog.String("error", err.Error()))
		return nil, err
	}

	idx := &Index{
		cfg:            cfg,
		partitions:     res.Partitions,
		numDocs:        res.NumDocs,
		fileType:       ft,
		columns:        res.CSVHeader,
		inMemoryRanges: res.InMemoryRanges,
		logger:         o.logger,
	}

	o.logger.Info("bm25engine: build complete",
		slog.Uint64("num_docs", res.NumDocs),
		slog.Int("num_partitions", len(res.Partitions)),
	)
	return idx, nil
}

// Open reloads a previously Persisted index from dir.
func Open(ctx context.Context, dir string, opts ...Option) (*Index, error) {
	o := resolveOptions(opts)

	_, span := otel.Tracer(tracerName).Start(ctx, "bm25engine.Open")
	defer span.End()
	span.SetAttributes(attribute.String("dir", dir))

	partitions, meta, err := persist.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnusable, err)
	}

	idx := &Index{
		cfg: config.Config{
			Filename:      meta.Filename,
			SearchCol:     meta.SearchCol,
			MinDF:         meta.MinDF,
			MaxDF:         meta.MaxDF,
			K1:            meta.K1,
			B:             meta.B,
			NumPartitions: meta.NumPartitions,
			StopWords:     meta.StopWords,
			ColumnBoosts:  meta.ColumnBoosts,
		},
		partitions: partitions,
		numDocs:    meta.NumDocs,
		fileType:   meta.FileType,
		columns:    meta.Columns,
		logger:     o.logger,
	}

	if meta.FileType != config.FileTypeInMemory && meta.Filename != "" {
		f, err := os.Open(meta.Filename)
		if err != nil {
			return nil, fmt.Errorf("%w: reopening source file: %v", ErrIndexUnusable, err)
		}
		idx.sourceFile = f
	}

	o.logger.Info("bm25engine: index opened",
		slog.String("dir", dir),
		slog.Uint64("num_docs", meta.NumDocs),
	)
	return idx, nil
}

// Persist writes idx to dir using an atomic write-then-rename for every file.
func (idx *Index) Persist(dir string) error {
	avgs := make([]float64, len(idx.partitions))
	for i, p := range idx.partitions {
		avgs[i] = p.AvgDocSize
	}
	meta := persist.Metadata{
		NumDocs:       idx.numDocs,
		MinDF:         idx.cfg.MinDF,
		MaxDF:         idx.cfg.MaxDF,
		K1:            idx.cfg.K1,
		B:             idx.cfg.B,
		NumPartitions: len(idx.partitions),
		AvgDocSizes:   avgs,
		FileType:      idx.fileType,
		Filename:      idx.cfg.Filename,
		SearchCol:     idx.cfg.SearchCol,
		Columns:       idx.columns,
		StopWords:     idx.cfg.StopWords,
		ColumnBoosts:  idx.cfg.ColumnBoosts,
	}
	return persist.Save(dir, idx.partitions, meta)
}

// Close releases the reopened source file handle, if any.
func (idx *Index) Close() error {
	if idx.sourceFile != nil {
		return idx.sourceFile.Close()
	}
	return nil
}

// NumDocs returns the global document count across all partitions.
func (idx *Index) NumDocs() uint64 {
	return idx.numDocs
}
