package bm25engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jinterlante/bm25engine/internal/metrics"
	"github.com/jinterlante/bm25engine/internal/query"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Result is one ranked match: which partition it came from, its
// partition-local document id, and its BM25 score.
type Result = query.Result

// QueryOptions tunes a single query beyond its text and k.
type QueryOptions struct {
	// MaxDF, if non-zero, caps document frequency tighter than whatever
	// ingestion already baked into eviction.
	MaxDF uint64
}

func (idx *Index) columnBoost() float64 {
	if idx.cfg.ColumnBoosts == nil {
		return 1.0
	}
	if b, ok := idx.cfg.ColumnBoosts[idx.cfg.SearchCol]; ok {
		return b
	}
	return 1.0
}

// Query returns the top-k (partition_id, doc_id, score) matches for text,
// merged across every partition.
func (idx *Index) Query(ctx context.Context, text string, k int, opt ...QueryOptions) ([]Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "bm25engine.Query")
	defer span.End()
	span.SetAttributes(attribute.String("query", text), attribute.Int("k", k))

	start := time.Now()
	results, err := idx.queryOnce(ctx, text, k, singleOpt(opt))
	metrics.QueryLatencySeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.QueriesTotal.WithLabelValues("ok").Inc()
	return results, nil
}

func singleOpt(opt []QueryOptions) QueryOptions {
	if len(opt) > 0 {
		return opt[0]
	}
	return QueryOptions{}
}

func (idx *Index) queryOnce(ctx context.Context, text string, k int, opt QueryOptions) ([]Result, error) {
	stopWords := idx.cfg.StopWordSet()
	boost := idx.columnBoost()

	perPartition := make([][]Result, len(idx.partitions))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range idx.partitions {
		i, p := i, p
		g.Go(func() error {
			perPartition[i] = query.ScorePartition(p, []byte(text), query.Options{
				StopWords:     stopWords,
				MinDF:         idx.cfg.MinDF,
				MaxDFOverride: opt.MaxDF,
				K1:            idx.cfg.K1,
				B:             idx.cfg.B,
				Boost:         boost,
				GlobalN:       idx.numDocs,
				K:             k,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return query.Merge(perPartition, k), nil
}

// QueryBatch runs every query in queries concurrently. Each query fans
// out to every partition on its own, exactly as Query does; the
// partition workers are not shared across the queries of a batch.
func (idx *Index) QueryBatch(ctx context.Context, queries []string, k int, opt ...QueryOptions) ([][]Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "bm25engine.QueryBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch_size", len(queries)), attribute.Int("k", k))

	o := singleOpt(opt)
	out := make([][]Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			results, err := idx.queryOnce(gctx, q, k, o)
			if err != nil {
				return err
			}
			out[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	idx.logger.Debug("bm25engine: batch query complete", slog.Int("batch_size", len(queries)))
	return out, nil
}

// Record is a reconstructed document: ordered (column, value) pairs, with
// a trailing ("score", ...) entry appended.
type Record struct {
	Fields []Field
}

// Field is one (column, value) pair.
type Field struct {
	Name  string
	Value string
}

// GetTopK runs Query and reconstructs each matching document's original
// fields by seeking back into the source (or, for in-memory corpora,
// indexing back into the original document slice).
func (idx *Index) GetTopK(ctx context.Context, text string, k int, opt ...QueryOptions) ([]Record, error) {
	results, err := idx.Query(ctx, text, k, opt...)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(results))
	for i, r := range results {
		rec, err := idx.reconstruct(r)
		if err != nil {
			return nil, fmt.Errorf("bm25engine: reconstructing result %d: %w", i, err)
		}
		rec.Fields = append(rec.Fields, Field{Name: "score", Value: fmt.Sprintf("%g", r.Score)})
		records[i] = rec
	}
	return records, nil
}

// GetTopKBatch runs GetTopK for every query in queries, scoring them
// through QueryBatch.
func (idx *Index) GetTopKBatch(ctx context.Context, queries []string, k int, opt ...QueryOptions) ([][]Record, error) {
	batch, err := idx.QueryBatch(ctx, queries, k, opt...)
	if err != nil {
		return nil, err
	}

	out := make([][]Record, len(batch))
	for qi, results := range batch {
		records := make([]Record, len(results))
		for i, r := range results {
			rec, err := idx.reconstruct(r)
			if err != nil {
				return nil, fmt.Errorf("bm25engine: reconstructing query %d result %d: %w", qi, i, err)
			}
			rec.Fields = append(rec.Fields, Field{Name: "score", Value: fmt.Sprintf("%g", r.Score)})
			records[i] = rec
		}
		out[qi] = records
	}
	return out, nil
}
