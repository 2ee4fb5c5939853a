// Package metrics exposes Prometheus counters and histograms for the
// engine's ingest and query paths, registered through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocsIndexedTotal counts documents successfully tokenized and added to
	// a partition, labeled by partition id.
	DocsIndexedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bm25",
		Subsystem: "ingest",
		Name:      "docs_indexed_total",
		Help:      "Total documents indexed, by partition",
	}, []string{"partition"})

	// TermsEvictedTotal counts terms evicted once their document frequency
	// crossed max_df, labeled by partition id.
	TermsEvictedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bm25",
		Subsystem: "ingest",
		Name:      "terms_evicted_total",
		Help:      "Total terms evicted for exceeding max_df, by partition",
	}, []string{"partition"})

	// BuildDurationSeconds measures end-to-end corpus build time.
	BuildDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bm25",
		Subsystem: "ingest",
		Name:      "build_duration_seconds",
		Help:      "Wall-clock time to build an index from a corpus",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})

	// QueriesTotal counts queries served, labeled by status (ok, error).
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bm25",
		Subsystem: "query",
		Name:      "queries_total",
		Help:      "Total queries served, by status",
	}, []string{"status"})

	// QueryLatencySeconds measures per-query latency across all partitions.
	QueryLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bm25",
		Subsystem: "query",
		Name:      "latency_seconds",
		Help:      "End-to-end query latency across all partitions",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)
