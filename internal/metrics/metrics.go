// Package metrics defines the Prometheus metrics exported by docvault.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docvault"

// Query result labels.
const (
	ResultAnswered = "answered"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Pipeline Prometheus metrics.
var (
	ChunksIndexedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_indexed_total",
			Help:      "Total number of chunks embedded and inserted into the vector store",
		},
	)

	ChunkEmbedFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_embed_failures_total",
			Help:      "Total number of chunks skipped during ingestion because embedding or insert failed",
		},
	)

	ItemDeleteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_delete_failures_total",
			Help:      "Total number of vector store items that could not be deleted",
		},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of questions answered, by outcome",
		},
		[]string{"result"}, // "answered" / "not_found" / "error"
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Generation request duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	DocumentsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents_loaded",
			Help:      "Number of documents currently loaded",
		},
	)
)

var registerOnce sync.Once

// Register registers every docvault metric with the default registry.
// Calling it more than once is a no-op.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ChunksIndexedTotal,
			ChunkEmbedFailuresTotal,
			ItemDeleteFailuresTotal,
			QueriesTotal,
			EmbeddingRequestDuration,
			GenerationRequestDuration,
			DocumentsLoaded,
		)
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveEmbedding records the duration of an embedding request started at start.
func ObserveEmbedding(provider, model string, start time.Time) {
	EmbeddingRequestDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
}

// ObserveGeneration records the duration of a generation request started at start.
func ObserveGeneration(provider, model string, start time.Time) {
	GenerationRequestDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
}
