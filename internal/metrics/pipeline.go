// Package metrics exposes Prometheus metrics for the HTTP layer and the document pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "documind"

// External services observed by ObserveExternalCall.
const (
	ServiceEmbedding  = "embedding"
	ServiceGeneration = "generation"
)

// Outcomes of ingestion and query runs.
const (
	OutcomeSuccess       = "success"
	OutcomeError         = "error"
	OutcomeUnsupported   = "unsupported"
	OutcomeNotConfigured = "not_configured"
	OutcomeNothingFound  = "nothing_found"
	OutcomeAnswered      = "answered"
	OutcomeFailed        = "failed"
)

var (
	externalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_requests_total",
			Help:      "Total number of calls to embedding and generative model endpoints",
		},
		[]string{"service", "model", "status"},
	)

	externalRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_request_duration_seconds",
			Help:      "Duration of calls to embedding and generative model endpoints",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service", "model"},
	)

	documentsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_ingested_total",
			Help:      "Uploaded documents by ingestion outcome",
		},
		[]string{"outcome"},
	)

	chunksIndexedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_indexed_total",
			Help:      "Chunks added to the vector index",
		},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Answered questions by outcome",
		},
		[]string{"outcome"},
	)

	danglingChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "consistency_dangling_chunks",
			Help:      "Chunks whose embedding id is missing from the vector index at the last check",
		},
	)

	documentsWithoutChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "consistency_documents_without_chunks",
			Help:      "Documents with no chunks at the last check",
		},
	)
)

func init() {
	prometheus.MustRegister(
		externalRequestsTotal,
		externalRequestDuration,
		documentsIngestedTotal,
		chunksIndexedTotal,
		queriesTotal,
		danglingChunks,
		documentsWithoutChunks,
	)
}

// ObserveExternalCall records one call to an embedding or generation endpoint.
func ObserveExternalCall(service, model string, err error, d time.Duration) {
	status := OutcomeSuccess
	if err != nil {
		status = OutcomeError
	}
	externalRequestsTotal.WithLabelValues(service, model, status).Inc()
	externalRequestDuration.WithLabelValues(service, model).Observe(d.Seconds())
}

func DocumentIngested(outcome string, chunks int) {
	documentsIngestedTotal.WithLabelValues(outcome).Inc()
	chunksIndexedTotal.Add(float64(chunks))
}

func QueryAnswered(outcome string) {
	queriesTotal.WithLabelValues(outcome).Inc()
}

// ConsistencyChecked publishes the result of the last consistency check.
func ConsistencyChecked(dangling, orphaned int) {
	danglingChunks.Set(float64(dangling))
	documentsWithoutChunks.Set(float64(orphaned))
}
