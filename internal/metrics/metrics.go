package metrics

import "github.com/prometheus/client_golang/prometheus"

// Application Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blitz",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blitz",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingDimensionFixesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blitz",
			Name:      "embedding_dimension_fixes_total",
			Help:      "Embedding vectors padded or truncated to the configured dimension",
		},
		[]string{"fix"}, // "pad" / "truncate"
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blitz",
			Name:      "generation_requests_total",
			Help:      "Total number of text-generation requests",
		},
		[]string{"model", "status"},
	)

	UpsertTimeoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blitz",
			Name:      "vector_upsert_timeouts_total",
			Help:      "Vector store upserts aborted by the client-side deadline",
		},
	)

	IntentDispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blitz",
			Name:      "intent_dispatches_total",
			Help:      "Workflow executions by classified intent",
		},
		[]string{"intent"},
	)

	// RAGFallbackLookupsTotal counts executions that located a RAG module
	// by scanning the node set instead of following edges. A non-zero
	// rate indicates malformed graphs in production.
	RAGFallbackLookupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blitz",
			Name:      "rag_fallback_lookups_total",
			Help:      "RAG module lookups that used the node-scan fallback instead of edges",
		},
	)

	RAGSoftFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blitz",
			Name:      "rag_soft_failures_total",
			Help:      "RAG retrieval failures swallowed during workflow execution",
		},
	)
)

var appMetricsRegistered bool

// RegisterAppMetrics registers application metrics. Must be called once from main.
func RegisterAppMetrics() {
	if appMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingDimensionFixesTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(UpsertTimeoutsTotal)
	prometheus.MustRegister(IntentDispatchesTotal)
	prometheus.MustRegister(RAGFallbackLookupsTotal)
	prometheus.MustRegister(RAGSoftFailuresTotal)
	appMetricsRegistered = true
}
