package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlas",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes request latency by route
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "atlas",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LLMRequestsTotal counts model calls by operation and outcome
	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlas",
		Name:      "llm_requests_total",
		Help:      "LLM calls by operation (chat, process, transcribe) and outcome.",
	}, []string{"operation", "outcome"})

	// LLMRequestDuration observes model call latency
	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "atlas",
		Name:      "llm_request_duration_seconds",
		Help:      "LLM call latency by operation.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 90},
	}, []string{"operation"})

	// DocumentUploadsTotal counts uploads by outcome
	DocumentUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlas",
		Name:      "document_uploads_total",
		Help:      "Document uploads by outcome (accepted, rejected, failed).",
	}, []string{"outcome"})

	// DocumentUploadBytes observes accepted upload sizes
	DocumentUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "atlas",
		Name:      "document_upload_bytes",
		Help:      "Size of accepted document uploads.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 9),
	})

	// WebhookDeliveriesTotal counts inbound webhook deliveries by source and outcome
	WebhookDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlas",
		Name:      "webhook_deliveries_total",
		Help:      "Inbound webhook deliveries by source and outcome.",
	}, []string{"source", "outcome"})

	// MagicLinksTotal counts magic-link requests by outcome
	MagicLinksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlas",
		Name:      "magic_links_total",
		Help:      "Magic-link events by outcome (sent, skipped, error, invalid, verified).",
	}, []string{"outcome"})
)

// ObserveLLM records one model call
func ObserveLLM(operation string, seconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	LLMRequestsTotal.WithLabelValues(operation, outcome).Inc()
	LLMRequestDuration.WithLabelValues(operation).Observe(seconds)
}
