// Package metrics holds the Prometheus instruments for the gateway. They are
// registered on the default registry and exposed through /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled inbound requests by method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_http_requests_total",
		Help: "Inbound HTTP requests handled by the gateway.",
	}, []string{"method", "status"})

	// ProviderCalls counts outbound calls to the video provider. Operation is
	// "generate" or "status", outcome is "success", "error" or "timeout".
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_provider_calls_total",
		Help: "Outbound calls to the avatar video provider.",
	}, []string{"operation", "outcome"})

	// ProviderLatency tracks outbound call duration per operation.
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_provider_call_seconds",
		Help:    "Latency of outbound provider calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// TrackedRequests reports the number of records held by the registry.
	TrackedRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_tracked_requests",
		Help: "Video generation requests tracked in the in-memory registry.",
	})
)
