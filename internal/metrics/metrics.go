// Package metrics provides Prometheus metrics for wikicurious.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wikicurious"

var (
	// UpstreamRequestsTotal counts individual upstream attempts, retries included.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream attempts",
		},
		[]string{"action", "status"},
	)

	// UpstreamRequestDuration measures a single upstream attempt.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream attempts in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	// RateLimitWaitSeconds observes how long callers were held by the limiter.
	RateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rate_limit_wait_seconds",
			Help:      "Time spent waiting for the outbound rate limiter",
			Buckets:   []float64{0, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// GatewayResponsesTotal counts HTTP responses served by the gateway route.
	GatewayResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_responses_total",
			Help:      "Total number of gateway responses by action and status code",
		},
		[]string{"action", "code"},
	)

	// CacheLookupsTotal counts summary cache lookups.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_cache_lookups_total",
			Help:      "Total number of summary cache lookups",
		},
		[]string{"result"},
	)

	// ErrorsTotal counts recorded errors by package and cause.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of errors",
		},
		[]string{"package", "cause"},
	)

	// ArtifactsTotal counts files written (exports, stores).
	ArtifactsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_total",
			Help:      "Total number of artifacts written",
		},
		[]string{"kind"},
	)
)

// RecordUpstream records one upstream attempt.
func RecordUpstream(action, status string, duration float64) {
	UpstreamRequestsTotal.WithLabelValues(action, status).Inc()
	UpstreamRequestDuration.WithLabelValues(action).Observe(duration)
}

// RecordRateLimitWait records a limiter admission.
func RecordRateLimitWait(seconds float64) {
	RateLimitWaitSeconds.Observe(seconds)
}

// RecordGatewayResponse records a response written by the HTTP gateway.
func RecordGatewayResponse(action, code string) {
	GatewayResponsesTotal.WithLabelValues(action, code).Inc()
}

// RecordCacheLookup records a summary cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordError records an error.
func RecordError(pkg, cause string) {
	ErrorsTotal.WithLabelValues(pkg, cause).Inc()
}

// RecordArtifact records a written artifact.
func RecordArtifact(kind string) {
	ArtifactsTotal.WithLabelValues(kind).Inc()
}
