package generation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_generation_requests_total",
			Help: "Total number of requests sent to the generation provider.",
		},
		[]string{"operation", "provider", "status"},
	)
	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adventure_generation_duration_seconds",
			Help:    "Histogram of generation request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "provider"},
	)
	promptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adventure_generation_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(50, 50, 20),
		},
		[]string{"provider"},
	)
	imageCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_image_cache_total",
			Help: "Image cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Request statuses.
const (
	statusSuccess = "success"
	statusError   = "error"
	statusEmpty   = "error_empty_response"
)

// observe records the outcome of one provider call started at start.
func observe(operation, provider, status string, start time.Time) {
	generationRequestsTotal.With(prometheus.Labels{"operation": operation, "provider": provider, "status": status}).Inc()
	if status == statusSuccess {
		generationDuration.With(prometheus.Labels{"operation": operation, "provider": provider}).Observe(time.Since(start).Seconds())
	}
}
