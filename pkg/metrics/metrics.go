// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // promauto collectors register once per process
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinescope_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinescope_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinescope_recommendations_total",
			Help: "Mood recommendation requests by mood",
		},
		[]string{"mood"},
	)

	SentimentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinescope_sentiment_analyses_total",
			Help: "Sentiment analyses by resulting label",
		},
		[]string{"label"},
	)

	AssistantRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinescope_assistant_requests_total",
			Help: "Assistant requests by outcome",
		},
		[]string{"outcome"},
	)

	AssistantDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinescope_assistant_request_duration_seconds",
			Help:    "Latency of hosted model calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinescope_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinescope_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation counts a served mood request.
func RecordRecommendation(mood string) {
	RecommendationsTotal.WithLabelValues(mood).Inc()
}

// RecordSentiment counts an analysis by label.
func RecordSentiment(label string) {
	SentimentTotal.WithLabelValues(label).Inc()
}

// RecordAssistant counts an assistant call by outcome and observes its latency.
func RecordAssistant(outcome string, duration time.Duration) {
	AssistantRequestsTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		AssistantDuration.Observe(duration.Seconds())
	}
}

// SetCircuitBreakerState publishes a breaker state as a number.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// SetCatalogSize publishes the catalog size.
func SetCatalogSize(n int) {
	CatalogMovies.Set(float64(n))
}
