package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// DefaultAddressChanges counts default-address mutations by operation (set, clear, create) and outcome.
	DefaultAddressChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "address_default_changes_total",
			Help: "Default address mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	OrdersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Order submissions by outcome",
		},
		[]string{"outcome"},
	)

	LocationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_cache_lookups_total",
			Help: "Location directory cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// Outcome labels shared by the domain counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)
