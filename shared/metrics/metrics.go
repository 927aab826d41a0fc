// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "salon"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Handled HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BookingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_operations_total",
			Help:      "Booking operations by outcome kind.",
		},
		[]string{"operation", "outcome"},
	)

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_transitions_total",
			Help:      "Accepted booking status transitions.",
		},
		[]string{"from", "to"},
	)

	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_lookups_total",
			Help:      "Service catalog cache lookups.",
		},
		[]string{"result"},
	)
)

const (
	OutcomeSuccess = "success"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordBooking counts an operation; outcome is OutcomeSuccess or a failure kind.
func RecordBooking(operation, outcome string) {
	BookingOperations.WithLabelValues(operation, outcome).Inc()
}

func RecordTransition(from, to string) {
	BookingTransitions.WithLabelValues(from, to).Inc()
}

func RecordCacheLookup(hits, misses int) {
	if hits > 0 {
		CatalogCacheLookups.WithLabelValues(CacheHit).Add(float64(hits))
	}

	if misses > 0 {
		CatalogCacheLookups.WithLabelValues(CacheMiss).Add(float64(misses))
	}
}
