package metrics_test

import (
	"salon/shared/metrics"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	counter := metrics.HTTPRequestsTotal.WithLabelValues("POST", "/v1/bookings", "201")
	before := testutil.ToFloat64(counter)

	metrics.RecordHTTPRequest("POST", "/v1/bookings", 201, 15*time.Millisecond)

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0)
}

func TestRecordBookingAndTransition(t *testing.T) {
	created := metrics.BookingOperations.WithLabelValues("create", "BOOKING_CONFLICT")
	before := testutil.ToFloat64(created)

	metrics.RecordBooking("create", "BOOKING_CONFLICT")
	assert.InDelta(t, before+1, testutil.ToFloat64(created), 0)

	transition := metrics.BookingTransitions.WithLabelValues("PENDING", "CONFIRMED")
	before = testutil.ToFloat64(transition)

	metrics.RecordTransition("PENDING", "CONFIRMED")
	assert.InDelta(t, before+1, testutil.ToFloat64(transition), 0)
}

func TestRecordCacheLookup(t *testing.T) {
	hits := metrics.CatalogCacheLookups.WithLabelValues(metrics.CacheHit)
	misses := metrics.CatalogCacheLookups.WithLabelValues(metrics.CacheMiss)
	hitsBefore, missesBefore := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	metrics.RecordCacheLookup(2, 0)

	assert.InDelta(t, hitsBefore+2, testutil.ToFloat64(hits), 0)
	assert.InDelta(t, missesBefore, testutil.ToFloat64(misses), 0)
}
