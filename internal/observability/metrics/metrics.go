package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barber_booking_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "barber_booking_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	bookingOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barber_booking_booking_operations_total",
		Help: "Booking transactions by operation and result",
	}, []string{"operation", "result"})

	bookingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "barber_booking_booking_duration_seconds",
		Help:    "Duration of booking transactions",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barber_booking_notifications_total",
		Help: "Notification attempts by kind and result",
	}, []string{"kind", "result"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barber_booking_cache_lookups_total",
		Help: "Cache lookups by cache name and result",
	}, []string{"cache", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveBooking records a create/update/delete transaction. result is
// "ok" or the business error code.
func ObserveBooking(operation, result string, duration time.Duration) {
	bookingOperations.WithLabelValues(operation, result).Inc()
	bookingDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func ObserveNotification(kind, result string) {
	notificationsSent.WithLabelValues(kind, result).Inc()
}

func ObserveCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(cache, result).Inc()
}
