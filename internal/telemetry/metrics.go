package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus counters for invoice creation.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	checkouts        *prometheus.CounterVec
	checkoutDuration *prometheus.HistogramVec
	compensations    *prometheus.CounterVec
	bookingWarnings  prometheus.Counter
	httpRequests     *prometheus.CounterVec
}

// NewMetrics registers and returns the billing metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_billing_checkouts_total",
		Help: "Invoice submissions by persistence path and outcome.",
	}, []string{"path", "outcome"})

	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_billing_checkout_duration_seconds",
		Help:    "Invoice submission latency by persistence path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_billing_compensations_total",
		Help: "Compensating actions run after a failed fallback checkout, by step and result.",
	}, []string{"step", "result"})

	bookingWarnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_billing_booking_update_failures_total",
		Help: "Invoices persisted whose booking status update failed.",
	})

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_billing_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	reg.MustRegister(checkouts, checkoutDuration, compensations, bookingWarnings, httpRequests)

	return &Metrics{
		checkouts:        checkouts,
		checkoutDuration: checkoutDuration,
		compensations:    compensations,
		bookingWarnings:  bookingWarnings,
		httpRequests:     httpRequests,
	}
}

// RecordCheckout counts a finished submission
func (m *Metrics) RecordCheckout(path, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(path, outcome).Inc()
	m.checkoutDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// RecordCompensation counts one rollback action
func (m *Metrics) RecordCompensation(step string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.compensations.WithLabelValues(step, result).Inc()
}

// RecordBookingWarning counts a failed best-effort booking update
func (m *Metrics) RecordBookingWarning() {
	if m == nil {
		return
	}
	m.bookingWarnings.Inc()
}

// RecordRequest counts an HTTP request
func (m *Metrics) RecordRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
