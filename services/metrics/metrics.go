// Package metrics exposes Prometheus collectors for the booking desk.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "narration_desk"

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Lifecycle operations by action and result.",
	}, []string{"action", "result"})

	inquiryParseSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "inquiry_parse_seconds",
		Help:      "Time spent extracting booking fields from inquiries.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route and status code class.",
	}, []string{"method", "route", "code"})
)

// ObserveTransition counts one lifecycle operation. result is "ok", "rejected", "conflict" or "error".
func ObserveTransition(action, result string) {
	transitionsTotal.WithLabelValues(action, result).Inc()
}

// ObserveInquiryParse records how long one inquiry extraction took.
func ObserveInquiryParse(seconds float64) {
	inquiryParseSeconds.Observe(seconds)
}

// ObserveHTTP counts one served request.
func ObserveHTTP(method, route, code string) {
	httpRequestsTotal.WithLabelValues(method, route, code).Inc()
}
