package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors the service exports.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec

	RequestsSubmitted prometheus.Counter
	ReviewDecisions   *prometheus.CounterVec
	PayoutsConfirmed  prometheus.Counter
}

// New registers the collectors on reg and returns them. A nil registerer gets
// a throwaway local registry, which keeps tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "srp_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),

		HTTPRequestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "srp_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),

		RequestsSubmitted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "srp_requests_submitted_total",
			Help: "Total number of SRP requests submitted.",
		}),

		ReviewDecisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "srp_review_decisions_total",
			Help: "Total number of review decisions by outcome.",
		}, []string{"decision"}),

		PayoutsConfirmed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "srp_payouts_confirmed_total",
			Help: "Total number of payouts marked paid.",
		}),
	}
}
