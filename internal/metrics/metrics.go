// Package metrics registers the Prometheus instruments for messmate.
// Everything is registered via promauto on the default registry and
// exposed by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route pattern and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messmate_http_requests_total",
		Help: "HTTP requests processed, by route and status code.",
	}, []string{"route", "status"})

	// RequestDuration observes HTTP request latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "messmate_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// SettlementRuns counts completed settlement computations.
	SettlementRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messmate_settlement_runs_total",
		Help: "Settlement computations that produced rows.",
	})

	// SettlementFailures counts settlement computations rejected with
	// zero recorded meals.
	SettlementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messmate_settlement_failures_total",
		Help: "Settlement computations rejected (no meals recorded).",
	})
)
