package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for upstream calls.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
	OutcomeMissing = "not_found"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetcode_upstream_requests_total",
			Help: "Total upstream coding-judge calls by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leetcode_upstream_duration_seconds",
			Help:    "Latency of upstream coding-judge calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"source"},
	)

	// CalendarSource counts which strategy produced the calendar; "none"
	// means every strategy came back empty.
	CalendarSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetcode_calendar_source_total",
			Help: "Calendar fetches by the strategy that produced the result",
		},
		[]string{"source"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests served",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
