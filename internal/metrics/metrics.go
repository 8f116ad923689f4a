package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videocall_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videocall_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	AdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videocall_admissions_total",
			Help: "Room admission attempts by outcome",
		},
		[]string{"result"}, // "admitted", "readmitted" or "rejected"
	)

	ReleasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videocall_releases_total",
			Help: "Total leave notifications",
		},
	)

	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videocall_tokens_issued_total",
			Help: "Total access tokens handed out",
		},
	)

	IssuanceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videocall_issuance_failures_total",
			Help: "Total access token signing failures",
		},
	)

	IssuanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "videocall_issuance_duration_seconds",
			Help:    "Access token signing duration",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videocall_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videocall_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)

	// Infrastructure metrics
	RedisLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "videocall_redis_latency_seconds",
			Help:    "Redis operation latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05},
		},
	)

	JournalLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videocall_journal_latency_seconds",
			Help:    "Room journal query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1},
		},
		[]string{"backend"}, // "postgres" or "sqlite"
	)
)
