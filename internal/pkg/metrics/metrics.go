package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursedesk_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursedesk_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ProviderRequestsTotal counts calls to the group provider; result is ok, server_error, error or open
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursedesk_provider_requests_total",
			Help: "Group provider calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	InvitationOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursedesk_invitation_outcomes_total",
			Help: "Participant invitation outcomes (ADDED, INVITE_LINK_READY, FAILED)",
		},
		[]string{"status"},
	)

	GroupsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursedesk_groups_cache_lookups_total",
			Help: "Group listing cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coursedesk_circuit_breaker_state",
			Help: "Circuit breaker state per dependency",
		},
		[]string{"name"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursedesk_login_attempts_total",
			Help: "Admin login attempts by result",
		},
		[]string{"result"},
	)
)
