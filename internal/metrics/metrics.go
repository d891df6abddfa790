package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mineaction_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mineaction_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AccessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mineaction_access_decisions_total",
		Help: "Route guard decisions.",
	}, []string{"decision"})

	AuditWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mineaction_audit_writes_total",
		Help: "Audit log writes by entity type, action and result.",
	}, []string{"type", "action", "result"})
)
