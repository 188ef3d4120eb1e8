package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	adminRequestsTotal     *prometheus.CounterVec
	adminLatencySeconds    *prometheus.HistogramVec
	adminErrorsTotal       *prometheus.CounterVec
	approvalDecisions      *prometheus.CounterVec
	applicationsSubmitted  prometheus.Counter
	auditFeedClientsActive prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admissions_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		approvalDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_approval_decisions_total",
			Help: "Application review decisions by resulting status.",
		}, []string{"status"})

		applicationsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admissions_applications_submitted_total",
			Help: "Total number of applications accepted at submission.",
		})

		auditFeedClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "admissions_audit_feed_clients_active",
			Help: "Number of connected live audit feed clients.",
		})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			approvalDecisions,
			applicationsSubmitted,
			auditFeedClientsActive,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ApprovalDecisionsTotal exposes the review decision counter.
func ApprovalDecisionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return approvalDecisions
}

// ApplicationsSubmittedTotal exposes the submission counter.
func ApplicationsSubmittedTotal() prometheus.Counter {
	RegisterMetrics()
	return applicationsSubmitted
}

// AuditFeedClientsActive exposes the live feed client gauge.
func AuditFeedClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return auditFeedClientsActive
}
