package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AuditsCreated   prometheus.Counter
	AuditsCommitted prometheus.Counter
	AuditsDeleted   prometheus.Counter
	RoleConflicts   prometheus.Counter
	EmailsQueued    prometheus.Counter
	EmailsSent      prometheus.Counter
	EmailsFailed    prometheus.Counter
	RequestLatency  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AuditsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditdesk_audits_created_total",
			Help: "Total number of audit records created (drafts included)",
		}),
		AuditsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditdesk_audits_committed_total",
			Help: "Total number of drafts committed to the schedule",
		}),
		AuditsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditdesk_audits_deleted_total",
			Help: "Total number of draft audits deleted",
		}),
		RoleConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditdesk_role_conflicts_total",
			Help: "Total number of assignment checks that reported a role conflict",
		}),
		EmailsQueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditdesk_outbox_emails_queued_total",
			Help: "Total number of emails enqueued in the outbox",
		}),
		EmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditdesk_outbox_emails_sent_total",
			Help: "Total number of outbox emails handed to the broker",
		}),
		EmailsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditdesk_outbox_emails_failed_total",
			Help: "Total number of outbox emails that exhausted their retry budget",
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auditdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
