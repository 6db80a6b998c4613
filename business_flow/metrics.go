package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Completed audits partitioned by target kind and persistence outcome
	auditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_audits_total",
			Help: "Total number of completed SEO audits",
		},
		[]string{"target_kind", "persisted"},
	)

	// Analyzer failures partitioned by section
	analyzerFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_analyzer_failures_total",
			Help: "Total number of analyzer failures recovered during audits",
		},
		[]string{"section"},
	)

	// Audit duration in seconds partitioned by target kind
	auditDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seo_audit_duration_seconds",
			Help:    "SEO audit latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target_kind"},
	)
)
