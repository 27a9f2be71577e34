package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	DocumentDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_decisions_total",
			Help: "Validation decisions by document category and outcome",
		},
		[]string{"category", "outcome"},
	)

	RejectionReasons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_rejection_reasons_total",
			Help: "Issue kinds reported on rejected documents",
		},
		[]string{"category", "kind"},
	)

	RegistryCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificate_registry_cache_lookups_total",
			Help: "Certificate type registry cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordDecision counts one validation decision and its issue kinds.
func RecordDecision(category, outcome string, kinds []string) {
	DocumentDecisions.WithLabelValues(category, outcome).Inc()
	for _, kind := range kinds {
		RejectionReasons.WithLabelValues(category, kind).Inc()
	}
}
