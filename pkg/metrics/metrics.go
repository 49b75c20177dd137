package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	docflow = "docflow"

	// Job metrics
	jobsCreatedTotal = "batch_jobs_created_total"
	JobStatusCount   = "batch_job_status_count"

	// Document metrics
	documentsReviewedTotal = "documents_reviewed_total"

	// Labels
	jobStateLabel      = "state"
	reviewOutcomeLabel = "outcome"
)

var jobStatusCountLabels = []string{
	jobStateLabel,
}

var documentsReviewedTotalLabels = []string{
	reviewOutcomeLabel,
}

/**
* Metrics definition
**/
var jobsCreatedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: docflow,
		Name:      jobsCreatedTotal,
		Help:      "number of batch jobs created",
	},
)

var jobStatusCountMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: docflow,
		Name:      JobStatusCount,
		Help:      "number of batch jobs in each status",
	},
	jobStatusCountLabels,
)

var documentsReviewedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: docflow,
		Name:      documentsReviewedTotal,
		Help:      "number of documents reviewed by the batch worker",
	},
	documentsReviewedTotalLabels,
)

func IncreaseJobsCreatedTotalMetric() {
	jobsCreatedTotalMetric.Inc()
}

func UpdateJobStatusCountMetric(state string, count int) {
	labels := prometheus.Labels{
		jobStateLabel: state,
	}
	jobStatusCountMetric.With(labels).Set(float64(count))
}

func IncreaseDocumentsReviewedTotalMetric(outcome string) {
	labels := prometheus.Labels{
		reviewOutcomeLabel: outcome,
	}
	documentsReviewedTotalMetric.With(labels).Inc()
}

func RegisterMetrics() {
	prometheus.MustRegister(jobsCreatedTotalMetric)
	prometheus.MustRegister(jobStatusCountMetric)
	prometheus.MustRegister(documentsReviewedTotalMetric)
}
