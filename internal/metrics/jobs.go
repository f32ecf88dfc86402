package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(jobsTotal, segmentsTotal, jobDurationSeconds)
}

var jobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "split_jobs_total",
		Help: "Total number of split jobs reaching a terminal state, labeled by outcome.",
	},
	[]string{"status"}, // 'done', 'error'
)

var segmentsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "split_segments_total",
		Help: "Total number of produced segments, labeled by cut mode.",
	},
	[]string{"mode"}, // 'copy', 'encode'
)

var jobDurationSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "split_job_duration_seconds",
		Help:    "End-to-end duration of split jobs.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
	},
)

// IncJob counts one terminal job outcome.
func IncJob(status string) {
	jobsTotal.WithLabelValues(status).Inc()
}

// IncSegment counts one produced segment by cut mode.
func IncSegment(mode string) {
	segmentsTotal.WithLabelValues(mode).Inc()
}

// ObserveJobDuration records the wall time of one finished run.
func ObserveJobDuration(d time.Duration) {
	jobDurationSeconds.Observe(d.Seconds())
}
