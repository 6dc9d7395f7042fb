package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(analysisJobsTotal, analysisJobDurationSecs) }

var analysisJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analysis_jobs_total",
		Help: "Total number of analysis jobs finished, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var analysisJobDurationSecs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "analysis_job_duration_seconds",
		Help:    "End-to-end duration of a job from claim to terminal write.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 180, 240, 300, 360},
	},
	[]string{"status"},
)

func ObserveAnalysisJob(status string, seconds float64) {
	analysisJobsTotal.WithLabelValues(norm(status)).Inc()
	analysisJobDurationSecs.WithLabelValues(norm(status)).Observe(seconds)
}
