package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(providerSubmitsTotal, providerPollsPerJob) }

var providerSubmitsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "provider_submits_total",
		Help: "Annotation submissions to the video provider, by outcome.",
	},
	[]string{"success"},
)

var providerPollsPerJob = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "provider_polls_per_job",
		Help:    "Number of status polls a job needed before the operation finished.",
		Buckets: []float64{1, 2, 4, 8, 12, 20, 30, 45, 60},
	},
)

func IncProviderSubmit(success bool) {
	providerSubmitsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func ObservePollAttempts(n int) {
	providerPollsPerJob.Observe(float64(n))
}
