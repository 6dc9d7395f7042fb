package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(qualitativeLatencyMs) }

var qualitativeLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "qualitative_calls_latency_ms",
		Help:    "Qualitative-analysis call latency distribution in milliseconds.",
		Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 20000},
	},
	[]string{"provider", "success"},
)

func ObserveQualitativeCall(provider string, latencyMs int, success bool) {
	qualitativeLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
