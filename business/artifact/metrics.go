package artifact

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ArtifactLoadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artifact_load_duration_seconds",
			Help:    "Time spent fetching and decoding each startup artifact.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"artifact"},
	)
)

func init() {
	prometheus.MustRegister(ArtifactLoadSeconds)
}
