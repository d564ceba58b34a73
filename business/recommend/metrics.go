package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK              = "ok"
	outcomeEmpty           = "empty"
	outcomeUnknownCategory = "unknown_category"
	outcomeError           = "error"
)

var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Count of recommendation requests by outcome.",
		},
		[]string{"outcome"},
	)

	UnknownCategoryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_unknown_category_total",
			Help: "Count of rejected inputs by the field carrying an unseen label.",
		},
		[]string{"field"},
	)
)

func init() {
	prometheus.MustRegister(RecommendationsTotal, UnknownCategoryTotal)
}
