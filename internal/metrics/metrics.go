package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters exposed on /metrics.
var (
	VisitsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boxes_visits_recorded_total",
		Help: "Number of visit observations recorded.",
	})

	ScoreRecomputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boxes_score_recomputations_total",
		Help: "Number of per-box score recomputations.",
	})

	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boxes_persistence_failures_total",
		Help: "Number of failed durable writes or reads. The engine keeps running in memory when this grows.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boxes_http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})
)
