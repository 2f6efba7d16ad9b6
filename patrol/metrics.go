package patrol

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("patrol")

var (
	// trialsTotal counts cycle-search trials by outcome ("cycle" or "exit").
	trialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "patrol_trials_total",
		Help: "Total obstacle placement trials by outcome",
	}, []string{"outcome"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "patrol_search_duration_seconds",
		Help:    "Wall time of a full cycle search",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
	})

	// runsTotal counts exit-path runs by outcome ("exited", "cycled", "invalid").
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "patrol_runs_total",
		Help: "Total exit-path simulations by outcome",
	}, []string{"outcome"})

	visitedCells = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "patrol_visited_cells",
		Help:    "Distinct cells visited per exit-path run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)
