package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_transitions_total",
			Help: "Committed scene transitions by kind.",
		},
		[]string{"kind"},
	)
	staleResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_stale_results_total",
			Help: "Generation results discarded because the session moved on.",
		},
		[]string{"operation"},
	)
	restartsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adventure_restarts_total",
			Help: "Explicit game restarts.",
		},
	)
)
