package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lca_agent_turns_completed_total",
			Help: "Total number of finished turns by outcome (done, forced_failure, aborted)",
		},
		[]string{"outcome"},
	)

	ModelCalls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lca_agent_model_calls_total",
			Help: "Total number of language model calls",
		},
	)

	GatewayErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lca_agent_gateway_errors_total",
			Help: "Total number of failed gateway actions by action type",
		},
		[]string{"action"},
	)

	GuardTrips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lca_agent_guard_trips_total",
			Help: "Total number of turns ended by the hallucination guard",
		},
	)

	TurnIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lca_agent_turn_iterations",
			Help:    "Model calls per turn",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)
)
