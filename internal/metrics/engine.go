// Package metrics exposes prometheus metrics for the HTTP surface and the
// encoding/ranking/similarity engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	refitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reflection",
			Name:      "refits_total",
			Help:      "Total number of normalizer refits",
		},
	)

	rankingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reflection",
			Name:      "ranking_requests_total",
			Help:      "Total number of ranking computations",
		},
	)

	neighborQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflection",
			Name:      "neighbor_queries_total",
			Help:      "Total number of k-NN queries",
		},
		[]string{"metric"},
	)

	populationSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reflection",
			Name:      "population_size",
			Help:      "Record population size of the current fitted snapshot",
		},
	)

	vectorDimensions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reflection",
			Name:      "vector_dimensions",
			Help:      "Feature vector dimensions of the current fitted snapshot",
		},
	)
)

// Register registers all metrics with the default registry.
// Called once from the composition root (no init()).
func Register() {
	prometheus.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		refitsTotal,
		rankingsTotal,
		neighborQueriesTotal,
		populationSize,
		vectorDimensions,
	)
}

// ObserveRefit records a completed refit and the new snapshot shape.
func ObserveRefit(population, dimensions int) {
	refitsTotal.Inc()
	populationSize.Set(float64(population))
	vectorDimensions.Set(float64(dimensions))
}

// IncRanking counts one ranking computation.
func IncRanking() {
	rankingsTotal.Inc()
}

// IncNeighborQuery counts one k-NN query by metric.
func IncNeighborQuery(metric string) {
	neighborQueriesTotal.WithLabelValues(metric).Inc()
}
