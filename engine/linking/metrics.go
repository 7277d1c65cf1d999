package linking

import "github.com/prometheus/client_golang/prometheus"

var (
	// rebuildTotal counts full edge-list rebuilds.
	rebuildTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetgraph_rebuilds_total",
			Help: "Total number of full relationship rebuilds",
		},
	)

	// rebuildDuration tracks how long a full rebuild takes.
	rebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fleetgraph_rebuild_duration_seconds",
			Help:    "Duration of full relationship rebuilds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// edgeCount tracks the current number of edges per relationship kind.
	edgeCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetgraph_edges",
			Help: "Current number of edges in the relationship graph",
		},
		[]string{"kind"},
	)

	// linkedQueries counts linked-entity and relationship lookups.
	linkedQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetgraph_linked_queries_total",
			Help: "Total number of linked-entity queries",
		},
		[]string{"entity_type"},
	)

	// navigationTotal counts drilldown pushes by outcome.
	navigationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetgraph_navigation_total",
			Help: "Total number of related-entity navigations by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(rebuildTotal)
	prometheus.MustRegister(rebuildDuration)
	prometheus.MustRegister(edgeCount)
	prometheus.MustRegister(linkedQueries)
	prometheus.MustRegister(navigationTotal)
}

// recordEdgeCounts resets and republishes the per-kind edge gauge.
func recordEdgeCounts(edges []EntityRelationship) {
	edgeCount.Reset()
	for _, e := range edges {
		edgeCount.WithLabelValues(string(e.Kind)).Inc()
	}
}
