package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global metrics, registered with the default registry through promauto.
// Every series is labeled by edge type; edge types are few and fixed by
// configuration so cardinality stays bounded.

var (
	// EmbedRunsTotal counts full re-embeddings, labeled by outcome.
	EmbedRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dimembed_embed_runs_total",
			Help: "Total number of full embedding runs",
		},
		[]string{"edge_type", "status"},
	)

	// EmbedDuration measures how long a full re-embedding takes.
	// Buckets span small test graphs up to multi-minute rebuilds.
	EmbedDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dimembed_embed_duration_seconds",
			Help:    "Duration of full embedding runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 600},
		},
		[]string{"edge_type"},
	)

	// PivotCount is the size of the current pivot set.
	PivotCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dimembed_pivots",
			Help: "Number of pivots in the current embedding",
		},
		[]string{"edge_type"},
	)

	// EmbeddedNodes is the number of nodes holding a vector.
	EmbeddedNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dimembed_embedded_nodes",
			Help: "Number of nodes with an embedding vector",
		},
		[]string{"edge_type"},
	)

	// AddNodeTotal counts incremental insertions, labeled by outcome.
	AddNodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dimembed_add_node_total",
			Help: "Total number of incremental node insertions",
		},
		[]string{"edge_type", "status"},
	)

	// DegenerateDimensionTotal counts runs that produced fewer pivots than requested.
	DegenerateDimensionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dimembed_degenerate_dimension_total",
			Help: "Embedding runs where fewer pivots than requested were available",
		},
		[]string{"edge_type"},
	)
)

// Forget drops every series of edgeType from the gauges. Used when an
// embedding is cleared.
func Forget(edgeType string) {
	PivotCount.DeleteLabelValues(edgeType)
	EmbeddedNodes.DeleteLabelValues(edgeType)
}
