package graph

// Edge is a weighted outgoing connection as seen by consumers of an Accessor.
// Weight is strength × confidence and is expected to lie in [0,1].
type Edge struct {
	Target string  `json:"t"`
	Weight float64 `json:"w"`
}

// GraphEdge represents a stored directed link between two nodes.
// The truth value is kept split so callers can update either half.
type GraphEdge struct {
	TargetID   string  `json:"t" yaml:"target"`     // Target Node ID
	Strength   float64 `json:"s" yaml:"strength"`   // Relation strength in [0,1]
	Confidence float64 `json:"c" yaml:"confidence"` // Confidence in the strength, [0,1]
	CreatedAt  int64   `json:"ts,omitempty" yaml:"-"`
}

// Weight returns strength × confidence.
func (e GraphEdge) Weight() float64 {
	return e.Strength * e.Confidence
}

// EdgeList is the adjacency list stored per (source, relation) key.
type EdgeList []GraphEdge

// Accessor is the read-only view of a typed, weighted, directed graph
// consumed by the embedding engine. Implementations must be safe for
// concurrent readers.
type Accessor interface {
	// Nodes returns every node that participates in at least one edge of
	// edgeType, in ascending order.
	Nodes(edgeType string) []string

	// OutgoingEdges returns the edges of edgeType leaving node.
	OutgoingEdges(node, edgeType string) []Edge

	// HasNode reports whether node participates in edgeType's sub-graph.
	HasNode(node, edgeType string) bool
}
