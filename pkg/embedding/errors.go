package embedding

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEmbedded is returned when an edge type has no embedding yet.
	// Callers recover by running Embed; the engine never embeds implicitly.
	ErrNotEmbedded = errors.New("edge type not embedded")

	// ErrUnknownNode is returned when a node is not part of an edge type's
	// sub-graph or has no stored vector.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidWeight is returned when the graph reports an edge weight
	// outside [0,1]. Weights are never clamped.
	ErrInvalidWeight = errors.New("invalid edge weight")

	// ErrInvalidDimension is returned when the configured pivot count is not positive.
	ErrInvalidDimension = errors.New("dimension must be positive")
)

// NotEmbeddedError reports an operation on an edge type without an embedding.
type NotEmbeddedError struct {
	EdgeType string
}

func (e *NotEmbeddedError) Error() string {
	return fmt.Sprintf("edge type %q not embedded", e.EdgeType)
}

func (e *NotEmbeddedError) Unwrap() error { return ErrNotEmbedded }

// NodeError reports a node that is unknown for an edge type.
type NodeError struct {
	Node     string
	EdgeType string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("unknown node %q for edge type %q", e.Node, e.EdgeType)
}

func (e *NodeError) Unwrap() error { return ErrUnknownNode }

// InvalidWeightError identifies the offending edge.
type InvalidWeightError struct {
	From     string
	To       string
	EdgeType string
	Weight   float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid weight %g on %s edge %q -> %q", e.Weight, e.EdgeType, e.From, e.To)
}

func (e *InvalidWeightError) Unwrap() error { return ErrInvalidWeight }
