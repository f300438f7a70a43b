package embedding

import (
	"fmt"

	"github.com/sanonone/dimembed/pkg/graph"
)

// PivotStrategy selects how pivots are chosen from an edge type's nodes.
type PivotStrategy string

const (
	// FarthestFirst starts from the first node in order and repeatedly adds
	// the node least reachable from the pivots chosen so far.
	FarthestFirst PivotStrategy = "farthest_first"
	// FirstK takes the first k nodes in order.
	FirstK PivotStrategy = "first_k"
)

// ParsePivotStrategy validates a strategy name. An empty name means FarthestFirst.
func ParsePivotStrategy(s string) (PivotStrategy, error) {
	switch PivotStrategy(s) {
	case "", FarthestFirst:
		return FarthestFirst, nil
	case FirstK:
		return FirstK, nil
	default:
		return "", fmt.Errorf("unknown pivot strategy %q", s)
	}
}

// SelectPivots chooses up to k pivots among the nodes of edgeType.
// The result is deterministic for a given graph snapshot. When the
// sub-graph has fewer than k nodes every node becomes a pivot.
func SelectPivots(g graph.Accessor, edgeType string, k int, strategy PivotStrategy) ([]string, error) {
	nodes := g.Nodes(edgeType)
	if k <= 0 || len(nodes) == 0 {
		return []string{}, nil
	}
	if k > len(nodes) {
		k = len(nodes)
	}

	switch strategy {
	case FirstK:
		return append([]string(nil), nodes[:k]...), nil
	case FarthestFirst, "":
		return farthestFirst(g, edgeType, nodes, k)
	default:
		return nil, fmt.Errorf("unknown pivot strategy %q", strategy)
	}
}

// farthestFirst keeps, for every node, the heaviest path weight reaching it
// from any chosen pivot, and picks the node where that weight is smallest.
// Ties go to the earlier node.
func farthestFirst(g graph.Accessor, edgeType string, nodes []string, k int) ([]string, error) {
	s := solver{g: g, edgeType: edgeType}
	closeness := make([]float64, len(nodes))
	chosen := make([]bool, len(nodes))
	pivots := make([]string, 0, k)

	next := 0
	for len(pivots) < k {
		chosen[next] = true
		pivots = append(pivots, nodes[next])
		if len(pivots) == k {
			break
		}

		reach, err := s.from(nodes[next])
		if err != nil {
			return nil, err
		}

		next = -1
		for i, n := range nodes {
			if chosen[i] {
				continue
			}
			if w := reach[n]; w > closeness[i] {
				closeness[i] = w
			}
			if next < 0 || closeness[i] < closeness[next] {
				next = i
			}
		}
	}
	return pivots, nil
}
