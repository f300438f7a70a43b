package embedding

import (
	"container/heap"
	"math"

	"github.com/sanonone/dimembed/pkg/graph"
)

// solver finds maximum-weight paths in one edge type's sub-graph, where the
// weight of a path is the product of its edge weights.
//
// It is Dijkstra's algorithm mirrored: since every weight lies in [0,1],
// extending a path never increases its weight, so settling nodes in
// decreasing order of best weight is exact. Edges of weight 0 carry no
// information and are skipped.
type solver struct {
	g        graph.Accessor
	edgeType string
}

// run computes best path weights from start. When stop is set the search
// ends as soon as target is settled. The returned map only holds
// reached nodes; absent nodes have weight 0.
func (s solver) run(start, target string, stop bool) (map[string]float64, error) {
	best := map[string]float64{start: 1}
	settled := make(map[string]struct{})

	h := &frontier{{node: start, weight: 1}}
	for h.Len() > 0 {
		cur := heap.Pop(h).(candidate)
		if _, done := settled[cur.node]; done {
			continue
		}
		settled[cur.node] = struct{}{}
		if stop && cur.node == target {
			break
		}

		for _, e := range s.g.OutgoingEdges(cur.node, s.edgeType) {
			w := e.Weight
			if math.IsNaN(w) || w < 0 || w > 1 {
				return nil, &InvalidWeightError{From: cur.node, To: e.Target, EdgeType: s.edgeType, Weight: w}
			}
			if w == 0 {
				continue
			}
			if _, done := settled[e.Target]; done {
				continue
			}
			if next := cur.weight * w; next > best[e.Target] {
				best[e.Target] = next
				heap.Push(h, candidate{node: e.Target, weight: next})
			}
		}
	}
	return best, nil
}

// from returns the best path weight from start to every reachable node.
func (s solver) from(start string) (map[string]float64, error) {
	return s.run(start, "", false)
}

// MaxPathWeight returns the weight of the heaviest directed path from start
// to target following only edges of edgeType. The result is 1 when
// start == target and 0 when target is unreachable; neither is an error.
// An edge weight outside [0,1] met during the search yields an
// *InvalidWeightError.
func MaxPathWeight(g graph.Accessor, start, target, edgeType string) (float64, error) {
	if start == target {
		return 1, nil
	}
	best, err := solver{g: g, edgeType: edgeType}.run(start, target, true)
	if err != nil {
		return 0, err
	}
	return best[target], nil
}
