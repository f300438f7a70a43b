// Package graph provides the graph abstraction consumed by the embedding
// engine, together with MemGraph, a thread-safe in-memory implementation.
//
// Relationship model: adjacency lists are keyed by (source_id, relation_type)
// and hold the outgoing GraphEdges for that relation. Every relation type
// also keeps an ordered set of participating nodes so that enumeration is
// deterministic.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/btree"
)

// ErrInvalidTruthValue is returned when a strength or confidence falls
// outside [0,1].
var ErrInvalidTruthValue = errors.New("truth value must be in [0,1]")

// relKey addresses the adjacency list (or degree) of one node for one
// relation type.
type relKey struct {
	node string
	rel  string
}

func makeRelKey(sourceID, relType string) relKey {
	return relKey{node: sourceID, rel: relType}
}

func stringLess(a, b string) bool { return a < b }

// MemGraph is an in-memory typed graph. The zero value is not usable; call
// NewMemGraph.
type MemGraph struct {
	mu sync.RWMutex

	out    map[relKey]EdgeList
	degree map[relKey]int
	nodes  map[string]*btree.BTreeG[string]
}

// NewMemGraph returns an empty graph.
func NewMemGraph() *MemGraph {
	return &MemGraph{
		out:    make(map[relKey]EdgeList),
		degree: make(map[relKey]int),
		nodes:  make(map[string]*btree.BTreeG[string]),
	}
}

func validTruth(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// Link creates or updates a directed edge between two nodes.
// If inverseRelationType is not empty, the reverse edge is written as well
// with the same truth value.
func (g *MemGraph) Link(sourceID, targetID, relationType, inverseRelationType string, strength, confidence float64) error {
	if !validTruth(strength) || !validTruth(confidence) {
		return fmt.Errorf("link %s -> %s (%s): %w", sourceID, targetID, relationType, ErrInvalidTruthValue)
	}
	if relationType == "" {
		return fmt.Errorf("relation type must not be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.setLinkInternal(sourceID, targetID, relationType, strength, confidence)
	if inverseRelationType != "" {
		g.setLinkInternal(targetID, sourceID, inverseRelationType, strength, confidence)
	}
	return nil
}

// setLinkInternal is the raw write logic; the caller holds the lock.
func (g *MemGraph) setLinkInternal(src, dst, rel string, strength, confidence float64) {
	key := makeRelKey(src, rel)
	edges := g.out[key]
	for i := range edges {
		if edges[i].TargetID == dst {
			edges[i].Strength = strength
			edges[i].Confidence = confidence
			return
		}
	}
	g.out[key] = append(edges, GraphEdge{
		TargetID:   dst,
		Strength:   strength,
		Confidence: confidence,
		CreatedAt:  time.Now().UnixNano(),
	})
	g.touch(src, rel, 1)
	g.touch(dst, rel, 1)
}

// touch adjusts the per-type degree of node and keeps the participating
// node set in sync with it.
func (g *MemGraph) touch(node, rel string, delta int) {
	key := makeRelKey(node, rel)
	d := g.degree[key] + delta

	set, ok := g.nodes[rel]
	if !ok {
		set = btree.NewBTreeG[string](stringLess)
		g.nodes[rel] = set
	}

	if d <= 0 {
		delete(g.degree, key)
		set.Delete(node)
		if set.Len() == 0 {
			delete(g.nodes, rel)
		}
		return
	}
	g.degree[key] = d
	set.Set(node)
}

// Unlink removes the directed edge source -> target of relationType, and the
// inverse edge when inverseRelationType is given. Missing edges are ignored.
func (g *MemGraph) Unlink(sourceID, targetID, relationType, inverseRelationType string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeLinkInternal(sourceID, targetID, relationType)
	if inverseRelationType != "" {
		g.removeLinkInternal(targetID, sourceID, inverseRelationType)
	}
}

func (g *MemGraph) removeLinkInternal(src, dst, rel string) {
	key := makeRelKey(src, rel)
	edges, found := g.out[key]
	if !found {
		return
	}

	kept := make(EdgeList, 0, len(edges))
	changed := false
	for _, e := range edges {
		if e.TargetID != dst {
			kept = append(kept, e)
		} else {
			changed = true
		}
	}
	if !changed {
		return
	}

	if len(kept) == 0 {
		delete(g.out, key)
	} else {
		g.out[key] = kept
	}
	g.touch(src, rel, -1)
	g.touch(dst, rel, -1)
}

// GetLinks returns the stored edges leaving sourceID for relationType.
func (g *MemGraph) GetLinks(sourceID, relationType string) (EdgeList, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges, found := g.out[makeRelKey(sourceID, relationType)]
	if !found {
		return nil, false
	}
	return append(EdgeList(nil), edges...), true
}

// Nodes implements Accessor.
func (g *MemGraph) Nodes(edgeType string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	set, ok := g.nodes[edgeType]
	if !ok {
		return nil
	}
	ids := make([]string, 0, set.Len())
	set.Scan(func(id string) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

// OutgoingEdges implements Accessor.
func (g *MemGraph) OutgoingEdges(node, edgeType string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stored := g.out[makeRelKey(node, edgeType)]
	if len(stored) == 0 {
		return nil
	}
	edges := make([]Edge, len(stored))
	for i, e := range stored {
		edges[i] = Edge{Target: e.TargetID, Weight: e.Weight()}
	}
	return edges
}

// HasNode implements Accessor.
func (g *MemGraph) HasNode(node, edgeType string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.degree[makeRelKey(node, edgeType)]
	return ok
}

// EdgeTypes returns every relation type that currently has at least one edge.
func (g *MemGraph) EdgeTypes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	types := make([]string, 0, len(g.nodes))
	for t := range g.nodes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
