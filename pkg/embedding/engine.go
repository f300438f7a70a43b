// Package embedding implements dimensional embedding of typed, weighted
// graphs.
//
// For every edge type the engine picks a small set of pivot nodes and gives
// each node a vector whose i-th coordinate is the heaviest path weight from
// the node to pivot i, a path's weight being the product of its edge weights
// (strength × confidence). Graph proximity queries then become cheap vector
// distance queries.
//
// Basic usage:
//
//	eng, err := embedding.New(embedding.WithDimensions(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := eng.Embed(g, "SimilarityLink"); err != nil {
//	    log.Fatal(err)
//	}
//	d, err := eng.Distance("cat", "dog", "SimilarityLink")
//
// Edge types are independent: each one owns its pivots and vectors and is
// guarded by its own lock.
package embedding

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sanonone/dimembed/pkg/core/distance"
	"github.com/sanonone/dimembed/pkg/graph"
	"github.com/sanonone/dimembed/pkg/metrics"
)

// typeState is the embedding of one edge type. vectors is replaced
// wholesale by Embed and only grows through AddNode; gen changes whenever
// pivots change so that in-flight insertions computed against old pivots
// are detected.
type typeState struct {
	mu      sync.RWMutex
	pivots  []string
	vectors map[string][]float64
	gen     uint64
	live    bool
}

// Engine owns the embeddings of every edge type. It is safe for concurrent
// use. The graph is never stored: mutating operations receive it explicitly.
type Engine struct {
	mu    sync.RWMutex // guards types; lock order is mu, then typeState.mu
	types map[string]*typeState

	opts   options
	logger *Logger
	distFn distance.DistanceFunc
}

// New creates an Engine.
func New(optFns ...Option) (*Engine, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	distFn, _ := distance.GetFunc(opts.metric)

	logger := opts.logger
	if logger == nil {
		logger = NewLogger(nil)
	}

	return &Engine{
		types:  make(map[string]*typeState),
		opts:   opts,
		logger: logger,
		distFn: distFn,
	}, nil
}

// Embed rebuilds the embedding of edgeType from scratch: it selects new
// pivots and computes a vector for every node of the sub-graph. The previous
// embedding stays visible until the new one is complete, then is replaced in
// one step. On error the previous embedding is left untouched.
func (e *Engine) Embed(g graph.Accessor, edgeType string) error {
	runID := uuid.NewString()
	start := time.Now()

	pivots, vectors, err := e.build(g, edgeType)
	elapsed := time.Since(start)
	e.logger.LogEmbed(runID, edgeType, len(pivots), len(vectors), elapsed, err)
	if err != nil {
		metrics.EmbedRunsTotal.WithLabelValues(edgeType, "error").Inc()
		return err
	}

	e.mu.Lock()
	st, ok := e.types[edgeType]
	if !ok {
		st = &typeState{}
		e.types[edgeType] = st
	}
	st.mu.Lock()
	e.mu.Unlock()

	st.pivots = pivots
	st.vectors = vectors
	st.gen++
	st.live = true
	st.mu.Unlock()

	metrics.EmbedRunsTotal.WithLabelValues(edgeType, "ok").Inc()
	metrics.EmbedDuration.WithLabelValues(edgeType).Observe(elapsed.Seconds())
	metrics.PivotCount.WithLabelValues(edgeType).Set(float64(len(pivots)))
	metrics.EmbeddedNodes.WithLabelValues(edgeType).Set(float64(len(vectors)))
	return nil
}

func (e *Engine) build(g graph.Accessor, edgeType string) ([]string, map[string][]float64, error) {
	k := e.opts.dimensionsFor(edgeType)
	pivots, err := SelectPivots(g, edgeType, k, e.opts.strategy)
	if err != nil {
		return nil, nil, err
	}
	if len(pivots) < k {
		e.logger.LogDegenerate(edgeType, k, len(pivots))
		metrics.DegenerateDimensionTotal.WithLabelValues(edgeType).Inc()
	}

	nodes := g.Nodes(edgeType)
	results := make([][]float64, len(nodes))

	var grp errgroup.Group
	grp.SetLimit(e.opts.workers)
	for i, node := range nodes {
		grp.Go(func() error {
			vec, err := vectorFor(g, edgeType, node, pivots)
			if err != nil {
				return err
			}
			results[i] = vec
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, nil, err
	}

	vectors := make(map[string][]float64, len(nodes))
	for i, node := range nodes {
		vectors[node] = results[i]
	}
	return pivots, vectors, nil
}

// vectorFor runs one single-source search from node and reads the weight
// reached at each pivot.
func vectorFor(g graph.Accessor, edgeType, node string, pivots []string) ([]float64, error) {
	reach, err := solver{g: g, edgeType: edgeType}.from(node)
	if err != nil {
		return nil, err
	}
	vec := make([]float64, len(pivots))
	for i, p := range pivots {
		vec[i] = reach[p]
	}
	return vec, nil
}

// EmbedAll embeds several edge types concurrently. It returns the first
// error encountered; the other types are still embedded.
func (e *Engine) EmbedAll(g graph.Accessor, edgeTypes ...string) error {
	var grp errgroup.Group
	for _, t := range edgeTypes {
		grp.Go(func() error {
			return e.Embed(g, t)
		})
	}
	return grp.Wait()
}

// AddNode computes the vector of a single node against the current pivots
// of edgeType and stores it, replacing any previous vector for that node.
// Pivots and other vectors are not touched.
func (e *Engine) AddNode(g graph.Accessor, node, edgeType string) error {
	err := e.addNode(g, node, edgeType)
	e.logger.LogAddNode(node, edgeType, err)
	if err != nil {
		metrics.AddNodeTotal.WithLabelValues(edgeType, "error").Inc()
		return err
	}
	metrics.AddNodeTotal.WithLabelValues(edgeType, "ok").Inc()
	return nil
}

func (e *Engine) addNode(g graph.Accessor, node, edgeType string) error {
	for {
		st, err := e.state(edgeType)
		if err != nil {
			return err
		}
		if !g.HasNode(node, edgeType) {
			return &NodeError{Node: node, EdgeType: edgeType}
		}

		st.mu.RLock()
		pivots, gen := st.pivots, st.gen
		st.mu.RUnlock()

		vec, err := vectorFor(g, edgeType, node, pivots)
		if err != nil {
			return err
		}

		st.mu.Lock()
		switch {
		case !st.live:
			st.mu.Unlock()
			return &NotEmbeddedError{EdgeType: edgeType}
		case st.gen != gen:
			// Re-embedded meanwhile: recompute against the new pivots.
			st.mu.Unlock()
			continue
		}
		st.vectors[node] = vec
		n := len(st.vectors)
		st.mu.Unlock()

		metrics.EmbeddedNodes.WithLabelValues(edgeType).Set(float64(n))
		return nil
	}
}

// state returns the live state of edgeType.
func (e *Engine) state(edgeType string) (*typeState, error) {
	e.mu.RLock()
	st, ok := e.types[edgeType]
	e.mu.RUnlock()
	if !ok {
		return nil, &NotEmbeddedError{EdgeType: edgeType}
	}
	return st, nil
}

// Clear removes the pivots and vectors of edgeType. Clearing an edge type
// that was never embedded is a no-op.
func (e *Engine) Clear(edgeType string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.types[edgeType]
	if !ok {
		return
	}
	delete(e.types, edgeType)

	st.mu.Lock()
	st.live = false
	st.gen++
	st.pivots = nil
	st.vectors = nil
	st.mu.Unlock()

	metrics.Forget(edgeType)
}

// Vector returns a copy of node's vector for edgeType.
func (e *Engine) Vector(node, edgeType string) ([]float64, error) {
	st, err := e.state(edgeType)
	if err != nil {
		return nil, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()

	if !st.live {
		return nil, &NotEmbeddedError{EdgeType: edgeType}
	}
	vec, ok := st.vectors[node]
	if !ok {
		return nil, &NodeError{Node: node, EdgeType: edgeType}
	}
	return append([]float64(nil), vec...), nil
}

// Distance returns the distance between the vectors of a and b, Euclidean
// unless configured otherwise.
func (e *Engine) Distance(a, b, edgeType string) (float64, error) {
	st, err := e.state(edgeType)
	if err != nil {
		return 0, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()

	if !st.live {
		return 0, &NotEmbeddedError{EdgeType: edgeType}
	}
	va, ok := st.vectors[a]
	if !ok {
		return 0, &NodeError{Node: a, EdgeType: edgeType}
	}
	vb, ok := st.vectors[b]
	if !ok {
		return 0, &NodeError{Node: b, EdgeType: edgeType}
	}
	return e.distFn(va, vb)
}

// Pivots returns a copy of the pivot sequence of edgeType.
func (e *Engine) Pivots(edgeType string) ([]string, error) {
	st, err := e.state(edgeType)
	if err != nil {
		return nil, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()

	if !st.live {
		return nil, &NotEmbeddedError{EdgeType: edgeType}
	}
	return append([]string{}, st.pivots...), nil
}

// EdgeTypes returns the embedded edge types in ascending order.
func (e *Engine) EdgeTypes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	types := make([]string, 0, len(e.types))
	for t := range e.types {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
