// Package agent hosts the embedding engine for a scheduler or an operator.
//
// The host drives an Agent through two entry points: OnTick, called on a
// fixed cadence, re-embeds edge types or inserts newly reported nodes; and
// OnCommand, which runs an operator command such as "dump SimilarityLink".
package agent

import (
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/sanonone/dimembed/pkg/config"
	"github.com/sanonone/dimembed/pkg/embedding"
	"github.com/sanonone/dimembed/pkg/graph"
)

// Agent couples an Engine with the graph it embeds and the per-type schedule.
type Agent struct {
	engine *embedding.Engine
	graph  graph.Accessor
	types  []config.EdgeTypeConfig
	logger *embedding.Logger

	tickMu sync.Mutex // serializes OnTick
	tick   uint64

	mu      sync.Mutex
	pending map[string]map[string]struct{} // edge type -> queued nodes
}

// New creates an Agent. A nil logger discards output.
func New(engine *embedding.Engine, g graph.Accessor, types []config.EdgeTypeConfig, logger *embedding.Logger) *Agent {
	if logger == nil {
		logger = embedding.NoopLogger()
	}
	return &Agent{
		engine:  engine,
		graph:   g,
		types:   types,
		logger:  logger,
		pending: make(map[string]map[string]struct{}),
	}
}

// Engine returns the hosted engine.
func (a *Agent) Engine() *embedding.Engine { return a.engine }

// EdgeTypes returns the configured edge type names in configuration order.
func (a *Agent) EdgeTypes() []string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.Name
	}
	return names
}

// Notify queues node for incremental embedding of edgeType on the next tick.
func (a *Agent) Notify(node, edgeType string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	q, ok := a.pending[edgeType]
	if !ok {
		q = make(map[string]struct{})
		a.pending[edgeType] = q
	}
	q[node] = struct{}{}
}

func (a *Agent) takePending(edgeType string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	q := a.pending[edgeType]
	delete(a.pending, edgeType)
	nodes := make([]string, 0, len(q))
	for n := range q {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// OnTick performs one scheduled step. A type that has never been embedded,
// or whose re-embedding period has elapsed, is embedded from scratch and
// its queued nodes are dropped; otherwise its queued nodes are inserted one
// by one. Errors of all types are joined.
func (a *Agent) OnTick() error {
	a.tickMu.Lock()
	defer a.tickMu.Unlock()

	a.tick++
	embedded := a.engine.EdgeTypes()

	var errs []error
	for _, t := range a.types {
		queued := a.takePending(t.Name)

		due := t.ReembedEvery > 0 && a.tick%uint64(t.ReembedEvery) == 0
		if due || !slices.Contains(embedded, t.Name) {
			if err := a.engine.Embed(a.graph, t.Name); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		for _, node := range queued {
			if err := a.engine.AddNode(a.graph, node, t.Name); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		a.logger.Error("tick completed with errors", "tick", a.tick, "error", err)
		return err
	}
	a.logger.Debug("tick completed", "tick", a.tick)
	return nil
}
