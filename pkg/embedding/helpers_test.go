package embedding

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanonone/dimembed/pkg/graph"
)

// stubGraph is a single-type accessor that returns edges verbatim, so tests
// can feed multi-edges and out-of-range weights that MemGraph would reject.
type stubGraph struct {
	edgeType string
	out      map[string][]graph.Edge
}

func newStubGraph(edgeType string) *stubGraph {
	return &stubGraph{edgeType: edgeType, out: make(map[string][]graph.Edge)}
}

func (s *stubGraph) add(from, to string, w float64) *stubGraph {
	s.out[from] = append(s.out[from], graph.Edge{Target: to, Weight: w})
	return s
}

func (s *stubGraph) Nodes(edgeType string) []string {
	if edgeType != s.edgeType {
		return nil
	}
	seen := make(map[string]struct{})
	for from, edges := range s.out {
		seen[from] = struct{}{}
		for _, e := range edges {
			seen[e.Target] = struct{}{}
		}
	}
	nodes := make([]string, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

func (s *stubGraph) OutgoingEdges(node, edgeType string) []graph.Edge {
	if edgeType != s.edgeType {
		return nil
	}
	return s.out[node]
}

func (s *stubGraph) HasNode(node, edgeType string) bool {
	for _, n := range s.Nodes(edgeType) {
		if n == node {
			return true
		}
	}
	return false
}

// scenarioGraph builds A -(0.8)-> B -(0.5)-> C on edge type "T".
func scenarioGraph(t *testing.T) *graph.MemGraph {
	t.Helper()
	g := graph.NewMemGraph()
	require.NoError(t, g.Link("A", "B", "T", "", 0.8, 1))
	require.NoError(t, g.Link("B", "C", "T", "", 1, 0.5))
	return g
}

type randomLink struct {
	from, to int
	weight   float64
}

// randomLinks returns distinct, non-self links over n nodes with weights in (0,1].
func randomLinks(seed uint64, n, m int) []randomLink {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	seen := make(map[[2]int]bool)
	links := make([]randomLink, 0, m)
	for len(links) < m {
		from, to := r.IntN(n), r.IntN(n)
		if from == to || seen[[2]int{from, to}] {
			continue
		}
		seen[[2]int{from, to}] = true
		links = append(links, randomLink{from: from, to: to, weight: 1 - r.Float64()})
	}
	return links
}

func nodeName(i int) string { return fmt.Sprintf("n%03d", i) }

func randomMemGraph(t *testing.T, edgeType string, links []randomLink) *graph.MemGraph {
	t.Helper()
	g := graph.NewMemGraph()
	for _, l := range links {
		require.NoError(t, g.Link(nodeName(l.from), nodeName(l.to), edgeType, "", l.weight, 1))
	}
	return g
}

func quietEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	eng, err := New(append([]Option{WithLogger(NoopLogger())}, opts...)...)
	require.NoError(t, err)
	return eng
}
