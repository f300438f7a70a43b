package embedding

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/sanonone/dimembed/pkg/graph"
)

func TestMaxPathWeightScenario(t *testing.T) {
	g := scenarioGraph(t)

	w, err := MaxPathWeight(g, "A", "C", "T")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, w, 1e-12)

	// Edges are directed.
	w, err = MaxPathWeight(g, "C", "A", "T")
	require.NoError(t, err)
	assert.Equal(t, 0.0, w)

	for _, n := range []string{"A", "B", "C", "never-seen"} {
		w, err = MaxPathWeight(g, n, n, "T")
		require.NoError(t, err)
		assert.Equal(t, 1.0, w, "identity path for %s", n)
	}
}

func TestMaxPathWeightPrefersHeavierLongerPath(t *testing.T) {
	g := graph.NewMemGraph()
	require.NoError(t, g.Link("A", "C", "T", "", 0.3, 1))
	require.NoError(t, g.Link("A", "B", "T", "", 0.9, 1))
	require.NoError(t, g.Link("B", "C", "T", "", 0.9, 1))

	w, err := MaxPathWeight(g, "A", "C", "T")
	require.NoError(t, err)
	assert.InDelta(t, 0.81, w, 1e-12)
}

func TestMaxPathWeightIgnoresOtherEdgeTypes(t *testing.T) {
	g := graph.NewMemGraph()
	require.NoError(t, g.Link("A", "B", "T", "", 1, 1))
	require.NoError(t, g.Link("B", "C", "U", "", 1, 1))

	w, err := MaxPathWeight(g, "A", "C", "T")
	require.NoError(t, err)
	assert.Equal(t, 0.0, w)

	w, err = MaxPathWeight(g, "A", "B", "U")
	require.NoError(t, err)
	assert.Equal(t, 0.0, w)
}

// A zero-weight edge carries no information and behaves as if absent.
func TestMaxPathWeightZeroWeightIsNoEdge(t *testing.T) {
	g := graph.NewMemGraph()
	require.NoError(t, g.Link("A", "B", "T", "", 0, 1))
	require.NoError(t, g.Link("B", "C", "T", "", 1, 1))

	for _, target := range []string{"B", "C"} {
		w, err := MaxPathWeight(g, "A", target, "T")
		require.NoError(t, err)
		assert.Equal(t, 0.0, w, "A -> %s", target)
	}
}

func TestMaxPathWeightMultiEdgesAndSelfLoops(t *testing.T) {
	g := newStubGraph("T").
		add("A", "B", 0.2).
		add("A", "B", 0.7).
		add("A", "A", 1).
		add("B", "B", 0.1).
		add("B", "C", 0.5)

	w, err := MaxPathWeight(g, "A", "B", "T")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, w, 1e-12)

	w, err = MaxPathWeight(g, "A", "C", "T")
	require.NoError(t, err)
	assert.InDelta(t, 0.35, w, 1e-12)
}

func TestMaxPathWeightInvalidWeight(t *testing.T) {
	for _, bad := range []float64{-0.1, 1.5, math.NaN()} {
		g := newStubGraph("T").add("A", "B", 0.5).add("B", "C", bad)

		_, err := MaxPathWeight(g, "A", "C", "T")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidWeight))

		var iw *InvalidWeightError
		require.True(t, errors.As(err, &iw))
		assert.Equal(t, "B", iw.From)
		assert.Equal(t, "C", iw.To)
		assert.Equal(t, "T", iw.EdgeType)
	}
}

// Adding an edge of positive weight never lowers a path weight.
func TestMaxPathWeightMonotonic(t *testing.T) {
	const n = 12
	links := randomLinks(7, n, 30)
	g := randomMemGraph(t, "T", links[:20])

	before := allPairs(t, g, n)
	for _, l := range links[20:] {
		require.NoError(t, g.Link(nodeName(l.from), nodeName(l.to), "T", "", l.weight, 1))
	}
	after := allPairs(t, g, n)

	for k, w := range before {
		assert.GreaterOrEqual(t, after[k], w, "pair %v", k)
	}
}

func allPairs(t *testing.T, g graph.Accessor, n int) map[[2]int]float64 {
	t.Helper()
	res := make(map[[2]int]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w, err := MaxPathWeight(g, nodeName(i), nodeName(j), "T")
			require.NoError(t, err)
			res[[2]int{i, j}] = w
		}
	}
	return res
}

// The max-product search must agree with a standard minimizing Dijkstra run
// on -log(weight) costs.
func TestMaxPathWeightMatchesLogSpaceDijkstra(t *testing.T) {
	const n = 25
	for _, seed := range []uint64{1, 2, 3} {
		links := randomLinks(seed, n, 70)
		g := randomMemGraph(t, "T", links)

		ref := simple.NewWeightedDirectedGraph(0, math.Inf(1))
		for i := 0; i < n; i++ {
			ref.AddNode(simple.Node(i))
		}
		for _, l := range links {
			ref.SetWeightedEdge(ref.NewWeightedEdge(simple.Node(l.from), simple.Node(l.to), -math.Log(l.weight)))
		}

		for i := 0; i < n; i++ {
			shortest := path.DijkstraFrom(simple.Node(i), ref)
			for j := 0; j < n; j++ {
				want := math.Exp(-shortest.WeightTo(int64(j)))
				got, err := MaxPathWeight(g, nodeName(i), nodeName(j), "T")
				require.NoError(t, err)
				assert.InDelta(t, want, got, 1e-9, "seed %d: %d -> %d", seed, i, j)
			}
		}
	}
}
