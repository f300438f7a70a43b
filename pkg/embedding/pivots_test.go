package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/dimembed/pkg/graph"
)

func TestSelectPivotsScenario(t *testing.T) {
	g := scenarioGraph(t)

	pivots, err := SelectPivots(g, "T", 2, FarthestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, pivots)

	pivots, err = SelectPivots(g, "T", 2, FirstK)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, pivots)
}

func TestSelectPivotsDegrades(t *testing.T) {
	g := scenarioGraph(t)

	for _, s := range []PivotStrategy{FarthestFirst, FirstK} {
		pivots, err := SelectPivots(g, "T", 10, s)
		require.NoError(t, err)
		assert.Len(t, pivots, 3, "strategy %s", s)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, pivots)

		pivots, err = SelectPivots(g, "T", 0, s)
		require.NoError(t, err)
		assert.Empty(t, pivots)

		pivots, err = SelectPivots(g, "missing", 3, s)
		require.NoError(t, err)
		assert.Empty(t, pivots)
	}
}

// Disconnected components are covered before a second pivot lands in an
// already covered one.
func TestSelectPivotsSpreadsAcrossComponents(t *testing.T) {
	g := graph.NewMemGraph()
	require.NoError(t, g.Link("A", "B", "T", "T", 0.9, 1))
	require.NoError(t, g.Link("X", "Y", "T", "T", 0.9, 1))
	require.NoError(t, g.Link("M", "N", "T", "T", 0.9, 1))

	pivots, err := SelectPivots(g, "T", 3, FarthestFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "M", "X"}, pivots)
}

func TestSelectPivotsDeterministic(t *testing.T) {
	g := randomMemGraph(t, "T", randomLinks(11, 40, 120))

	first, err := SelectPivots(g, "T", 6, FarthestFirst)
	require.NoError(t, err)
	require.Len(t, first, 6)
	for i := 0; i < 5; i++ {
		again, err := SelectPivots(g, "T", 6, FarthestFirst)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	seen := make(map[string]bool)
	for _, p := range first {
		assert.False(t, seen[p], "duplicate pivot %s", p)
		seen[p] = true
	}
}

func TestSelectPivotsPropagatesInvalidWeight(t *testing.T) {
	g := newStubGraph("T").add("A", "B", 2)
	_, err := SelectPivots(g, "T", 2, FarthestFirst)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestParsePivotStrategy(t *testing.T) {
	s, err := ParsePivotStrategy("")
	require.NoError(t, err)
	assert.Equal(t, FarthestFirst, s)

	s, err = ParsePivotStrategy("first_k")
	require.NoError(t, err)
	assert.Equal(t, FirstK, s)

	_, err = ParsePivotStrategy("random")
	assert.Error(t, err)
}
