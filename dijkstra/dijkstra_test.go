// Package dijkstra_test validates the link-cost Dijkstra: input validation,
// basic distances, deterministic tie-breaking and target-limited search.
package dijkstra_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/trafficeq/dijkstra"
	"github.com/katalvlaran/trafficeq/network"
)

// diamond: 1→2→4 (links 0,1) and 1→3→4 (links 2,3).
func diamond(t *testing.T) *network.Network {
	t.Helper()
	n, err := network.New([]network.Link{
		{Index: 0, Tail: 1, Head: 2, Capacity: 1, FreeFlowTime: 1},
		{Index: 1, Tail: 2, Head: 4, Capacity: 1, FreeFlowTime: 1},
		{Index: 2, Tail: 1, Head: 3, Capacity: 1, FreeFlowTime: 1},
		{Index: 3, Tail: 3, Head: 4, Capacity: 1, FreeFlowTime: 1},
	}, nil)
	require.NoError(t, err)

	return n
}

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestDijkstra_Validation(t *testing.T) {
	n := diamond(t)
	costs := []float64{1, 1, 1, 1}

	_, err := dijkstra.Dijkstra(n, costs)
	require.ErrorIs(t, err, dijkstra.ErrNoSource)

	_, err = dijkstra.Dijkstra(nil, costs, dijkstra.Source(1))
	require.ErrorIs(t, err, dijkstra.ErrNilNetwork)

	_, err = dijkstra.Dijkstra(n, costs[:3], dijkstra.Source(1))
	require.ErrorIs(t, err, dijkstra.ErrCostLength)

	_, err = dijkstra.Dijkstra(n, costs, dijkstra.Source(9))
	require.ErrorIs(t, err, dijkstra.ErrSourceNotFound)

	_, err = dijkstra.Dijkstra(n, []float64{1, -1, 1, 1}, dijkstra.Source(1))
	require.ErrorIs(t, err, dijkstra.ErrNegativeCost)

	_, err = dijkstra.Dijkstra(n, []float64{1, math.NaN(), 1, 1}, dijkstra.Source(1))
	require.ErrorIs(t, err, dijkstra.ErrNegativeCost)
}

// ------------------------------------------------------------------------
// 2. Distances and paths
// ------------------------------------------------------------------------

func TestDijkstra_PicksCheaperBranch(t *testing.T) {
	tree, err := dijkstra.Dijkstra(diamond(t), []float64{2, 2, 1, 1.5}, dijkstra.Source(1))
	require.NoError(t, err)

	d, ok := tree.Distance(4)
	require.True(t, ok)
	assert.InDelta(t, 2.5, d, 1e-12)

	path, err := tree.PathTo(4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, path)

	path, err = tree.PathTo(1)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestDijkstra_TieBreakIsDeterministic(t *testing.T) {
	n := diamond(t)
	costs := []float64{1, 1, 1, 1}
	for i := 0; i < 20; i++ {
		tree, err := dijkstra.Dijkstra(n, costs, dijkstra.Source(1))
		require.NoError(t, err)
		path, err := tree.PathTo(4)
		require.NoError(t, err)
		// node 2 is settled before node 3 (equal distance, lower position),
		// so 2→4 is discovered first and kept.
		require.Equal(t, []int{0, 1}, path)
	}
}

func TestDijkstra_Unreached(t *testing.T) {
	n := diamond(t)

	tree, err := dijkstra.Dijkstra(n, []float64{1, 1, 1, 1}, dijkstra.Source(4))
	require.NoError(t, err)
	_, ok := tree.Distance(1)
	assert.False(t, ok)
	_, err = tree.PathTo(1)
	require.ErrorIs(t, err, dijkstra.ErrNoPath)
}

func TestDijkstra_TargetsStopEarly(t *testing.T) {
	tree, err := dijkstra.Dijkstra(diamond(t), []float64{1, 5, 1, 5}, dijkstra.Source(1), dijkstra.WithTargets(2))
	require.NoError(t, err)

	d, ok := tree.Distance(2)
	require.True(t, ok)
	assert.Equal(t, 1.0, d)

	var walked []int
	require.NoError(t, tree.EachPathLink(2, func(l int) { walked = append(walked, l) }))
	assert.Equal(t, []int{0}, walked)
}
