package metrics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/trafficeq/builder"
	"github.com/katalvlaran/trafficeq/cost"
	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/metrics"
	"github.com/katalvlaran/trafficeq/network"
	"github.com/katalvlaran/trafficeq/sweep"
)

func corridor(t *testing.T) *network.Network {
	t.Helper()
	n, err := builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(500)}, builder.Corridor(1000, 10))
	require.NoError(t, err)
	return n
}

func result(alpha float64, routed, nonRouted flow.Vector) *sweep.AlphaResult {
	p := flow.NewProfile(len(routed), sweep.ClassRouted, sweep.ClassNonRouted)
	p.Classes[0], p.Classes[1] = routed, nonRouted
	return &sweep.AlphaResult{Key: sweep.Key(alpha), Alpha: alpha, Profile: p, Status: "converged"}
}

func TestRowOnCorridor(t *testing.T) {
	c, err := metrics.NewCalculator(corridor(t), cost.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, c.SmallLinks())

	row, err := c.Row(result(0.4, flow.Vector{300}, flow.Vector{200}))
	require.NoError(t, err)

	tt := 10 * (1 + 0.15*0.0625)
	assert.Equal(t, int64(400000), row.Key)
	assert.InDelta(t, tt, row.AvgCost, 1e-12)
	assert.InDelta(t, tt, row.AvgCostRouted, 1e-12)
	assert.InDelta(t, tt, row.AvgCostNonRouted, 1e-12)
	assert.InDelta(t, 100*tt, row.AvgPerceivedNonRouted, 1e-9)
	assert.InDelta(t, tt/10, row.MaxCostRatio, 1e-12)
	assert.InDelta(t, tt/10, row.MeanCostRatio, 1e-12)
	assert.Equal(t, 1.0, row.RoutedOnSmall)
	assert.Equal(t, 1.0, row.NonRoutedOnSmall)
}

func TestRowsKeepFailures(t *testing.T) {
	c, err := metrics.NewCalculator(corridor(t), cost.DefaultParams())
	require.NoError(t, err)

	rows, err := c.Rows([]*sweep.AlphaResult{
		result(0, flow.Vector{500}, flow.Vector{0}),
		{Key: sweep.Key(0.5), Alpha: 0.5, Status: sweep.StatusFailed, Err: "boom"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0.0, rows[0].AvgCostNonRouted)
	assert.Equal(t, 0.0, rows[0].NonRoutedOnSmall)
	assert.Equal(t, sweep.StatusFailed, rows[1].Status)
	assert.Equal(t, "boom", rows[1].Err)
	assert.Zero(t, rows[1].AvgCost)
}

func TestRowErrors(t *testing.T) {
	c, err := metrics.NewCalculator(corridor(t), cost.DefaultParams())
	require.NoError(t, err)

	_, err = c.Row(result(0, flow.Vector{1, 2}, flow.Vector{0, 0}))
	assert.ErrorIs(t, err, metrics.ErrShape)

	bad := &sweep.AlphaResult{Alpha: 0, Profile: flow.NewProfile(1, "cars", "bikes"), Status: "converged"}
	_, err = c.Rows([]*sweep.AlphaResult{bad})
	assert.ErrorIs(t, err, metrics.ErrMissingClass)

	_, err = metrics.NewCalculator(nil, cost.DefaultParams())
	assert.ErrorIs(t, err, network.ErrInvalidInput)
	p := cost.DefaultParams()
	p.Penalty = 0.5
	_, err = metrics.NewCalculator(corridor(t), p)
	assert.ErrorIs(t, err, cost.ErrBadParams)
}

func TestAverageCostAndRatios(t *testing.T) {
	links := corridor(t).Links()
	avg, err := metrics.AverageCost(cost.DefaultBPR(), links, flow.Vector{1000}, flow.Vector{1000}, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 11.5, avg, 1e-12)

	avg, err = metrics.AverageCost(cost.DefaultBPR(), links, flow.Vector{1000}, flow.Vector{0}, 0)
	require.NoError(t, err)
	assert.Zero(t, avg)

	_, err = metrics.AverageCost(cost.DefaultBPR(), links, flow.Vector{1000}, flow.Vector{0, 1}, 1)
	assert.ErrorIs(t, err, metrics.ErrShape)

	links = append(links, network.Link{Index: 1, Tail: 2, Head: 1, Capacity: 1})
	assert.Equal(t, []float64{2}, metrics.Ratios(links, []float64{20, 5}))
}

func TestNonRoutedShareAndPathFlows(t *testing.T) {
	r := result(0.5, flow.Vector{3, 0, 0}, flow.Vector{1, 2, -0})

	share, err := metrics.NonRoutedShare(r.Profile)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 1, 0}, share, 1e-12)

	_, err = metrics.NonRoutedShare(flow.NewProfile(1, "x"))
	assert.ErrorIs(t, err, metrics.ErrMissingClass)

	failed := &sweep.AlphaResult{Alpha: 0.7, Status: sweep.StatusFailed}
	rows, err := metrics.PathFlows([]*sweep.AlphaResult{r, failed}, sweep.ClassRouted, []int{2, 0})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, metrics.PathRow{Alpha: 0.5, Flows: []float64{0, 3}}, rows[0])

	_, err = metrics.PathFlows([]*sweep.AlphaResult{r}, sweep.ClassRouted, []int{9})
	assert.ErrorIs(t, err, network.ErrLinkIndex)
	_, err = metrics.PathFlows([]*sweep.AlphaResult{r}, "trucks", []int{0})
	assert.ErrorIs(t, err, metrics.ErrMissingClass)
}

func TestSweepToMetrics(t *testing.T) {
	n, err := builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(2000)}, builder.Diamond(10, 8))
	require.NoError(t, err)
	store := sweep.NewMemoryStore()
	d, err := sweep.New(n, store)
	require.NoError(t, err)
	_, err = d.Run(context.Background(), []float64{0, 1})
	require.NoError(t, err)

	results, err := store.List()
	require.NoError(t, err)
	c, err := metrics.NewCalculator(n, cost.DefaultParams())
	require.NoError(t, err)
	rows, err := c.Rows(results)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// alpha = 0: only routed travelers, who use the detour.
	assert.Zero(t, rows[0].AvgCostNonRouted)
	assert.Greater(t, rows[0].RoutedOnSmall, 0.0)
	// alpha = 1: everybody stays on the highway.
	assert.Zero(t, rows[1].AvgCostRouted)
	assert.Zero(t, rows[1].NonRoutedOnSmall)
	assert.InDelta(t, 10*(1+0.15*0.0625), rows[1].AvgCost, 1e-9)
	assert.Greater(t, rows[1].AvgCost, rows[0].AvgCost)
}

func TestRoutesFollowPerceivedCost(t *testing.T) {
	// links: 0 o→d highway (fftt 10), 1 o→m and 2 m→d local (fftt 4 each)
	n, err := builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(2000)}, builder.Diamond(10, 8))
	require.NoError(t, err)
	c, err := metrics.NewCalculator(n, cost.DefaultParams())
	require.NoError(t, err)

	empty := result(0.5, flow.Vector{0, 0, 0}, flow.Vector{0, 0, 0})
	routes, err := c.Routes(empty, sweep.ClassRouted)
	require.NoError(t, err)
	assert.Equal(t, []metrics.Route{{Origin: 1, Destination: 3, Links: []int{1, 2}}}, routes)

	routes, err = c.Routes(empty, sweep.ClassNonRouted)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, routes[0].Links)

	// a congested detour (4·(1+0.15·2⁴) = 13.6 per link) sends routed travelers to the highway
	busy := result(0.5, flow.Vector{0, 2000, 2000}, flow.Vector{0, 0, 0})
	routes, err = c.Routes(busy, sweep.ClassRouted)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, routes[0].Links)

	_, err = c.Routes(busy, "trucks")
	assert.ErrorIs(t, err, metrics.ErrMissingClass)
	_, err = c.Routes(&sweep.AlphaResult{Alpha: 0.3, Status: sweep.StatusFailed}, sweep.ClassRouted)
	assert.ErrorIs(t, err, metrics.ErrNoFlows)
	_, err = c.Routes(result(0.5, flow.Vector{1}, flow.Vector{1}), sweep.ClassRouted)
	assert.ErrorIs(t, err, metrics.ErrShape)
}
