package equilibrium_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/trafficeq/builder"
	"github.com/katalvlaran/trafficeq/cost"
	"github.com/katalvlaran/trafficeq/equilibrium"
	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/frankwolfe"
	"github.com/katalvlaran/trafficeq/network"
)

const (
	routed    = "routed"
	nonRouted = "non_routed"
)

// mixed splits the network's demand at alpha and returns a routed and a
// non-routed class under p.
func mixed(t *testing.T, n *network.Network, alpha float64, p cost.Params) []equilibrium.Class {
	t.Helper()
	r, nr, err := network.SplitDemands(n.Demands(), alpha)
	require.NoError(t, err)

	sr, err := frankwolfe.New(n, p.Routed(), frankwolfe.WithName(routed), frankwolfe.WithStop(1e-6))
	require.NoError(t, err)
	snr, err := frankwolfe.New(n, p.Cognitive(), frankwolfe.WithName(nonRouted), frankwolfe.WithStop(1e-6))
	require.NoError(t, err)

	return []equilibrium.Class{{Solver: sr, Demands: r}, {Solver: snr, Demands: nr}}
}

func run(t *testing.T, n *network.Network, alpha float64, p cost.Params, opts ...equilibrium.Option) *equilibrium.Result {
	t.Helper()
	c, err := equilibrium.New(n.NumLinks(), mixed(t, n, alpha, p), opts...)
	require.NoError(t, err)
	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Converged())
	return res
}

func diamond(t *testing.T) *network.Network {
	t.Helper()
	n, err := builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(2000)}, builder.Diamond(10, 8))
	require.NoError(t, err)
	return n
}

func class(t *testing.T, res *equilibrium.Result, name string) flow.Vector {
	t.Helper()
	v, ok := res.Profile.Class(name)
	require.True(t, ok)
	return v
}

func TestAlphaBoundaries(t *testing.T) {
	n := diamond(t)

	res := run(t, n, 0, cost.DefaultParams())
	assert.Equal(t, flow.Vector{0, 0, 0}, class(t, res, nonRouted))
	assert.InDelta(t, 2000, class(t, res, routed).Sum()-class(t, res, routed)[2], 1e-6)

	res = run(t, n, 1, cost.DefaultParams())
	assert.Equal(t, flow.Vector{0, 0, 0}, class(t, res, routed))
	assert.Equal(t, flow.Vector{2000, 0, 0}, class(t, res, nonRouted))
}

func TestCorridorPenalty(t *testing.T) {
	n, err := builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(500)}, builder.Corridor(1000, 10))
	require.NoError(t, err)
	p := cost.DefaultParams()
	l, err := n.Link(0)
	require.NoError(t, err)
	free := 10 * (1 + 0.15*math.Pow(0.5, 4))

	for _, alpha := range []float64{0, 1} {
		res := run(t, n, alpha, p)
		total := res.Profile.Total()
		assert.InDelta(t, 500, total[0], 1e-9, "alpha=%g", alpha)

		tt, err := p.Routed().Cost(l, total[0])
		require.NoError(t, err)
		assert.InDelta(t, free, tt, 1e-12)

		perceived, err := p.Cognitive().Cost(l, total[0])
		require.NoError(t, err)
		assert.InDelta(t, 100*free, perceived, 1e-9)
	}
}

func TestConservationPerClass(t *testing.T) {
	n := diamond(t)
	for _, scheme := range []equilibrium.Scheme{equilibrium.SchemeGaussSeidel, equilibrium.SchemeJacobi} {
		res := run(t, n, 0.4, cost.DefaultParams(), equilibrium.WithScheme(scheme), equilibrium.WithMaxCycles(200))

		r, nr := class(t, res, routed), class(t, res, nonRouted)
		assert.InDelta(t, 1200, r[0]+r[1], 1e-6, scheme.String())
		assert.InDelta(t, r[1], r[2], 1e-6, scheme.String())
		assert.InDelta(t, 800, nr[0]+nr[1], 1e-6, scheme.String())
		assert.InDelta(t, nr[1], nr[2], 1e-6, scheme.String())
	}
}

func TestSchemesAgree(t *testing.T) {
	n := diamond(t)
	p := cost.DefaultParams()

	gs := run(t, n, 0.5, p, equilibrium.WithStopCycle(1e-6))
	jc := run(t, n, 0.5, p, equilibrium.WithStopCycle(1e-6), equilibrium.WithScheme(equilibrium.SchemeJacobi))

	tg, tj := gs.Profile.Total(), jc.Profile.Total()
	for i := range tg {
		assert.InDelta(t, tg[i], tj[i], 1e-6, "link %d", i)
	}
	assert.Greater(t, jc.Cycles, 1)
}

func TestNonRoutedLeavesSmallRoadsAsPenaltyGrows(t *testing.T) {
	n := diamond(t)
	prev := math.Inf(1)
	var first float64
	for i, penalty := range []float64{1, 1.05, 1.1, 1.3, 2, 100} {
		p := cost.DefaultParams()
		p.Penalty = penalty
		res := run(t, n, 0.5, p, equilibrium.WithMaxCycles(500), equilibrium.WithStopCycle(1e-6))

		local := class(t, res, nonRouted)[1]
		if i == 0 {
			first = local
		}
		assert.LessOrEqual(t, local, prev+1e-3, "penalty=%g", penalty)
		prev = local
	}
	assert.Greater(t, first, 0.0)
	assert.InDelta(t, 0, prev, 1e-9)
}

func TestCycleCapReturnsResult(t *testing.T) {
	n := diamond(t)
	c, err := equilibrium.New(n.NumLinks(), mixed(t, n, 0.5, cost.DefaultParams()), equilibrium.WithMaxCycles(1))
	require.NoError(t, err)

	res, err := c.Run(context.Background())
	require.ErrorIs(t, err, frankwolfe.ErrNonConvergence)
	require.NotNil(t, res)
	assert.Equal(t, frankwolfe.StatusMaxIterExceeded, res.Status)
	assert.Equal(t, 1, res.Cycles)
	assert.InDelta(t, 2000, res.Profile.Total()[0]+res.Profile.Total()[1], 1e-6)
}

// stubSolver replays a fixed answer.
type stubSolver struct {
	name string
	res  *frankwolfe.Result
	err  error
}

func (s stubSolver) Name() string { return s.name }

func (s stubSolver) Solve(context.Context, []network.Demand, flow.Vector, flow.Vector) (*frankwolfe.Result, error) {
	if s.res == nil {
		return nil, s.err
	}
	r := *s.res
	r.Flow = s.res.Flow.Clone()
	return &r, s.err
}

func TestInnerFailures(t *testing.T) {
	demand := []network.Demand{{Origin: 1, Destination: 2, Volume: 1}}
	ctx := context.Background()

	unstable := stubSolver{name: "a", err: fmt.Errorf("%w: boom", frankwolfe.ErrNumericInstability)}
	c, err := equilibrium.New(1, []equilibrium.Class{{Solver: unstable, Demands: demand}})
	require.NoError(t, err)
	_, err = c.Run(ctx)
	assert.ErrorIs(t, err, frankwolfe.ErrNumericInstability)

	stuck := stubSolver{
		name: "b",
		res:  &frankwolfe.Result{Flow: flow.Vector{1}, Status: frankwolfe.StatusMaxIterExceeded},
		err:  frankwolfe.ErrNonConvergence,
	}
	c, err = equilibrium.New(1, []equilibrium.Class{{Solver: stuck, Demands: demand}}, equilibrium.WithMaxCycles(3))
	require.NoError(t, err)
	res, err := c.Run(ctx)
	require.ErrorIs(t, err, frankwolfe.ErrNonConvergence)
	assert.Equal(t, 3, res.Cycles)
	assert.Equal(t, 0.0, res.Change)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.Run(canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewErrors(t *testing.T) {
	s := stubSolver{name: "a"}

	_, err := equilibrium.New(1, nil)
	assert.ErrorIs(t, err, equilibrium.ErrNoClasses)
	_, err = equilibrium.New(1, []equilibrium.Class{{}})
	assert.ErrorIs(t, err, equilibrium.ErrNilSolver)
	_, err = equilibrium.New(1, []equilibrium.Class{{Solver: s}, {Solver: s}})
	assert.ErrorIs(t, err, equilibrium.ErrDuplicateClass)
	_, err = equilibrium.New(0, []equilibrium.Class{{Solver: s}})
	assert.ErrorIs(t, err, network.ErrInvalidInput)

	for name, opt := range map[string]equilibrium.Option{
		"stop":   equilibrium.WithStopCycle(-1),
		"cycles": equilibrium.WithMaxCycles(0),
		"scheme": equilibrium.WithScheme(equilibrium.Scheme(7)),
	} {
		_, err := equilibrium.New(1, []equilibrium.Class{{Solver: s}}, opt)
		assert.ErrorIs(t, err, equilibrium.ErrOptionViolation, name)
	}
}

func TestParseScheme(t *testing.T) {
	s, err := equilibrium.ParseScheme("jacobi")
	require.NoError(t, err)
	assert.Equal(t, equilibrium.SchemeJacobi, s)

	s, err = equilibrium.ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, equilibrium.SchemeGaussSeidel, s)

	_, err = equilibrium.ParseScheme("newton")
	assert.ErrorIs(t, err, equilibrium.ErrOptionViolation)
}
