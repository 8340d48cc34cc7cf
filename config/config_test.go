package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/trafficeq/config"
	"github.com/katalvlaran/trafficeq/network"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trafficeq.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	p := cfg.CostParams()
	assert.Equal(t, 0.15, p.BPR.A)
	assert.Equal(t, 4.0, p.BPR.B)
	assert.Equal(t, 3000.0, p.Threshold)
	assert.Equal(t, 100.0, p.Penalty)

	alphas, err := cfg.Alphas()
	require.NoError(t, err)
	assert.Len(t, alphas, 26)
	assert.Equal(t, 0.25, alphas[25])

	_, err = cfg.BuildNetwork()
	assert.ErrorIs(t, err, config.ErrNoNetwork)
}

func TestLoadFullFile(t *testing.T) {
	path := write(t, `
[cost]
penalty = 10.0
ramp = 500.0

[solver]
stop = 1e-4

[coupler]
scheme = "jacobi"
max_cycles = 20

[sweep]
alphas = [0.0, 0.5, 1.0]
scale = 4000.0
workers = 2
path_links = [0, 2]

[store]
path = "out.db"

[log]
level = "debug"

[[network.links]]
tail = 1
head = 2
capacity = 4000.0
length = 1.0
fftt = 10.0

[[network.links]]
tail = 1
head = 2
capacity = 1000.0
fftt = 8.0

[[network.demands]]
origin = 1
destination = 2
volume = 2000.0
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Cost.Penalty)
	assert.Equal(t, 3000.0, cfg.Cost.Threshold, "missing keys keep defaults")
	assert.Equal(t, 1e-4, cfg.Solver.Stop)
	assert.Equal(t, 1000, cfg.Solver.MaxIter)
	assert.Equal(t, []int{0, 2}, cfg.Sweep.PathLinks)
	assert.Equal(t, "out.db", cfg.Store.Path)

	alphas, err := cfg.Alphas()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, alphas)

	opts, err := cfg.CouplerOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
	assert.Len(t, cfg.SolverOptions(), 3)

	n, err := cfg.BuildNetwork()
	require.NoError(t, err)
	assert.Equal(t, 2, n.NumLinks())
	l, err := n.Link(1)
	require.NoError(t, err)
	assert.Equal(t, network.Link{Index: 1, Tail: 1, Head: 2, Capacity: 1000, FreeFlowTime: 8}, l)
	assert.Equal(t, 2000.0, n.TotalVolume())
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "[cost]\npenalti = 3.0\n",
		"bad penalty":    "[cost]\npenalty = 0.5\n",
		"bad stop":       "[solver]\nstop = 0.0\n",
		"bad scheme":     "[coupler]\nscheme = \"newton\"\n",
		"bad cycles":     "[coupler]\nmax_cycles = 0\n",
		"alpha range":    "[sweep]\nalphas = [0.5, 1.5]\n",
		"no steps":       "[sweep]\nsteps = 0\n",
		"bad scale":      "[sweep]\nscale = -1.0\n",
		"bad workers":    "[sweep]\nworkers = 0\n",
		"bad log level":  "[log]\nlevel = \"loud\"\n",
		"empty store":    "[store]\npath = \"\"\n",
		"orphan demands": "[[network.demands]]\norigin = 1\ndestination = 2\nvolume = 1.0\n",
	}
	for name, body := range cases {
		_, err := config.Load(write(t, body))
		assert.ErrorIs(t, err, config.ErrInvalid, name)
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = config.Load(write(t, "[cost\n"))
	assert.Error(t, err)
}

func TestNetworkValidation(t *testing.T) {
	cfg := config.Default()
	cfg.Network.Links = []config.LinkConfig{{Tail: 1, Head: 2, Capacity: -1, FreeFlowTime: 1}}
	_, err := cfg.BuildNetwork()
	assert.ErrorIs(t, err, network.ErrInvalidInput)
}

func TestBuildNetworkFromFields(t *testing.T) {
	cfg := config.Default()
	cfg.Network.Links = []config.LinkConfig{
		{Tail: 1, Head: 2, Capacity: 4000, FreeFlowTime: 10},
		{Tail: 2, Head: 3, Capacity: 1000, FreeFlowTime: 5},
	}
	cfg.Network.Demands = []config.DemandConfig{{Origin: 1, Destination: 3, Volume: 700}}
	require.NoError(t, cfg.Validate())

	n, err := cfg.BuildNetwork()
	require.NoError(t, err)
	assert.Equal(t, 2, n.NumLinks())
	assert.Equal(t, 3, n.NumNodes())
	assert.Equal(t, []network.Demand{{Origin: 1, Destination: 3, Volume: 700}}, n.Demands())
}
