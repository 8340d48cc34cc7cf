// SPDX-License-Identifier: MIT

// Package config loads the TOML configuration of a sweep and turns it into
// the option sets of the solver packages.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/trafficeq/cost"
	"github.com/katalvlaran/trafficeq/equilibrium"
	"github.com/katalvlaran/trafficeq/frankwolfe"
	"github.com/katalvlaran/trafficeq/network"
	"github.com/katalvlaran/trafficeq/sweep"
)

// ErrInvalid is the cause of every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// ErrNoNetwork is returned by BuildNetwork when the file carries no [network] table.
var ErrNoNetwork = errors.New("config: no inline network")

// Config is the whole configuration file. Sections left out keep Default values.
type Config struct {
	Cost    CostConfig    `toml:"cost"`
	Solver  SolverConfig  `toml:"solver"`
	Coupler CouplerConfig `toml:"coupler"`
	Sweep   SweepConfig   `toml:"sweep"`
	Store   StoreConfig   `toml:"store"`
	Log     LogConfig     `toml:"log"`
	Network NetworkConfig `toml:"network"`
}

// CostConfig is the [cost] section: BPR parameters and the cognitive penalty.
type CostConfig struct {
	A         float64 `toml:"a"`
	B         float64 `toml:"b"`
	Threshold float64 `toml:"threshold"`
	Penalty   float64 `toml:"penalty"`
	Ramp      float64 `toml:"ramp"`
}

// SolverConfig is the [solver] section of the per-class Frank-Wolfe runs.
type SolverConfig struct {
	MaxIter        int     `toml:"max_iter"`
	Stop           float64 `toml:"stop"`
	LineSearchIter int     `toml:"line_search_iter"`
	LineSearchTol  float64 `toml:"line_search_tol"`
}

// CouplerConfig is the [coupler] section of the outer class loop.
type CouplerConfig struct {
	MaxCycles int     `toml:"max_cycles"`
	StopCycle float64 `toml:"stop_cycle"`
	Scheme    string  `toml:"scheme"`
}

// SweepConfig lists alphas explicitly, or as Steps evenly spaced values
// over [From, To] when Alphas is empty.
type SweepConfig struct {
	Alphas    []float64 `toml:"alphas"`
	From      float64   `toml:"from"`
	To        float64   `toml:"to"`
	Steps     int       `toml:"steps"`
	Scale     float64   `toml:"scale"`
	Workers   int       `toml:"workers"`
	PathLinks []int     `toml:"path_links"`
}

// StoreConfig is the [store] section.
type StoreConfig struct {
	Path string `toml:"path"`
}

// LogConfig is the [log] section; File enables rotated file output.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// NetworkConfig is the inline [network] table.
type NetworkConfig struct {
	Links   []LinkConfig   `toml:"links"`
	Demands []DemandConfig `toml:"demands"`
}

// LinkConfig is one [[network.links]] row.
type LinkConfig struct {
	Tail         int     `toml:"tail"`
	Head         int     `toml:"head"`
	Capacity     float64 `toml:"capacity"`
	Length       float64 `toml:"length"`
	FreeFlowTime float64 `toml:"fftt"`
}

// DemandConfig is one [[network.demands]] row.
type DemandConfig struct {
	Origin      int     `toml:"origin"`
	Destination int     `toml:"destination"`
	Volume      float64 `toml:"volume"`
}

// Default returns the configuration used when no file is given: the
// defaults of every solver package and an alpha grid of 0, 0.01, …, 0.25.
func Default() *Config {
	p := cost.DefaultParams()
	fw := frankwolfe.DefaultOptions()
	eq := equilibrium.DefaultOptions()

	return &Config{
		Cost: CostConfig{A: p.BPR.A, B: p.BPR.B, Threshold: p.Threshold, Penalty: p.Penalty},
		Solver: SolverConfig{
			MaxIter:        fw.MaxIter,
			Stop:           fw.Stop,
			LineSearchIter: fw.LineSearchIter,
			LineSearchTol:  fw.LineSearchTol,
		},
		Coupler: CouplerConfig{MaxCycles: eq.MaxCycles, StopCycle: eq.StopCycle, Scheme: eq.Scheme.String()},
		Sweep:   SweepConfig{From: 0, To: 0.25, Steps: 26, Scale: 1, Workers: 1},
		Store:   StoreConfig{Path: "trafficeq.db"},
		Log:     LogConfig{Level: "info", MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 30, Compress: true},
	}
}

// Load decodes path over Default and validates the result. Unknown keys
// are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Wrapf(ErrInvalid, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "config file %s", path)
	}

	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.CostParams().Validate(); err != nil {
		return errors.Wrapf(ErrInvalid, "[cost]: %v", err)
	}
	if s := c.Solver; s.MaxIter < 0 || !(s.Stop > 0) || s.LineSearchIter < 1 || !(s.LineSearchTol > 0) {
		return errors.Wrapf(ErrInvalid, "[solver] max_iter=%d stop=%g line_search_iter=%d line_search_tol=%g",
			s.MaxIter, s.Stop, s.LineSearchIter, s.LineSearchTol)
	}
	if _, err := c.CouplerOptions(); err != nil {
		return err
	}
	if _, err := c.Alphas(); err != nil {
		return err
	}
	if !(c.Sweep.Scale > 0) {
		return errors.Wrapf(ErrInvalid, "[sweep] scale %g must be positive", c.Sweep.Scale)
	}
	if c.Sweep.Workers < 1 {
		return errors.Wrapf(ErrInvalid, "[sweep] workers %d must be at least 1", c.Sweep.Workers)
	}
	if c.Store.Path == "" {
		return errors.Wrap(ErrInvalid, "[store] path is empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalid, "[log]: %v", err)
	}
	if len(c.Network.Demands) > 0 && len(c.Network.Links) == 0 {
		return errors.Wrap(ErrInvalid, "[network] demands without links")
	}

	return nil
}

// CostParams returns the [cost] section as cost.Params.
func (c *Config) CostParams() cost.Params {
	return cost.Params{
		BPR:       cost.BPR{A: c.Cost.A, B: c.Cost.B},
		Threshold: c.Cost.Threshold,
		Penalty:   c.Cost.Penalty,
		Ramp:      c.Cost.Ramp,
	}
}

// SolverOptions returns the [solver] section as frankwolfe options.
func (c *Config) SolverOptions() []frankwolfe.Option {
	return []frankwolfe.Option{
		frankwolfe.WithMaxIter(c.Solver.MaxIter),
		frankwolfe.WithStop(c.Solver.Stop),
		frankwolfe.WithLineSearch(c.Solver.LineSearchIter, c.Solver.LineSearchTol),
	}
}

// CouplerOptions returns the [coupler] section as equilibrium options.
func (c *Config) CouplerOptions() ([]equilibrium.Option, error) {
	scheme, err := equilibrium.ParseScheme(c.Coupler.Scheme)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalid, "[coupler]: %v", err)
	}
	if c.Coupler.MaxCycles < 1 || !(c.Coupler.StopCycle > 0) {
		return nil, errors.Wrapf(ErrInvalid, "[coupler] max_cycles=%d stop_cycle=%g",
			c.Coupler.MaxCycles, c.Coupler.StopCycle)
	}

	return []equilibrium.Option{
		equilibrium.WithMaxCycles(c.Coupler.MaxCycles),
		equilibrium.WithStopCycle(c.Coupler.StopCycle),
		equilibrium.WithScheme(scheme),
	}, nil
}

// Alphas returns the sweep grid.
func (c *Config) Alphas() ([]float64, error) {
	alphas := c.Sweep.Alphas
	if len(alphas) == 0 {
		if c.Sweep.Steps < 1 {
			return nil, errors.Wrapf(ErrInvalid, "[sweep] steps %d must be at least 1", c.Sweep.Steps)
		}
		alphas = sweep.Linspace(c.Sweep.From, c.Sweep.To, c.Sweep.Steps)
	}
	for _, a := range alphas {
		if !(a >= 0 && a <= 1) {
			return nil, errors.Wrapf(ErrInvalid, "[sweep] alpha %g outside [0,1]", a)
		}
	}

	return alphas, nil
}

// BuildNetwork builds the inline [network] table. Links are indexed in file order.
func (c *Config) BuildNetwork() (*network.Network, error) {
	if len(c.Network.Links) == 0 {
		return nil, ErrNoNetwork
	}
	links := make([]network.Link, len(c.Network.Links))
	for i, l := range c.Network.Links {
		links[i] = network.Link{
			Index:        i,
			Tail:         l.Tail,
			Head:         l.Head,
			Capacity:     l.Capacity,
			Length:       l.Length,
			FreeFlowTime: l.FreeFlowTime,
		}
	}
	demands := make([]network.Demand, len(c.Network.Demands))
	for i, d := range c.Network.Demands {
		demands[i] = network.Demand{Origin: d.Origin, Destination: d.Destination, Volume: d.Volume}
	}
	n, err := network.New(links, demands)
	if err != nil {
		return nil, errors.Wrap(err, "[network]")
	}

	return n, nil
}
