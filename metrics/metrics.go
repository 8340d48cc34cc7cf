// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/trafficeq/cost"
	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/network"
	"github.com/katalvlaran/trafficeq/sweep"
)

// ShareFloor keeps per-link shares finite on empty links.
const ShareFloor = 1e-8

var (
	// ErrMissingClass is returned when a profile lacks a class the metrics need.
	ErrMissingClass = errors.New("metrics: class missing from profile")

	// ErrShape is returned when a profile does not cover the network's links.
	ErrShape = errors.New("metrics: profile does not match network")
)

// Row is the aggregate record of one alpha.
type Row struct {
	Key    int64   `json:"key" boltholdKey:"Key"`
	Alpha  float64 `json:"alpha"`
	Status string  `json:"status"`
	Err    string  `json:"err,omitempty"`

	// AvgCost is the true travel time per unit of demand over all travelers.
	AvgCost float64 `json:"avg_cost"`
	// AvgCostRouted and AvgCostNonRouted split AvgCost by class.
	AvgCostRouted    float64 `json:"avg_cost_routed"`
	AvgCostNonRouted float64 `json:"avg_cost_non_routed"`
	// AvgPerceivedNonRouted is the non-routed average under the cognitive cost.
	AvgPerceivedNonRouted float64 `json:"avg_perceived_non_routed"`

	// MaxCostRatio and MeanCostRatio reduce tt/fftt over links.
	MaxCostRatio  float64 `json:"max_cost_ratio"`
	MeanCostRatio float64 `json:"mean_cost_ratio"`

	// RoutedOnSmall and NonRoutedOnSmall are the fractions of each class's
	// link flow carried by links below the capacity threshold.
	RoutedOnSmall    float64 `json:"routed_on_small"`
	NonRoutedOnSmall float64 `json:"non_routed_on_small"`
}

// Calculator derives Rows from AlphaResults on the unscaled network.
type Calculator struct {
	net    *network.Network
	links  []network.Link
	params cost.Params
	small  []bool
}

// NewCalculator binds the network and the cost parameters of a sweep.
func NewCalculator(n *network.Network, p cost.Params) (*Calculator, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil network", network.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	links := n.Links()

	return &Calculator{net: n, links: links, params: p, small: cost.SmallCapacity(links, p.Threshold)}, nil
}

// SmallLinks returns the number of links below the capacity threshold.
func (c *Calculator) SmallLinks() int {
	var k int
	for _, s := range c.small {
		if s {
			k++
		}
	}

	return k
}

// Rows folds results into one Row each, in the given order. Failed
// results keep their status and zero metrics.
func (c *Calculator) Rows(results []*sweep.AlphaResult) ([]Row, error) {
	out := make([]Row, 0, len(results))
	for _, r := range results {
		row, err := c.Row(r)
		if err != nil {
			return nil, fmt.Errorf("metrics: alpha %g: %w", r.Alpha, err)
		}
		out = append(out, row)
	}

	return out, nil
}

// Row computes the metrics of one result.
func (c *Calculator) Row(r *sweep.AlphaResult) (Row, error) {
	row := Row{Key: r.Key, Alpha: r.Alpha, Status: r.Status, Err: r.Err}
	if r.Failed() || r.Profile == nil {
		return row, nil
	}
	if r.Profile.Links() != len(c.links) {
		return row, fmt.Errorf("%w: %d links, want %d", ErrShape, r.Profile.Links(), len(c.links))
	}
	if err := r.Profile.Validate(flow.DefaultEpsilon); err != nil {
		return row, fmt.Errorf("%w: %w", ErrShape, err)
	}
	rf, ok := r.Profile.Class(sweep.ClassRouted)
	if !ok {
		return row, fmt.Errorf("%w: %s", ErrMissingClass, sweep.ClassRouted)
	}
	nf, ok := r.Profile.Class(sweep.ClassNonRouted)
	if !ok {
		return row, fmt.Errorf("%w: %s", ErrMissingClass, sweep.ClassNonRouted)
	}
	routed, nonRouted, err := network.SplitDemands(c.net.Demands(), r.Alpha)
	if err != nil {
		return row, err
	}
	vr, vn := network.SumVolume(routed), network.SumVolume(nonRouted)
	total := r.Profile.Total()

	tt := make([]float64, len(c.links))
	if err := cost.Evaluate(c.params.Routed(), c.links, total, tt); err != nil {
		return row, err
	}
	perceived := make([]float64, len(c.links))
	if err := cost.Evaluate(c.params.Cognitive(), c.links, total, perceived); err != nil {
		return row, err
	}

	row.AvgCost = perUnit(floats.Dot(tt, total), vr+vn)
	row.AvgCostRouted = perUnit(floats.Dot(tt, rf), vr)
	row.AvgCostNonRouted = perUnit(floats.Dot(tt, nf), vn)
	row.AvgPerceivedNonRouted = perUnit(floats.Dot(perceived, nf), vn)

	ratios := Ratios(c.links, tt)
	if len(ratios) > 0 {
		row.MaxCostRatio = floats.Max(ratios)
		row.MeanCostRatio = floats.Sum(ratios) / float64(len(ratios))
	}
	row.RoutedOnSmall = c.onSmall(rf)
	row.NonRoutedOnSmall = c.onSmall(nf)

	return row, nil
}

// AverageCost returns Σ c(total)·own / volume under fn, 0 when volume is 0.
func AverageCost(fn cost.Function, links []network.Link, total, own flow.Vector, volume float64) (float64, error) {
	if len(own) != len(links) {
		return 0, fmt.Errorf("%w: %d links, want %d", ErrShape, len(own), len(links))
	}
	c := make([]float64, len(links))
	if err := cost.Evaluate(fn, links, total, c); err != nil {
		return 0, err
	}

	return perUnit(floats.Dot(c, own), volume), nil
}

// Ratios returns tt/fftt for every link with positive free-flow time, in
// link order; links with zero free-flow time are skipped.
func Ratios(links []network.Link, tt []float64) []float64 {
	out := make([]float64, 0, len(links))
	for i, l := range links {
		if l.FreeFlowTime > 0 {
			out = append(out, tt[i]/l.FreeFlowTime)
		}
	}

	return out
}

// NonRoutedShare returns nr/(r+nr) per link, with the denominator floored
// at ShareFloor.
func NonRoutedShare(p *flow.Profile) (flow.Vector, error) {
	for k, name := range p.Names {
		if name == sweep.ClassNonRouted {
			return p.Share(k, ShareFloor), nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMissingClass, sweep.ClassNonRouted)
}

// PathRow holds one class's flow on the links of interest for one alpha.
type PathRow struct {
	Alpha float64
	Flows []float64
}

// PathFlows extracts class flows on the given links for every result.
// Non-positive flows are reported as 0 and failed results are skipped.
func PathFlows(results []*sweep.AlphaResult, class string, links []int) ([]PathRow, error) {
	out := make([]PathRow, 0, len(results))
	for _, r := range results {
		if r.Failed() || r.Profile == nil {
			continue
		}
		v, ok := r.Profile.Class(class)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingClass, class)
		}
		row := PathRow{Alpha: r.Alpha, Flows: make([]float64, len(links))}
		for j, li := range links {
			if li < 0 || li >= len(v) {
				return nil, fmt.Errorf("%w: %d", network.ErrLinkIndex, li)
			}
			if v[li] > 0 {
				row.Flows[j] = v[li]
			}
		}
		out = append(out, row)
	}

	return out, nil
}

func (c *Calculator) onSmall(v flow.Vector) float64 {
	var small, all float64
	for i, x := range v {
		all += x
		if c.small[i] {
			small += x
		}
	}

	return perUnit(small, all)
}

func perUnit(sum, volume float64) float64 {
	if volume <= 0 {
		return 0
	}

	return sum / volume
}
