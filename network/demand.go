// SPDX-License-Identifier: MIT

package network

import (
	"fmt"
	"math"
)

// ScaleDemands returns a copy of demands with every volume multiplied by factor.
// Use factor = 1/reference to normalize volumes by a reference capacity before
// solving, and multiply flows by reference afterwards.
func ScaleDemands(demands []Demand, factor float64) ([]Demand, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return nil, fmt.Errorf("%w: scale factor %g", ErrInvalidInput, factor)
	}
	out := make([]Demand, len(demands))
	for i, d := range demands {
		d.Volume *= factor
		out[i] = d
	}

	return out, nil
}

// SplitDemands partitions every demand row into a routed part (1-alpha)·volume
// and a non-routed part alpha·volume. Row order is preserved in both outputs,
// so row i of each output refers to the same OD pair.
func SplitDemands(demands []Demand, alpha float64) (routed, nonRouted []Demand, err error) {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return nil, nil, fmt.Errorf("%w: alpha %g outside [0,1]", ErrInvalidInput, alpha)
	}
	routed = make([]Demand, len(demands))
	nonRouted = make([]Demand, len(demands))
	for i, d := range demands {
		r, nr := d, d
		r.Volume = (1 - alpha) * d.Volume
		nr.Volume = alpha * d.Volume
		routed[i] = r
		nonRouted[i] = nr
	}

	return routed, nonRouted, nil
}

// SumVolume returns the total volume of a demand table.
func SumVolume(demands []Demand) float64 {
	var sum float64
	for _, d := range demands {
		sum += d.Volume
	}

	return sum
}

// Scaled returns a copy of n with every capacity and every demand volume
// multiplied by factor (> 0). Volume-to-capacity ratios, and therefore BPR
// travel times, are unchanged; only the flow unit changes.
func (n *Network) Scaled(factor float64) (*Network, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: scale factor %g", ErrInvalidInput, factor)
	}
	links := n.Links()
	for i := range links {
		links[i].Capacity *= factor
	}
	demands, err := ScaleDemands(n.demands, factor)
	if err != nil {
		return nil, err
	}

	return New(links, demands)
}
