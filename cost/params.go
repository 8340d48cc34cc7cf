// SPDX-License-Identifier: MIT

package cost

import (
	"fmt"

	"github.com/katalvlaran/trafficeq/network"
)

// Params bundles the cost configuration of a sweep. It is immutable for the
// duration of a sweep; changing it means starting a new sweep.
type Params struct {
	// BPR is the congestion function shared by both classes.
	BPR BPR

	// Threshold is the capacity below which cognitive travelers inflate cost.
	Threshold float64

	// Penalty is the cognitive multiplier applied below Threshold.
	Penalty float64

	// Ramp, if > 0, turns the hard cutoff into a linear ramp of this width.
	Ramp float64
}

// DefaultParams returns BPR(0.15, 4), threshold 3000 and penalty 100.
func DefaultParams() Params {
	return Params{
		BPR:       DefaultBPR(),
		Threshold: 3000,
		Penalty:   100,
	}
}

// Validate checks every field.
func (p Params) Validate() error {
	if err := p.BPR.Validate(); err != nil {
		return err
	}

	return p.Cognitive().(Penalized).Validate()
}

// Routed returns the true travel-time function.
func (p Params) Routed() Function { return p.BPR }

// Cognitive returns the perceived travel-time function of non-routed travelers.
func (p Params) Cognitive() Function {
	return Penalized{Base: p.BPR, Threshold: p.Threshold, Multiplier: p.Penalty, Ramp: p.Ramp}
}

// Evaluate writes fn(links[i], total[i]) into dst[i] for every link.
func Evaluate(fn Function, links []network.Link, total, dst []float64) error {
	if len(total) != len(links) || len(dst) != len(links) {
		return fmt.Errorf("%w: links=%d flows=%d dst=%d", ErrBadParams, len(links), len(total), len(dst))
	}
	for i, l := range links {
		c, err := fn.Cost(l, total[i])
		if err != nil {
			return fmt.Errorf("link %d: %w", i, err)
		}
		dst[i] = c
	}

	return nil
}

// SmallCapacity marks links whose capacity is strictly below threshold.
func SmallCapacity(links []network.Link, threshold float64) []bool {
	out := make([]bool, len(links))
	for i, l := range links {
		out[i] = l.Capacity < threshold
	}

	return out
}

// Scaled returns p with Threshold and Ramp multiplied by factor, for use on
// a network whose capacities were scaled by the same factor.
func (p Params) Scaled(factor float64) Params {
	p.Threshold *= factor
	p.Ramp *= factor

	return p
}
