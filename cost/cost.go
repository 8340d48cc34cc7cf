// SPDX-License-Identifier: MIT
//
// File: cost.go
// Role: Link travel-time functions for the routed and the cognitive class.
// Policy:
//   - Functions are pure: output depends on (link, flow) only.
//   - Flow in [-Epsilon, 0) is clamped to zero; below that is ErrNegativeFlow.

package cost

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/trafficeq/network"
)

// Epsilon is the round-off tolerance for negative flow inputs.
const Epsilon = 1e-9

// Sentinel errors for cost evaluation.
var (
	// ErrNegativeFlow indicates a flow below -Epsilon was passed to a cost function.
	ErrNegativeFlow = errors.New("cost: negative flow")

	// ErrBadParams indicates invalid cost-function parameters.
	ErrBadParams = errors.New("cost: invalid parameters")
)

// Function maps the total flow on a link to a (perceived) travel time.
//
// Implementations must be non-decreasing and convex in flow so that the
// Frank-Wolfe line search on the Beckmann potential is well defined.
type Function interface {
	// Cost returns the travel time on l at total flow v.
	Cost(l network.Link, v float64) (float64, error)

	// Potential returns ∫₀ᵛ Cost(l, w) dw, the link's Beckmann term.
	Potential(l network.Link, v float64) (float64, error)
}

// BPR is the Bureau of Public Roads congestion function
//
//	t(v) = fftt · (1 + A·(v/capacity)^B)
type BPR struct {
	A float64
	B float64
}

// DefaultBPR returns the classic A=0.15, B=4 parameters.
func DefaultBPR() BPR { return BPR{A: 0.15, B: 4} }

// Validate reports ErrBadParams for A < 0 or B < 1 (B < 1 breaks convexity).
func (f BPR) Validate() error {
	if !(f.A >= 0) || !(f.B >= 1) || math.IsInf(f.A, 0) || math.IsInf(f.B, 0) {
		return fmt.Errorf("%w: bpr a=%g b=%g", ErrBadParams, f.A, f.B)
	}

	return nil
}

// Cost implements Function.
func (f BPR) Cost(l network.Link, v float64) (float64, error) {
	v, err := clampFlow(v)
	if err != nil {
		return 0, err
	}

	return l.FreeFlowTime * (1 + f.A*math.Pow(v/l.Capacity, f.B)), nil
}

// Potential implements Function:
//
//	∫₀ᵛ t(w) dw = fftt · (v + A·capacity/(B+1)·(v/capacity)^(B+1))
func (f BPR) Potential(l network.Link, v float64) (float64, error) {
	v, err := clampFlow(v)
	if err != nil {
		return 0, err
	}
	x := v / l.Capacity

	return l.FreeFlowTime * (v + f.A*l.Capacity/(f.B+1)*math.Pow(x, f.B+1)), nil
}

// Penalized multiplies a base function on links whose true capacity is below
// Threshold. It models travelers who perceive small roads as risky.
//
// With Ramp == 0 the multiplier is a hard cutoff: Multiplier when
// capacity < Threshold, 1 otherwise. With Ramp > 0 the multiplier grows
// linearly from 1 at capacity = Threshold to Multiplier at
// capacity ≤ Threshold − Ramp. Either way the factor depends on capacity
// only, so convexity in flow is preserved.
type Penalized struct {
	Base       Function
	Threshold  float64
	Multiplier float64
	Ramp       float64
}

// Validate reports ErrBadParams for a nil base, Multiplier < 1, a negative
// threshold or a negative ramp.
func (f Penalized) Validate() error {
	if f.Base == nil {
		return fmt.Errorf("%w: nil base function", ErrBadParams)
	}
	if !(f.Multiplier >= 1) || math.IsInf(f.Multiplier, 0) {
		return fmt.Errorf("%w: multiplier %g must be ≥ 1", ErrBadParams, f.Multiplier)
	}
	if !(f.Threshold >= 0) || !(f.Ramp >= 0) {
		return fmt.Errorf("%w: threshold=%g ramp=%g", ErrBadParams, f.Threshold, f.Ramp)
	}

	return nil
}

// Factor returns the multiplier applied to link l.
func (f Penalized) Factor(l network.Link) float64 {
	if l.Capacity >= f.Threshold {
		return 1
	}
	if f.Ramp <= 0 {
		return f.Multiplier
	}
	w := math.Min(1, (f.Threshold-l.Capacity)/f.Ramp)

	return 1 + (f.Multiplier-1)*w
}

// Cost implements Function.
func (f Penalized) Cost(l network.Link, v float64) (float64, error) {
	c, err := f.Base.Cost(l, v)
	if err != nil {
		return 0, err
	}

	return f.Factor(l) * c, nil
}

// Potential implements Function.
func (f Penalized) Potential(l network.Link, v float64) (float64, error) {
	p, err := f.Base.Potential(l, v)
	if err != nil {
		return 0, err
	}

	return f.Factor(l) * p, nil
}

func clampFlow(v float64) (float64, error) {
	switch {
	case math.IsNaN(v) || v < -Epsilon:
		return 0, fmt.Errorf("%w: %g", ErrNegativeFlow, v)
	case v < 0:
		return 0, nil
	}

	return v, nil
}
