// SPDX-License-Identifier: MIT

package frankwolfe

import (
	"fmt"
	"math"
)

// lineSearch minimizes φ(s) = Σ P(fixed + x + s·(y − x)) over s ∈ [0,1].
//
// φ is convex, so its derivative
//
//	φ'(s) = Σ c(fixed + x + s·d)·d,   d = y − x
//
// is non-decreasing and the minimizer is found by bisection on its sign.
// The returned step is the lower end of the final bracket: φ' < 0 on
// [0, step], which guarantees φ(step) ≤ φ(0).
func (r *run) lineSearch() (float64, error) {
	d0, err := r.derivative(0)
	if err != nil {
		return 0, err
	}
	if d0 >= 0 {
		return 0, nil
	}
	d1, err := r.derivative(1)
	if err != nil {
		return 0, err
	}
	if d1 <= 0 {
		return 1, nil
	}

	lo, hi := 0.0, 1.0
	for i := 0; i < r.s.opts.LineSearchIter && hi-lo > r.s.opts.LineSearchTol; i++ {
		mid := 0.5 * (lo + hi)
		dm, err := r.derivative(mid)
		if err != nil {
			return 0, err
		}
		if dm < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo, nil
}

// derivative evaluates φ'(s).
func (r *run) derivative(step float64) (float64, error) {
	var sum float64
	for i, l := range r.s.links {
		d := r.y[i] - r.x[i]
		if d == 0 {
			continue
		}
		v := r.fixed[i] + r.x[i] + step*d
		c, err := r.s.fn.Cost(l, v)
		if err != nil {
			return 0, fmt.Errorf("%w: line search link %d: %w", ErrNumericInstability, i, err)
		}
		sum += c * d
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("%w: line search derivative=%g at step %g", ErrNumericInstability, sum, step)
	}

	return sum, nil
}
