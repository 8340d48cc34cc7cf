// SPDX-License-Identifier: MIT

package flow

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NewVector returns a zero vector over n links.
func NewVector(n int) Vector { return make(Vector, n) }

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	return append(Vector(nil), v...)
}

// Sum returns the total flow over all links.
func (v Vector) Sum() float64 {
	if len(v) == 0 {
		return 0
	}

	return floats.Sum(v)
}

// Check verifies every entry is finite and ≥ -eps, clamping entries in
// [-eps, 0) to exactly zero. It reports the first violation as a LinkError.
func (v Vector) Check(eps float64) error {
	for i, x := range v {
		switch {
		case math.IsNaN(x) || math.IsInf(x, 0):
			return LinkError{Link: i, Value: x, Err: ErrNotFinite}
		case x < -eps:
			return LinkError{Link: i, Value: x, Err: ErrNegativeFlow}
		case x < 0:
			v[i] = 0
		}
	}

	return nil
}

// Combine writes dst = (1-step)·x + step·y, the Frank-Wolfe update.
// dst may alias x. step is clamped to [0,1].
func Combine(dst, x, y Vector, step float64) error {
	if len(x) != len(y) || len(dst) != len(x) {
		return ErrLengthMismatch
	}
	step = math.Max(0, math.Min(1, step))
	if len(x) == 0 {
		return nil
	}
	// dst = x + step·(y - x); computed per element so dst may alias x or y.
	for i := range dst {
		dst[i] = x[i] + step*(y[i]-x[i])
	}

	return nil
}

// Add writes dst = x + y. dst may alias either input.
func Add(dst, x, y Vector) error {
	if len(x) != len(y) || len(dst) != len(x) {
		return ErrLengthMismatch
	}
	if len(x) == 0 {
		return nil
	}
	floats.AddTo(dst, x, y)

	return nil
}

// Dot returns Σ x[i]·y[i].
func Dot(x, y Vector) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrLengthMismatch
	}
	if len(x) == 0 {
		return 0, nil
	}

	return floats.Dot(x, y), nil
}

// RelativeChange returns ‖cur − prev‖₁ / max(‖cur‖₁, eps). It is the outer
// convergence measure between coupling cycles.
func RelativeChange(cur, prev Vector, eps float64) (float64, error) {
	if len(cur) != len(prev) {
		return 0, ErrLengthMismatch
	}
	if len(cur) == 0 {
		return 0, nil
	}
	den := math.Max(floats.Norm(cur, 1), eps)

	return floats.Distance(cur, prev, 1) / den, nil
}
