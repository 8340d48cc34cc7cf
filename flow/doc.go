// Package flow holds link-flow vectors and multi-class flow profiles.
//
// A Vector carries one flow value per network link, indexed by the link's
// stable index. A Profile stacks one Vector per traveler class (for example
// "routed" and "non_routed") so that the combined flow on a shared physical
// link is Profile.Total()[i].
//
// # Numerics
//
// Vectors are plain []float64 and the arithmetic is delegated to
// gonum.org/v1/gonum/floats. Vector.Check enforces the solver invariant that
// every flow is finite and non-negative: values in [-Epsilon, 0) are round-off
// and are clamped to zero, anything further below is ErrNegativeFlow, and NaN
// or ±Inf is ErrNotFinite.
//
// # Key helpers
//
//	Combine(dst, x, y, s)       // dst = (1-s)·x + s·y, the Frank-Wolfe move
//	RelativeChange(cur, prev)   // ‖cur−prev‖₁ / ‖cur‖₁, the coupling criterion
//	Profile.Others(k)           // frozen cross-class flow for class k
//	Profile.Share(k, 1e-8)      // class k's share of each link
//
// Vectors are not safe for concurrent mutation. Each solver owns its own.
package flow
