// Package frankwolfe solves the single-class traffic assignment problem
// (user equilibrium) with the Frank-Wolfe conditional-gradient method.
//
// The solver minimizes the Beckmann potential
//
//	Φ(x) = Σᵢ ∫_{fᵢ}^{fᵢ+xᵢ} cᵢ(w) dw
//
// over the feasible own-class flows x, where f is a frozen flow contributed by
// other traveler classes on the same links (zero for a single-class run).
// Each iteration linearizes Φ at x, which is an all-or-nothing assignment on
// the current costs, and moves toward that target by an exactly line-searched
// step. With exact steps Φ is non-increasing from one iteration to the next;
// Result.Objectives records it.
//
// # Convergence
//
// The stopping test is the relative duality gap
//
//	gap = (Σ c·x − Σ c·y) / Σ c·x
//
// with y the all-or-nothing target. The run is Converged once gap < Stop.
// When MaxIter updates have been made without meeting Stop, Solve returns the
// best available Result (Status MaxIterExceeded) together with an error
// wrapping ErrNonConvergence, so non-convergence cannot be mistaken for success.
//
// # Failure modes
//
//   - network.ErrInvalidInput: bad demand rows or a fixed/warm vector of the
//     wrong length or with negative entries.
//   - network.ErrUnreachable: an OD pair has no path.
//   - ErrNumericInstability: NaN, ±Inf or negative values mid-run. No result.
//
// # Warm starts
//
// A warm vector must be feasible for the demands passed to the same call,
// typically the previous result for the same class. The coupling layer uses
// this between outer cycles.
//
// Example:
//
//	s, _ := frankwolfe.New(net, cost.DefaultBPR(), frankwolfe.WithStop(1e-4))
//	res, err := s.Solve(ctx, net.Demands(), nil, nil)
package frankwolfe
