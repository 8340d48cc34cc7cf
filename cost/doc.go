// Package cost provides link travel-time functions.
//
// Two traveler classes share every physical link but perceive its cost
// differently:
//
//   - routed travelers see the true BPR travel time
//     t(v) = fftt·(1 + a·(v/cap)^b), default a=0.15, b=4;
//   - non-routed (cognitive) travelers see the same curve multiplied by a
//     penalty (default 100) on links whose capacity is below a threshold
//     (default 3000). The multiplier is a hard cutoff unless Params.Ramp > 0,
//     in which case it rises linearly over a capacity band of that width.
//
// Every Function also exposes its Potential ∫₀ᵛ t(w) dw, the Beckmann term the
// Frank-Wolfe line search minimizes. Any monotone, convex form can be plugged in
// by implementing Function.
//
// Inputs are validated, not trusted: a flow in [-Epsilon, 0) is float
// round-off and is clamped to zero; anything lower returns ErrNegativeFlow.
package cost
