// Package sweep drives the mixed-class equilibrium over a sequence of
// mixing ratios (alphas) and persists one AlphaResult per alpha.
//
// For each alpha the demand table is split into a routed part (1−alpha)
// that perceives true travel times and a non-routed part (alpha) that
// perceives the cognitive cost, and the two classes are coupled with
// package equilibrium. Alphas are independent: a Driver solves them on an
// ants worker pool (WithWorkers) while the network and cost parameters stay
// shared and read-only.
//
// Errors are split in two groups:
//
//   - fatal, returned by Run before any solve: alphas outside [0,1] or with
//     colliding keys (network.ErrInvalidInput), invalid or unreachable
//     demands (network.ErrInvalidInput, network.ErrUnreachable);
//   - per alpha, recorded in AlphaResult.Status and AlphaResult.Err:
//     "max_iter_exceeded" keeps its flow, "failed" has none.
//
// Results are stored through the Store interface, keyed by
// round(alpha·1e6). MemoryStore is provided here; package store offers a
// persistent implementation.
package sweep
