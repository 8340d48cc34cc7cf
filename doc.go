// Package trafficeq computes traffic equilibria on a fixed road network
// shared by two kinds of travelers, and studies how the equilibrium moves
// as their mix changes.
//
// 🚦 What does it model?
//
//	• Routed travelers follow true shortest paths (BPR travel times).
//	• Non-routed travelers perceive an inflated, "cognitive" cost on links
//	  whose capacity is below a threshold, and avoid small roads.
//	• alpha ∈ [0,1] is the non-routed fraction of every OD demand.
//
// For each alpha the two classes are coupled (Gauss-Seidel or Jacobi) and
// each class is solved with Frank-Wolfe on all-or-nothing shortest-path
// loads. One flow artifact is persisted per alpha; aggregate metrics
// (average cost, tt/fftt ratios, path flows) are folded from them.
//
// Packages, leaves first:
//
//	network/     — immutable link and demand tables, demand split and scaling
//	cost/        — BPR and capacity-penalized cost functions
//	bfs/         — reachability checks on the link graph
//	dijkstra/    — deterministic shortest-path trees
//	assign/      — all-or-nothing assignment
//	flow/        — per-class flow vectors and profiles
//	frankwolfe/  — single-class user equilibrium
//	equilibrium/ — multi-class coupling
//	sweep/       — parametric driver over alphas
//	metrics/     — aggregate rows and path flows
//	store/       — bbolt-backed result store
//	config/      — TOML configuration
//	builder/     — synthetic networks (corridor, diamond, Braess, grid)
//	cmd/trafficeq — command-line interface
//
// Quick ASCII example (builder.Diamond):
//
//	      highway (cap 4000)
//	  [o] ─────────────────▶ [d]
//	    ╲                   ▲
//	     ╲ local (cap 1000) ╱
//	      ▶ ───── [m] ─────
//
//	go install github.com/katalvlaran/trafficeq/cmd/trafficeq@latest
//	trafficeq sweep --scenario diamond --alphas 0,0.5,1
package trafficeq
