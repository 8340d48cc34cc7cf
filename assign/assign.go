// SPDX-License-Identifier: MIT

// Package assign loads origin-destination demand onto a network by
// all-or-nothing assignment: every demand row is placed, in full, on its
// currently cheapest path.
//
// Demands are grouped by origin in order of first appearance, one Dijkstra
// tree is grown per origin (stopping once that origin's destinations are
// settled), and each row's volume is added to every link of its tree path.
// Ties between equal-cost paths follow the dijkstra package's rule, so the
// same costs and demands always produce the same vector.
package assign

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/trafficeq/bfs"
	"github.com/katalvlaran/trafficeq/dijkstra"
	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/network"
)

// ErrShape is returned when the cost or destination vector does not have one entry per link.
var ErrShape = errors.New("assign: vector length does not match link count")

// Validate checks a demand table against n before any solve: schema
// (network.ErrInvalidInput) and reachability of every OD pair with positive
// volume (network.ErrUnreachable).
func Validate(ctx context.Context, n *network.Network, demands []network.Demand) error {
	if err := n.ValidateDemands(demands); err != nil {
		return err
	}

	return bfs.CheckDemands(ctx, n, demands)
}

// AllOrNothing zeroes dst and loads every demand on its cheapest path under
// costs. It returns Σ volume·shortest-distance, which equals Σ costs[i]·dst[i]
// and is the lower-bound term of the Frank-Wolfe duality gap.
//
// An OD pair with positive volume and no path yields an error wrapping
// network.ErrUnreachable.
func AllOrNothing(n *network.Network, costs []float64, demands []network.Demand, dst flow.Vector) (float64, error) {
	if len(costs) != n.NumLinks() || len(dst) != n.NumLinks() {
		return 0, fmt.Errorf("%w: costs=%d dst=%d links=%d", ErrShape, len(costs), len(dst), n.NumLinks())
	}
	for i := range dst {
		dst[i] = 0
	}

	var bound float64
	err := forEachTree(n, costs, demands, func(tree *dijkstra.Tree, row int, d network.Demand) error {
		dist, ok := tree.Distance(d.Destination)
		if !ok {
			return fmt.Errorf("%w: demand %d (%d→%d)", network.ErrUnreachable, row, d.Origin, d.Destination)
		}
		bound += d.Volume * dist

		return tree.EachPathLink(d.Destination, func(li int) { dst[li] += d.Volume })
	})
	if err != nil {
		return 0, err
	}

	return bound, nil
}

// ShortestPaths returns, for every demand row, the link indices of its
// cheapest path under costs. Rows with zero volume still get a path.
func ShortestPaths(n *network.Network, costs []float64, demands []network.Demand) ([][]int, error) {
	if len(costs) != n.NumLinks() {
		return nil, fmt.Errorf("%w: costs=%d links=%d", ErrShape, len(costs), n.NumLinks())
	}
	out := make([][]int, len(demands))
	all := make([]network.Demand, len(demands))
	for i, d := range demands {
		// force every row through the tree walk
		d.Volume = 1
		all[i] = d
	}
	err := forEachTree(n, costs, all, func(tree *dijkstra.Tree, row int, d network.Demand) error {
		p, err := tree.PathTo(d.Destination)
		if err != nil {
			return fmt.Errorf("%w: demand %d (%d→%d)", network.ErrUnreachable, row, d.Origin, d.Destination)
		}
		out[row] = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// forEachTree groups rows with positive volume by origin (first-appearance
// order), grows one target-limited tree per origin and calls fn for each row.
func forEachTree(
	n *network.Network,
	costs []float64,
	demands []network.Demand,
	fn func(tree *dijkstra.Tree, row int, d network.Demand) error,
) error {
	var origins []int
	rows := make(map[int][]int)
	for i, d := range demands {
		if d.Volume <= 0 {
			continue
		}
		if _, ok := rows[d.Origin]; !ok {
			origins = append(origins, d.Origin)
		}
		rows[d.Origin] = append(rows[d.Origin], i)
	}

	for _, o := range origins {
		targets := make([]int, 0, len(rows[o]))
		for _, i := range rows[o] {
			targets = append(targets, demands[i].Destination)
		}
		tree, err := dijkstra.Dijkstra(n, costs, dijkstra.Source(o), dijkstra.WithTargets(targets...))
		if err != nil {
			if errors.Is(err, dijkstra.ErrSourceNotFound) {
				return fmt.Errorf("%w: %w", network.ErrInvalidInput, err)
			}
			return err
		}
		for _, i := range rows[o] {
			if err := fn(tree, i, demands[i]); err != nil {
				return err
			}
		}
	}

	return nil
}
