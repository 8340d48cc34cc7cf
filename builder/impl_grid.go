// SPDX-License-Identifier: MIT
// Package: trafficeq/builder
//
// impl_grid.go — implementation of Grid(rows, cols, fftt) constructor.
//
// Contract:
//   • rows ≥ 2 and cols ≥ 2 (else ErrTooFewVertices); fftt > 0 (else ErrBadParam).
//   • Allocates rows·cols fresh nodes in row-major order.
//   • For each node in row-major order emits, when the neighbor exists:
//     right, left, down, up (four-neighborhood, both directions).
//   • Capacity policy: without a seed, horizontal links in even rows and
//     vertical links in even columns are high capacity, the rest low.
//     With WithSeed the capacity is drawn uniformly in [low, high].
//   • Demand rows: top-left → bottom-right and top-right → bottom-left.
//
// Complexity:
//   • Time/Space: O(rows·cols).

package builder

import "fmt"

const (
	methodGrid  = "Grid"
	minGridSide = 2
)

// Grid returns a Constructor that builds a rows×cols street grid.
func Grid(rows, cols int, fftt float64) Constructor {
	return func(t *tables, cfg builderConfig) error {
		if rows < minGridSide || cols < minGridSide {
			return fmt.Errorf("%s: rows=%d cols=%d < min=%d: %w", methodGrid, rows, cols, minGridSide, ErrTooFewVertices)
		}
		if !(fftt > 0) {
			return fmt.Errorf("%s: fftt=%g: %w", methodGrid, fftt, ErrBadParam)
		}

		ids := make([]int, rows*cols)
		for i := range ids {
			ids[i] = t.node()
		}
		at := func(r, c int) int { return ids[r*cols+c] }

		capacity := func(even bool) float64 {
			if cfg.rng != nil {
				return cfg.lowCapacity + cfg.rng.Float64()*(cfg.highCapacity-cfg.lowCapacity)
			}
			if even {
				return cfg.highCapacity
			}

			return cfg.lowCapacity
		}

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				u := at(r, c)
				if c+1 < cols {
					t.link(u, at(r, c+1), capacity(r%2 == 0), fftt)
				}
				if c > 0 {
					t.link(u, at(r, c-1), capacity(r%2 == 0), fftt)
				}
				if r+1 < rows {
					t.link(u, at(r+1, c), capacity(c%2 == 0), fftt)
				}
				if r > 0 {
					t.link(u, at(r-1, c), capacity(c%2 == 0), fftt)
				}
			}
		}

		t.demand(at(0, 0), at(rows-1, cols-1), cfg.volume)
		t.demand(at(0, cols-1), at(rows-1, 0), cfg.volume)

		return nil
	}
}
