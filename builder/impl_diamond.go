// SPDX-License-Identifier: MIT
// Package: trafficeq/builder
//
// impl_diamond.go — implementation of Diamond(highway, local) constructor.
//
// Layout (link indices relative to the constructor's first link):
//
//	+0: o → d   highway, cfg.highCapacity, free-flow time = highway
//	+1: o → m   local,   cfg.lowCapacity,  free-flow time = local/2
//	+2: m → d   local,   cfg.lowCapacity,  free-flow time = local/2
//
// With local < highway the uncongested shortest path is the local detour,
// while a capacity-penalizing perception prefers the highway.
// Emits one demand row o→d with cfg.volume.

package builder

import "fmt"

const methodDiamond = "Diamond"

// Diamond returns a Constructor for a two-route choice between one
// high-capacity link and a two-link low-capacity detour.
func Diamond(highway, local float64) Constructor {
	return func(t *tables, cfg builderConfig) error {
		if !(highway > 0) || !(local > 0) {
			return fmt.Errorf("%s: highway=%g local=%g: %w", methodDiamond, highway, local, ErrBadParam)
		}
		o, m, d := t.node(), t.node(), t.node()
		t.link(o, d, cfg.highCapacity, highway)
		t.link(o, m, cfg.lowCapacity, local/2)
		t.link(m, d, cfg.lowCapacity, local/2)
		t.demand(o, d, cfg.volume)

		return nil
	}
}
