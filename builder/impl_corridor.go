// SPDX-License-Identifier: MIT
// Package: trafficeq/builder
//
// impl_corridor.go — implementation of Corridor(capacity, fftt) constructor.
//
// Contract:
//   • capacity > 0 and fftt > 0 (else ErrBadParam).
//   • Allocates two fresh nodes o, d and one link o→d.
//   • Emits one demand row o→d with cfg.volume.

package builder

import "fmt"

const methodCorridor = "Corridor"

// Corridor returns a Constructor that builds a single-link corridor.
func Corridor(capacity, fftt float64) Constructor {
	return func(t *tables, cfg builderConfig) error {
		if !(capacity > 0) || !(fftt > 0) {
			return fmt.Errorf("%s: capacity=%g fftt=%g: %w", methodCorridor, capacity, fftt, ErrBadParam)
		}
		o, d := t.node(), t.node()
		t.link(o, d, capacity, fftt)
		t.demand(o, d, cfg.volume)

		return nil
	}
}
