// SPDX-License-Identifier: MIT
// Package: trafficeq/builder
//
// impl_braess.go — implementation of Braess(fftt) constructor.
//
// Layout (relative link indices; s=origin, t=destination):
//
//	+0: s → a   cfg.lowCapacity,  fftt
//	+1: a → t   cfg.highCapacity, 2·fftt
//	+2: s → b   cfg.highCapacity, 2·fftt
//	+3: b → t   cfg.lowCapacity,  fftt
//	+4: a → b   cfg.highCapacity, fftt/10   (the Braess shortcut)
//
// Emits one demand row s→t with cfg.volume.

package builder

import "fmt"

const (
	methodBraess   = "Braess"
	braessShortcut = 0.1
)

// Braess returns a Constructor for the classic paradox network.
func Braess(fftt float64) Constructor {
	return func(t *tables, cfg builderConfig) error {
		if !(fftt > 0) {
			return fmt.Errorf("%s: fftt=%g: %w", methodBraess, fftt, ErrBadParam)
		}
		s, a, b, d := t.node(), t.node(), t.node(), t.node()
		t.link(s, a, cfg.lowCapacity, fftt)
		t.link(a, d, cfg.highCapacity, 2*fftt)
		t.link(s, b, cfg.highCapacity, 2*fftt)
		t.link(b, d, cfg.lowCapacity, fftt)
		t.link(a, b, cfg.highCapacity, braessShortcut*fftt)
		t.demand(s, d, cfg.volume)

		return nil
	}
}
