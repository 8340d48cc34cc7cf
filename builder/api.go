// SPDX-License-Identifier: MIT
// Package: trafficeq/builder
//
// api.go - thin public entry-points for the builder package.
//
// Design contract:
//   - One orchestrator: BuildNetwork(bopts, cons...). Resolves cfg, runs cons in order, validates once.
//   - Every constructor allocates fresh node IDs, so composed constructors yield disjoint components.
//   - Determinism: same options/seed and constructor order ⇒ identical link and demand tables.

package builder

import (
	"fmt"

	"github.com/katalvlaran/trafficeq/network"
)

// Constructor appends links and demands to t using the resolved builderConfig.
// Constructors must validate parameters early and return sentinel errors.
type Constructor func(t *tables, cfg builderConfig) error

// tables accumulates the link and demand tables while constructors run.
type tables struct {
	links    []network.Link
	demands  []network.Demand
	lastNode int
}

// node allocates the next node ID (1-based, like most network files).
func (t *tables) node() int {
	t.lastNode++

	return t.lastNode
}

// link appends a directed link and returns its index.
func (t *tables) link(tail, head int, capacity, fftt float64) int {
	i := len(t.links)
	t.links = append(t.links, network.Link{
		Index:        i,
		Tail:         tail,
		Head:         head,
		Capacity:     capacity,
		Length:       fftt,
		FreeFlowTime: fftt,
	})

	return i
}

func (t *tables) demand(o, d int, volume float64) {
	t.demands = append(t.demands, network.Demand{Origin: o, Destination: d, Volume: volume})
}

// BuildNetwork resolves bopts, applies every constructor in order and
// validates the result with network.New. Constructor errors are wrapped with
// "BuildNetwork: %w".
func BuildNetwork(bopts []BuilderOption, cons ...Constructor) (*network.Network, error) {
	cfg, err := newBuilderConfig(bopts...)
	if err != nil {
		return nil, fmt.Errorf("BuildNetwork: %w", err)
	}

	t := &tables{}
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildNetwork: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(t, cfg); err != nil {
			return nil, fmt.Errorf("BuildNetwork: %w", err)
		}
	}

	n, err := network.New(t.links, t.demands)
	if err != nil {
		return nil, fmt.Errorf("BuildNetwork: %w", err)
	}

	return n, nil
}
