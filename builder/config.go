// SPDX-License-Identifier: MIT
// Package: trafficeq/builder
//
// config.go — internal configuration, options and deterministic defaults.
//
// Deterministic defaults:
//   • volume       = 1.0    (demand per OD pair, already normalized)
//   • highCapacity = 4000   (arterial / freeway links)
//   • lowCapacity  = 1000   (local streets, below the default cognitive threshold)
//   • rng          = nil    (no randomness unless seeded)

package builder

import (
	"fmt"
	"math/rand"
)

const (
	defaultVolume       = 1.0
	defaultHighCapacity = 4000.0
	defaultLowCapacity  = 1000.0
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	volume       float64
	highCapacity float64
	lowCapacity  float64
	rng          *rand.Rand

	err error
}

// BuilderOption mutates builderConfig.
type BuilderOption func(*builderConfig)

// WithVolume sets the demand volume of every OD pair a constructor emits (≥ 0).
func WithVolume(v float64) BuilderOption {
	return func(c *builderConfig) {
		if !(v >= 0) {
			c.err = fmt.Errorf("%w: volume %g", ErrOptionViolation, v)
			return
		}
		c.volume = v
	}
}

// WithCapacities sets the high and low link capacities (both > 0).
func WithCapacities(high, low float64) BuilderOption {
	return func(c *builderConfig) {
		if !(high > 0) || !(low > 0) {
			c.err = fmt.Errorf("%w: capacities high=%g low=%g", ErrOptionViolation, high, low)
			return
		}
		c.highCapacity = high
		c.lowCapacity = low
	}
}

// WithSeed enables randomized capacities in Grid, reproducibly.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

func newBuilderConfig(opts ...BuilderOption) (builderConfig, error) {
	cfg := builderConfig{
		volume:       defaultVolume,
		highCapacity: defaultHighCapacity,
		lowCapacity:  defaultLowCapacity,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, cfg.err
}
