// SPDX-License-Identifier: MIT

package main

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/katalvlaran/trafficeq/builder"
	"github.com/katalvlaran/trafficeq/network"
)

// scenarios are small built-in networks for trying the solver without
// an input file. Volumes are vehicles per hour.
var scenarios = map[string]func() (*network.Network, error){
	"corridor": func() (*network.Network, error) {
		return builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(500)}, builder.Corridor(1000, 10))
	},
	"diamond": func() (*network.Network, error) {
		return builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(2000)}, builder.Diamond(10, 8))
	},
	"braess": func() (*network.Network, error) {
		return builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(3000)}, builder.Braess(5))
	},
	"grid": func() (*network.Network, error) {
		return builder.BuildNetwork([]builder.BuilderOption{builder.WithVolume(1500), builder.WithSeed(1)}, builder.Grid(4, 4, 2))
	},
}

func scenarioNames() string {
	names := make([]string, 0, len(scenarios))
	for k := range scenarios {
		names = append(names, k)
	}
	sort.Strings(names)

	return strings.Join(names, "|")
}

func buildScenario(name string) (*network.Network, error) {
	build, ok := scenarios[name]
	if !ok {
		return nil, errors.Errorf("unknown scenario %q (want %s)", name, scenarioNames())
	}

	return build()
}
