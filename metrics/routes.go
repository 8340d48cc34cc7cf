// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/trafficeq/assign"
	"github.com/katalvlaran/trafficeq/cost"
	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/sweep"
)

// ErrNoFlows is returned when routes are asked of a result without flows.
var ErrNoFlows = errors.New("metrics: result carries no flows")

// Route is the cheapest path of one OD pair as a traveler class sees it.
type Route struct {
	Origin      int
	Destination int
	// Links lists link indices in travel order.
	Links []int
}

// Routes returns, for every demand row of the network, the path a new
// traveler of class would pick at the total flow stored in r: routed
// travelers under the true cost, non-routed ones under the cognitive cost.
func (c *Calculator) Routes(r *sweep.AlphaResult, class string) ([]Route, error) {
	var fn cost.Function
	switch class {
	case sweep.ClassRouted:
		fn = c.params.Routed()
	case sweep.ClassNonRouted:
		fn = c.params.Cognitive()
	default:
		return nil, fmt.Errorf("%w: %s", ErrMissingClass, class)
	}
	if r.Failed() || r.Profile == nil {
		return nil, fmt.Errorf("%w: alpha %g", ErrNoFlows, r.Alpha)
	}
	if r.Profile.Links() != len(c.links) {
		return nil, fmt.Errorf("%w: %d links, want %d", ErrShape, r.Profile.Links(), len(c.links))
	}
	if err := r.Profile.Validate(flow.DefaultEpsilon); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShape, err)
	}

	costs := make([]float64, len(c.links))
	if err := cost.Evaluate(fn, c.links, r.Profile.Total(), costs); err != nil {
		return nil, err
	}
	demands := c.net.Demands()
	paths, err := assign.ShortestPaths(c.net, costs, demands)
	if err != nil {
		return nil, err
	}

	out := make([]Route, len(demands))
	for i, d := range demands {
		out[i] = Route{Origin: d.Origin, Destination: d.Destination, Links: paths[i]}
	}

	return out, nil
}
