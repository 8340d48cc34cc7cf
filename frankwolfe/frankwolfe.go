// SPDX-License-Identifier: MIT

package frankwolfe

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/trafficeq/assign"
	"github.com/katalvlaran/trafficeq/cost"
	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/network"
)

// Solver computes a single-class user equilibrium on a fixed network under one
// cost perception. A Solver holds no per-run state: Solve may be called
// repeatedly (and concurrently) with different demands and fixed flows.
type Solver struct {
	net   *network.Network
	links []network.Link
	fn    cost.Function
	opts  Options
	log   logrus.FieldLogger
}

// New binds a cost function to a network.
func New(n *network.Network, fn cost.Function, opts ...Option) (*Solver, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if n == nil {
		return nil, ErrNilNetwork
	}
	if fn == nil {
		return nil, ErrNilCost
	}

	return &Solver{
		net:   n,
		links: n.Links(),
		fn:    fn,
		opts:  o,
		log:   o.Logger.WithFields(logrus.Fields{"module": "frankwolfe", "class": o.Name}),
	}, nil
}

// Name returns the class label.
func (s *Solver) Name() string { return s.opts.Name }

// Cost returns the cost function the solver minimizes against.
func (s *Solver) Cost() cost.Function { return s.fn }

// run is the mutable state of one Solve call.
type run struct {
	s      *Solver
	fixed  flow.Vector
	x      flow.Vector // own flow
	y      flow.Vector // all-or-nothing target
	total  flow.Vector // scratch: fixed + own
	costs  []float64
	demand []network.Demand
}

// Solve runs Frank-Wolfe for demands while the flow in fixed (other classes,
// may be nil) stays frozen on the shared links. warm, if non-nil, is the
// starting own flow; otherwise the first iterate is the all-or-nothing load
// at zero own flow.
//
// Steps per iteration k = 0, 1, …:
//  1. costs = c(fixed + x).
//  2. y = AON(costs); bound = Σ costs·y.
//  3. gap = (Σ costs·x − bound) / Σ costs·x. Stop when gap < Stop.
//  4. If k == MaxIter, stop with ErrNonConvergence.
//  5. s = argmin over [0,1] of the Beckmann potential along x + s(y − x).
//  6. x = (1−s)·x + s·y; verify finiteness and non-negativity.
//
// Errors: network.ErrInvalidInput (bad demand or vector shape),
// network.ErrUnreachable, ErrNumericInstability (no result), ErrNonConvergence
// (result returned), or ctx.Err().
func (s *Solver) Solve(ctx context.Context, demands []network.Demand, fixed, warm flow.Vector) (*Result, error) {
	// 1) Validate inputs before any work.
	if err := s.net.ValidateDemands(demands); err != nil {
		return nil, err
	}
	L := s.net.NumLinks()
	r := &run{
		s:      s,
		x:      flow.NewVector(L),
		y:      flow.NewVector(L),
		total:  flow.NewVector(L),
		costs:  make([]float64, L),
		demand: demands,
	}
	var err error
	if r.fixed, err = s.inputVector("fixed", fixed, L); err != nil {
		return nil, err
	}

	// 2) Nothing to route: the zero flow is the equilibrium.
	if network.SumVolume(demands) == 0 {
		return &Result{Flow: r.x, Status: StatusConverged}, nil
	}

	// 3) Init: warm start or all-or-nothing at zero own flow.
	if warm != nil {
		w, err := s.inputVector("warm", warm, L)
		if err != nil {
			return nil, err
		}
		copy(r.x, w)
	} else {
		if err := r.evaluate(); err != nil {
			return nil, err
		}
		if _, err := assign.AllOrNothing(s.net, r.costs, demands, r.x); err != nil {
			return nil, err
		}
	}

	return r.iterate(ctx)
}

func (r *run) iterate(ctx context.Context) (*Result, error) {
	s := r.s
	res := &Result{Status: StatusIterating}
	for k := 0; ; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// 1) Costs at the current total flow.
		if err := r.evaluate(); err != nil {
			return nil, err
		}
		obj, err := r.potential(r.x)
		if err != nil {
			return nil, err
		}
		res.Objectives = append(res.Objectives, obj)

		// 2) Target.
		bound, err := assign.AllOrNothing(s.net, r.costs, r.demand, r.y)
		if err != nil {
			return nil, err
		}

		// 3) Relative duality gap.
		cx, err := flow.Dot(r.costs, r.x)
		if err != nil {
			return nil, err
		}
		gap := 0.0
		if cx > 0 {
			gap = math.Max(0, (cx-bound)/cx)
		}
		if math.IsNaN(gap) || math.IsInf(gap, 0) {
			return nil, fmt.Errorf("%w: gap=%g at iteration %d", ErrNumericInstability, gap, k)
		}
		res.Gap, res.Objective, res.Iterations = gap, obj, k
		s.log.Debugf("iteration %d: gap=%.3e potential=%.6g", k, gap, obj)

		if gap < s.opts.Stop {
			res.Status = StatusConverged
			res.Flow = r.x
			s.log.Debugf("converged after %d iterations (gap=%.3e)", k, gap)

			return res, nil
		}

		// 4) Cap.
		if k >= s.opts.MaxIter {
			res.Status = StatusMaxIterExceeded
			res.Flow = r.x
			s.log.Warnf("no convergence after %d iterations (gap=%.3e, stop=%.1e)", k, gap, s.opts.Stop)

			return res, fmt.Errorf("%w: class %q gap=%.3e after %d iterations",
				ErrNonConvergence, s.opts.Name, gap, k)
		}

		// 5) Line search and 6) move.
		step, err := r.lineSearch()
		if err != nil {
			return nil, err
		}
		if err := flow.Combine(r.x, r.x, r.y, step); err != nil {
			return nil, err
		}
		if err := r.x.Check(s.opts.Epsilon); err != nil {
			return nil, fmt.Errorf("%w: iteration %d: %w", ErrNumericInstability, k, err)
		}
	}
}

// evaluate fills r.costs with c(fixed + x) and rejects non-finite costs.
func (r *run) evaluate() error {
	if err := flow.Add(r.total, r.fixed, r.x); err != nil {
		return err
	}
	if err := cost.Evaluate(r.s.fn, r.s.links, r.total, r.costs); err != nil {
		return fmt.Errorf("%w: %w", ErrNumericInstability, err)
	}
	for i, c := range r.costs {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return fmt.Errorf("%w: link %d cost=%g", ErrNumericInstability, i, c)
		}
	}

	return nil
}

// potential returns Σ ∫_{fixed}^{fixed+x} c(w) dw over all links.
func (r *run) potential(x flow.Vector) (float64, error) {
	var sum float64
	for i, l := range r.s.links {
		hi, err := r.s.fn.Potential(l, r.fixed[i]+x[i])
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrNumericInstability, err)
		}
		lo, err := r.s.fn.Potential(l, r.fixed[i])
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrNumericInstability, err)
		}
		sum += hi - lo
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("%w: potential=%g", ErrNumericInstability, sum)
	}

	return sum, nil
}

// inputVector validates a caller-supplied vector: nil means zeros.
func (s *Solver) inputVector(name string, v flow.Vector, n int) (flow.Vector, error) {
	if v == nil {
		return flow.NewVector(n), nil
	}
	if len(v) != n {
		return nil, fmt.Errorf("%w: %s vector has %d links, want %d", network.ErrInvalidInput, name, len(v), n)
	}
	c := v.Clone()
	if err := c.Check(s.opts.Epsilon); err != nil {
		return nil, fmt.Errorf("%w: %s vector: %w", network.ErrInvalidInput, name, err)
	}

	return c, nil
}
