// SPDX-License-Identifier: MIT

package equilibrium

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/frankwolfe"
	"github.com/katalvlaran/trafficeq/network"
)

// Coupler alternates per-class solvers until the combined flow settles.
// It holds no per-run state and may be Run repeatedly.
type Coupler struct {
	links   int
	classes []Class
	names   []string
	opts    Options
	log     logrus.FieldLogger
}

// New validates the class list and options. links is the link count shared
// by every class's network.
func New(links int, classes []Class, opts ...Option) (*Coupler, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if len(classes) == 0 {
		return nil, ErrNoClasses
	}
	if links <= 0 {
		return nil, fmt.Errorf("%w: link count %d", network.ErrInvalidInput, links)
	}

	names := make([]string, len(classes))
	seen := make(map[string]struct{}, len(classes))
	for k, c := range classes {
		if c.Solver == nil {
			return nil, fmt.Errorf("%w: class %d", ErrNilSolver, k)
		}
		name := c.Solver.Name()
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateClass, name)
		}
		seen[name] = struct{}{}
		names[k] = name
	}

	return &Coupler{
		links:   links,
		classes: append([]Class(nil), classes...),
		names:   names,
		opts:    o,
		log:     o.Logger.WithField("module", "equilibrium"),
	}, nil
}

// Run executes outer cycles from zero flow for every class.
//
// Per cycle:
//  1. Update every class (Gauss-Seidel or Jacobi), warm-starting from its
//     previous flow after the first cycle.
//  2. change = ‖total − prevTotal‖₁ / ‖total‖₁.
//  3. Stop when every class converged in this cycle and change < StopCycle.
//
// A class solver reporting frankwolfe.ErrNonConvergence keeps its flow and
// only blocks the outer criterion. Any other class error aborts the run.
// When MaxCycles is exhausted the Result is returned together with an error
// wrapping frankwolfe.ErrNonConvergence.
func (c *Coupler) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		Profile: flow.NewProfile(c.links, c.names...),
		Status:  frankwolfe.StatusIterating,
		Last:    make([]*frankwolfe.Result, len(c.classes)),
	}
	prev := flow.NewVector(c.links)

	for cycle := 1; cycle <= c.opts.MaxCycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// 1) Class updates.
		var (
			inner bool
			err   error
		)
		if c.opts.Scheme == SchemeJacobi {
			inner, err = c.jacobi(ctx, res, cycle)
		} else {
			inner, err = c.gaussSeidel(ctx, res, cycle)
		}
		if err != nil {
			return nil, err
		}
		if err := res.Profile.Validate(c.opts.Epsilon); err != nil {
			return nil, fmt.Errorf("%w: cycle %d: %w", frankwolfe.ErrNumericInstability, cycle, err)
		}

		// 2) Outer change.
		total := res.Profile.Total()
		change, err := flow.RelativeChange(total, prev, c.opts.Epsilon)
		if err != nil {
			return nil, err
		}
		prev = total
		res.Cycles, res.Change = cycle, change
		c.log.WithFields(logrus.Fields{"cycle": cycle, "change": change, "inner": inner}).Debug("cycle done")

		// 3) Terminal test.
		if inner && change < c.opts.StopCycle {
			res.Status = frankwolfe.StatusConverged
			c.log.Debugf("coupled equilibrium after %d cycles (change=%.3e)", cycle, change)

			return res, nil
		}
	}

	res.Status = frankwolfe.StatusMaxIterExceeded
	c.log.Warnf("no coupled equilibrium after %d cycles (change=%.3e, stop=%.1e)",
		res.Cycles, res.Change, c.opts.StopCycle)

	return res, fmt.Errorf("%w: %d cycles, change=%.3e", frankwolfe.ErrNonConvergence, res.Cycles, res.Change)
}

// gaussSeidel updates classes in order, each against the freshest flows.
func (c *Coupler) gaussSeidel(ctx context.Context, res *Result, cycle int) (bool, error) {
	converged := true
	for k := range c.classes {
		r, err := c.solveClass(ctx, k, res.Profile, cycle)
		if err != nil {
			return false, err
		}
		if r == nil {
			continue
		}
		res.Last[k] = r
		res.Profile.Classes[k] = r.Flow
		converged = converged && r.Converged()
	}

	return converged, nil
}

// jacobi updates every class concurrently against a snapshot of the
// previous cycle. The class count is small and each solve is
// single-threaded, so one goroutine per class suffices.
func (c *Coupler) jacobi(ctx context.Context, res *Result, cycle int) (bool, error) {
	snapshot := res.Profile.Clone()
	out := make([]*frankwolfe.Result, len(c.classes))
	errs := make([]error, len(c.classes))

	var wg sync.WaitGroup
	for k := range c.classes {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			out[k], errs[k] = c.solveClass(ctx, k, snapshot, cycle)
		}(k)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return false, err
	}
	converged := true
	for k, r := range out {
		if r == nil {
			continue
		}
		res.Last[k] = r
		res.Profile.Classes[k] = r.Flow
		converged = converged && r.Converged()
	}

	return converged, nil
}

// solveClass runs class k against the other classes in p. It returns
// (nil, nil) for a class without demand, whose flow stays zero.
func (c *Coupler) solveClass(ctx context.Context, k int, p *flow.Profile, cycle int) (*frankwolfe.Result, error) {
	cl := c.classes[k]
	if network.SumVolume(cl.Demands) == 0 {
		return nil, nil
	}

	var warm flow.Vector
	if cycle > 1 {
		warm = p.Classes[k]
	}
	r, err := cl.Solver.Solve(ctx, cl.Demands, p.Others(k), warm)
	switch {
	case err == nil:
	case errors.Is(err, frankwolfe.ErrNonConvergence) && r != nil:
		c.log.WithField("class", c.names[k]).Debugf("cycle %d: %v", cycle, err)
	default:
		return nil, fmt.Errorf("equilibrium: class %q cycle %d: %w", c.names[k], cycle, err)
	}

	return r, nil
}
