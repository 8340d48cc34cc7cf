// SPDX-License-Identifier: MIT

package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/trafficeq/assign"
	"github.com/katalvlaran/trafficeq/equilibrium"
	"github.com/katalvlaran/trafficeq/frankwolfe"
	"github.com/katalvlaran/trafficeq/network"
)

// Driver runs the coupled equilibrium for a sequence of alphas on one
// network. The network and the cost parameters are shared read-only by
// every alpha; each alpha owns its flow vectors.
type Driver struct {
	net   *network.Network // working network (scaled when Scale != 1)
	store Store
	opts  Options
	log   logrus.FieldLogger

	routed    *frankwolfe.Solver
	nonRouted *frankwolfe.Solver
}

// New prepares a Driver. It validates options, scales the network when
// requested and builds one solver per class.
func New(n *network.Network, store Store, opts ...Option) (*Driver, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if n == nil {
		return nil, frankwolfe.ErrNilNetwork
	}
	if store == nil {
		return nil, ErrNilStore
	}

	params := o.Params
	work := n
	if o.Scale != 1 {
		var err error
		if work, err = n.Scaled(1 / o.Scale); err != nil {
			return nil, err
		}
		params = params.Scaled(1 / o.Scale)
	}

	d := &Driver{
		net:   work,
		store: store,
		opts:  o,
		log:   o.Logger.WithField("module", "sweep"),
	}
	var err error
	d.routed, err = frankwolfe.New(work, params.Routed(), d.solverOptions(ClassRouted)...)
	if err != nil {
		return nil, err
	}
	d.nonRouted, err = frankwolfe.New(work, params.Cognitive(), d.solverOptions(ClassNonRouted)...)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Driver) solverOptions(name string) []frankwolfe.Option {
	out := append([]frankwolfe.Option(nil), d.opts.Solver...)

	return append(out, frankwolfe.WithName(name), frankwolfe.WithLogger(d.opts.Logger))
}

// job is one alpha handed to the pool.
type job struct {
	ctx   context.Context
	alpha float64
	res   *AlphaResult
	wg    *sync.WaitGroup
}

// Run solves every alpha and persists one AlphaResult per alpha.
//
// Steps:
//  1. Validate alphas: finite, within [0,1], distinct keys.
//  2. Validate demands once: schema and reachability.
//  3. Solve alphas on a pool of Workers goroutines.
//  4. Persist results in caller order.
//
// Input and reachability errors are fatal and returned before any solve. A
// failing alpha is recorded with StatusFailed and does not stop the sweep.
// The returned slice follows the order of alphas.
func (d *Driver) Run(ctx context.Context, alphas []float64) ([]*AlphaResult, error) {
	// 1) Alphas.
	seen := make(map[int64]float64, len(alphas))
	for _, a := range alphas {
		if math.IsNaN(a) || a < 0 || a > 1 {
			return nil, fmt.Errorf("%w: alpha %g outside [0,1]", network.ErrInvalidInput, a)
		}
		if prev, dup := seen[Key(a)]; dup {
			return nil, fmt.Errorf("%w: alphas %g and %g share key %d", network.ErrInvalidInput, prev, a, Key(a))
		}
		seen[Key(a)] = a
	}

	// 2) Demands.
	if err := assign.Validate(ctx, d.net, d.net.Demands()); err != nil {
		return nil, err
	}

	// 3) Solve.
	jobs := make([]*job, len(alphas))
	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(d.opts.Workers, func(arg interface{}) {
		j := arg.(*job)
		defer j.wg.Done()
		j.res = d.solve(j.ctx, j.alpha)
	})
	if err != nil {
		return nil, fmt.Errorf("sweep: worker pool: %w", err)
	}
	defer pool.Release()

	for i, a := range alphas {
		jobs[i] = &job{ctx: ctx, alpha: a, wg: &wg}
		wg.Add(1)
		if err := pool.Invoke(jobs[i]); err != nil {
			wg.Done()
			jobs[i].res = d.failed(a, err)
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4) Persist.
	out := make([]*AlphaResult, len(jobs))
	for i, j := range jobs {
		if err := d.store.Put(j.res); err != nil {
			return out[:i], fmt.Errorf("sweep: persist alpha %g: %w", j.alpha, err)
		}
		out[i] = j.res
	}

	return out, nil
}

// solve runs the coupler for one alpha and never returns an error: the
// outcome is encoded in the AlphaResult status.
func (d *Driver) solve(ctx context.Context, alpha float64) *AlphaResult {
	log := d.log.WithField("alpha", alpha)

	routed, nonRouted, err := network.SplitDemands(d.net.Demands(), alpha)
	if err != nil {
		return d.failed(alpha, err)
	}
	copts := append([]equilibrium.Option{equilibrium.WithLogger(d.opts.Logger)}, d.opts.Coupler...)
	c, err := equilibrium.New(d.net.NumLinks(), []equilibrium.Class{
		{Solver: d.routed, Demands: routed},
		{Solver: d.nonRouted, Demands: nonRouted},
	}, copts...)
	if err != nil {
		return d.failed(alpha, err)
	}

	res, err := c.Run(ctx)
	if err != nil && !errors.Is(err, frankwolfe.ErrNonConvergence) {
		return d.failed(alpha, err)
	}

	res.Profile.Scale(d.opts.Scale)
	out := &AlphaResult{
		Key:     Key(alpha),
		Alpha:   alpha,
		Profile: res.Profile,
		Status:  res.Status.String(),
		Cycles:  res.Cycles,
		Change:  res.Change,
	}
	if err != nil {
		out.Err = err.Error()
		log.WithField("cycles", res.Cycles).Warnf("alpha not converged: %v", err)
	} else {
		log.WithField("cycles", res.Cycles).Info("alpha converged")
	}

	return out
}

func (d *Driver) failed(alpha float64, err error) *AlphaResult {
	d.log.WithField("alpha", alpha).Errorf("alpha failed: %v", err)

	return &AlphaResult{Key: Key(alpha), Alpha: alpha, Status: StatusFailed, Err: err.Error()}
}
