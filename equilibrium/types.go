// SPDX-License-Identifier: MIT

package equilibrium

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/frankwolfe"
	"github.com/katalvlaran/trafficeq/network"
)

// Sentinel errors. Non-convergence and numeric failures reuse the
// frankwolfe sentinels so callers match a single set of kinds.
var (
	// ErrNoClasses is returned when a Coupler is built without any class.
	ErrNoClasses = errors.New("equilibrium: no traveler classes")

	// ErrNilSolver is returned when a Class carries no Solver.
	ErrNilSolver = errors.New("equilibrium: class solver is nil")

	// ErrDuplicateClass is returned when two classes share a name.
	ErrDuplicateClass = errors.New("equilibrium: duplicate class name")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("equilibrium: invalid option supplied")
)

// Solver computes one class's equilibrium while the flow in fixed stays
// frozen on the shared links. *frankwolfe.Solver satisfies it.
type Solver interface {
	Name() string
	Solve(ctx context.Context, demands []network.Demand, fixed, warm flow.Vector) (*frankwolfe.Result, error)
}

// Class is one traveler class: a solver (which carries the cost
// perception) and the demand routed under it.
type Class struct {
	Solver  Solver
	Demands []network.Demand
}

// Scheme selects how classes are updated inside one cycle.
type Scheme int

const (
	// SchemeGaussSeidel solves classes in order, each against the latest
	// flows of the others.
	SchemeGaussSeidel Scheme = iota

	// SchemeJacobi solves all classes concurrently against the previous
	// cycle's flows.
	SchemeJacobi
)

func (s Scheme) String() string {
	switch s {
	case SchemeGaussSeidel:
		return "gauss-seidel"
	case SchemeJacobi:
		return "jacobi"
	}

	return fmt.Sprintf("scheme(%d)", int(s))
}

// ParseScheme maps a configuration string onto a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "", "gauss-seidel", "gauss_seidel", "gs":
		return SchemeGaussSeidel, nil
	case "jacobi":
		return SchemeJacobi, nil
	}

	return 0, fmt.Errorf("%w: unknown scheme %q", ErrOptionViolation, s)
}

// Result is the outcome of one coupled run.
type Result struct {
	// Profile holds one flow vector per class, in class order.
	Profile *flow.Profile

	// Status is frankwolfe.StatusConverged or frankwolfe.StatusMaxIterExceeded.
	Status frankwolfe.Status

	// Cycles counts completed outer cycles.
	Cycles int

	// Change is the relative L1 change of the combined flow in the last cycle.
	Change float64

	// Last holds each class's result from the last cycle; nil for classes
	// without demand.
	Last []*frankwolfe.Result
}

// Converged reports whether the outer and every inner criterion held.
func (r *Result) Converged() bool { return r != nil && r.Status == frankwolfe.StatusConverged }

// Options configures a Coupler.
//
//	StopCycle – relative L1 change of the combined flow between cycles (default 1e-3).
//	MaxCycles – outer cycle cap (default 50).
//	Scheme    – SchemeGaussSeidel (default) or SchemeJacobi.
//	Epsilon   – round-off tolerance for flow checks (default flow.DefaultEpsilon).
//	Logger    – structured logger (default: discard).
type Options struct {
	StopCycle float64
	MaxCycles int
	Scheme    Scheme
	Epsilon   float64
	Logger    logrus.FieldLogger

	err error
}

// Option configures a Coupler via functional arguments.
type Option func(*Options)

// DefaultOptions returns the defaults listed on Options.
func DefaultOptions() Options {
	discard := logrus.New()
	discard.Out = io.Discard

	return Options{
		StopCycle: 1e-3,
		MaxCycles: 50,
		Scheme:    SchemeGaussSeidel,
		Epsilon:   flow.DefaultEpsilon,
		Logger:    discard,
	}
}

// WithStopCycle sets the outer tolerance (must be > 0).
func WithStopCycle(stop float64) Option {
	return func(o *Options) {
		if !(stop > 0) {
			o.err = fmt.Errorf("%w: StopCycle must be positive (%g)", ErrOptionViolation, stop)
			return
		}
		o.StopCycle = stop
	}
}

// WithMaxCycles sets the outer cycle cap (must be ≥ 1).
func WithMaxCycles(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: MaxCycles must be at least 1 (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxCycles = n
	}
}

// WithScheme selects the update scheme.
func WithScheme(s Scheme) Option {
	return func(o *Options) {
		if s != SchemeGaussSeidel && s != SchemeJacobi {
			o.err = fmt.Errorf("%w: %s", ErrOptionViolation, s)
			return
		}
		o.Scheme = s
	}
}

// WithLogger routes log entries to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
