// SPDX-License-Identifier: MIT

package sweep

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/trafficeq/cost"
	"github.com/katalvlaran/trafficeq/equilibrium"
	"github.com/katalvlaran/trafficeq/flow"
	"github.com/katalvlaran/trafficeq/frankwolfe"
)

// Class names used in every persisted profile.
const (
	ClassRouted    = "routed"
	ClassNonRouted = "non_routed"
)

// StatusFailed marks an alpha whose coupled run aborted. The other statuses
// are the frankwolfe.Status strings.
const StatusFailed = "failed"

// KeyScale is the resolution of alpha keys: round(alpha·KeyScale).
const KeyScale = 1e6

var (
	// ErrNotFound is returned by a Store when no result exists for a key.
	ErrNotFound = errors.New("sweep: result not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("sweep: invalid option supplied")

	// ErrNilStore guards New.
	ErrNilStore = errors.New("sweep: store is nil")
)

// Key maps alpha onto its storage key.
func Key(alpha float64) int64 { return int64(math.Round(alpha * KeyScale)) }

// AlphaResult is the persisted outcome of one sweep point.
type AlphaResult struct {
	// Key is round(Alpha·KeyScale); stores index by it.
	Key   int64   `json:"key" boltholdKey:"Key"`
	Alpha float64 `json:"alpha"`

	// Profile holds the routed and non-routed link flows in vehicles, in
	// link order. Nil when Status is StatusFailed.
	Profile *flow.Profile `json:"profile,omitempty"`

	Status string  `json:"status" boltholdIndex:"Status"`
	Cycles int     `json:"cycles"`
	Change float64 `json:"change"`

	// Err is the error text for max_iter_exceeded and failed runs.
	Err string `json:"err,omitempty"`
}

// Failed reports whether the run produced no flow.
func (r *AlphaResult) Failed() bool { return r.Status == StatusFailed }

// Store persists AlphaResults keyed by Key(alpha). Put overwrites.
// List returns results in ascending alpha order.
type Store interface {
	Put(r *AlphaResult) error
	Get(alpha float64) (*AlphaResult, error)
	List() ([]*AlphaResult, error)
}

// Options configures a Driver.
//
//	Params    – cost parameters (default cost.DefaultParams()).
//	Solver    – frankwolfe options for both classes (name and logger are set by the driver).
//	Coupler   – equilibrium options.
//	Scale     – reference capacity; capacities and demands are divided by it
//	            while solving, flows multiplied back (default 1).
//	Workers   – number of alphas solved concurrently (default 1).
//	Logger    – structured logger (default: discard).
type Options struct {
	Params  cost.Params
	Solver  []frankwolfe.Option
	Coupler []equilibrium.Option
	Scale   float64
	Workers int
	Logger  logrus.FieldLogger

	err error
}

// Option configures a Driver.
type Option func(*Options)

// DefaultOptions returns the defaults listed on Options.
func DefaultOptions() Options {
	discard := logrus.New()
	discard.Out = io.Discard

	return Options{
		Params:  cost.DefaultParams(),
		Scale:   1,
		Workers: 1,
		Logger:  discard,
	}
}

// WithParams sets the cost parameters.
func WithParams(p cost.Params) Option {
	return func(o *Options) {
		if err := p.Validate(); err != nil {
			o.err = fmt.Errorf("%w: %w", ErrOptionViolation, err)
			return
		}
		o.Params = p
	}
}

// WithSolverOptions appends frankwolfe options applied to both classes.
func WithSolverOptions(opts ...frankwolfe.Option) Option {
	return func(o *Options) { o.Solver = append(o.Solver, opts...) }
}

// WithCouplerOptions appends equilibrium options.
func WithCouplerOptions(opts ...equilibrium.Option) Option {
	return func(o *Options) { o.Coupler = append(o.Coupler, opts...) }
}

// WithScale sets the reference capacity (must be > 0 and finite).
func WithScale(ref float64) Option {
	return func(o *Options) {
		if !(ref > 0) || math.IsInf(ref, 0) {
			o.err = fmt.Errorf("%w: scale %g", ErrOptionViolation, ref)
			return
		}
		o.Scale = ref
	}
}

// WithWorkers sets the alpha-level parallelism (must be ≥ 1).
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: workers %d", ErrOptionViolation, n)
			return
		}
		o.Workers = n
	}
}

// WithLogger routes log entries to logger. The same logger is handed to
// the coupler and the class solvers.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
