// SPDX-License-Identifier: MIT

package frankwolfe

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/trafficeq/flow"
)

// Sentinel errors.
var (
	// ErrNonConvergence is returned, together with the best available Result,
	// when the iteration cap is reached before the gap falls below Stop.
	// It is recoverable: callers decide whether to keep the result.
	ErrNonConvergence = errors.New("frankwolfe: iteration cap reached before convergence")

	// ErrNumericInstability is returned when a NaN, ±Inf or negative value
	// appears mid-iteration. The run is aborted and no result is returned.
	ErrNumericInstability = errors.New("frankwolfe: numeric instability")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("frankwolfe: invalid option supplied")

	// ErrNilNetwork and ErrNilCost guard the constructor.
	ErrNilNetwork = errors.New("frankwolfe: network is nil")
	ErrNilCost    = errors.New("frankwolfe: cost function is nil")
)

// Status is the solver state machine: Init → Iterating → Converged | MaxIterExceeded.
type Status int

const (
	StatusInit Status = iota
	StatusIterating
	StatusConverged
	StatusMaxIterExceeded
)

func (s Status) String() string {
	switch s {
	case StatusInit:
		return "init"
	case StatusIterating:
		return "iterating"
	case StatusConverged:
		return "converged"
	case StatusMaxIterExceeded:
		return "max_iter_exceeded"
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// Result is the outcome of one single-class solve.
type Result struct {
	// Flow is the class's own link flow (the fixed cross-class flow excluded).
	Flow flow.Vector

	// Status is StatusConverged or StatusMaxIterExceeded.
	Status Status

	// Iterations counts line-search updates performed.
	Iterations int

	// Gap is the last relative duality gap measured.
	Gap float64

	// Objective is the Beckmann potential of Flow given the fixed flow.
	Objective float64

	// Objectives holds the potential at the start of every iteration.
	// It is non-increasing.
	Objectives []float64
}

// Converged reports whether the run met its Stop criterion.
func (r *Result) Converged() bool { return r != nil && r.Status == StatusConverged }

// Options configures a Solver.
//
//	MaxIter        – hard cap on line-search updates (default 1000).
//	Stop           – relative duality gap tolerance (default 1e-3).
//	LineSearchIter – bisection steps per line search (default 60).
//	LineSearchTol  – bisection stops once the bracket is narrower (default 1e-10).
//	Epsilon        – negative round-off tolerance on flows (default flow.DefaultEpsilon).
//	Name           – class label used in logs.
//	Logger         – structured logger (default: discard).
type Options struct {
	MaxIter        int
	Stop           float64
	LineSearchIter int
	LineSearchTol  float64
	Epsilon        float64
	Name           string
	Logger         logrus.FieldLogger

	err error
}

// Option configures a Solver via functional arguments. Invalid values are
// recorded and surfaced as ErrOptionViolation by New.
type Option func(*Options)

// DefaultOptions returns the defaults listed on Options.
func DefaultOptions() Options {
	discard := logrus.New()
	discard.Out = io.Discard

	return Options{
		MaxIter:        1000,
		Stop:           1e-3,
		LineSearchIter: 60,
		LineSearchTol:  1e-10,
		Epsilon:        flow.DefaultEpsilon,
		Name:           "class",
		Logger:         discard,
	}
}

// WithMaxIter sets the iteration cap (must be ≥ 0; 0 allows only the initial load).
func WithMaxIter(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxIter cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIter = n
	}
}

// WithStop sets the relative gap tolerance (must be > 0).
func WithStop(stop float64) Option {
	return func(o *Options) {
		if !(stop > 0) {
			o.err = fmt.Errorf("%w: Stop must be positive (%g)", ErrOptionViolation, stop)
			return
		}
		o.Stop = stop
	}
}

// WithLineSearch sets the bisection budget and bracket tolerance.
func WithLineSearch(iters int, tol float64) Option {
	return func(o *Options) {
		if iters <= 0 || !(tol > 0) {
			o.err = fmt.Errorf("%w: line search iters=%d tol=%g", ErrOptionViolation, iters, tol)
			return
		}
		o.LineSearchIter = iters
		o.LineSearchTol = tol
	}
}

// WithName labels the class in log entries.
func WithName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.Name = name
		}
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
