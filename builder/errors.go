// SPDX-License-Identifier: MIT
// Package: trafficeq/builder
//
// errors.go — sentinel errors for the builder package.
// Callers use errors.Is(err, ErrX); context is attached with %w.

package builder

import "errors"

// ErrTooFewVertices indicates that a size parameter (rows, cols) is below
// the constructor's minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrBadParam indicates a non-positive travel time or another meaningless
// constructor argument.
var ErrBadParam = errors.New("builder: invalid constructor parameter")

// ErrConstructFailed indicates a nil constructor or a constructor that could
// not produce a valid table.
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrOptionViolation indicates that a WithX(...) option received a meaningless value.
var ErrOptionViolation = errors.New("builder: invalid option value")
