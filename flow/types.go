// SPDX-License-Identifier: MIT

package flow

import (
	"fmt"
)

// DefaultEpsilon is the tolerance below which a negative flow is treated as
// float round-off and clamped to zero.
const DefaultEpsilon = 1e-9

// ErrLengthMismatch is returned when two vectors that must be index-aligned differ in length.
var ErrLengthMismatch = fmt.Errorf("flow: %w", errLengthMismatch)
var errLengthMismatch = fmt.Errorf("vector length mismatch")

// ErrNegativeFlow is returned when a link carries a flow below -Epsilon.
var ErrNegativeFlow = fmt.Errorf("flow: %w", errNegativeFlow)
var errNegativeFlow = fmt.Errorf("negative link flow")

// ErrNotFinite is returned when a link carries NaN or ±Inf.
var ErrNotFinite = fmt.Errorf("flow: %w", errNotFinite)
var errNotFinite = fmt.Errorf("non-finite link flow")

// LinkError pins a bad value to its link index.
type LinkError struct {
	Link  int
	Value float64
	Err   error
}

func (e LinkError) Error() string {
	return fmt.Sprintf("%v on link %d: %g", e.Err, e.Link, e.Value)
}

func (e LinkError) Unwrap() error { return e.Err }

// Vector holds one flow value per link, indexed by network link index.
type Vector []float64

// Profile holds one Vector per traveler class. All vectors share the same length.
type Profile struct {
	// Names labels each class, e.g. "routed", "non_routed".
	Names []string

	// Classes[k][i] is the flow of class k on link i.
	Classes []Vector
}
