// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Link and Demand records, sentinel errors and the typed LinkError.
// Policy:
//   - Records are plain values; a Network never hands out pointers into its storage.
//   - Every validation failure wraps ErrInvalidInput so callers can use errors.Is.

package network

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every package that consumes a Network.
var (
	// ErrInvalidInput indicates a malformed link table, demand table or option.
	// It is fatal: nothing is solved on an invalid network.
	ErrInvalidInput = errors.New("network: invalid input")

	// ErrUnreachable indicates that an OD pair has no directed path.
	// Raised by reachability checks and by shortest-path assignment.
	ErrUnreachable = errors.New("network: destination unreachable from origin")

	// ErrNodeNotFound indicates a demand or query referenced a node that no link touches.
	ErrNodeNotFound = errors.New("network: node not found")

	// ErrLinkIndex indicates a link index outside [0, NumLinks).
	ErrLinkIndex = errors.New("network: link index out of range")
)

// Link is one directed road segment.
//
// Index is the stable position of the link in the link table. Persisted flow
// artifacts and path-flow extraction address links by this index.
type Link struct {
	// Index is the zero-based position in the link table.
	Index int

	// Tail is the upstream node ID.
	Tail int

	// Head is the downstream node ID.
	Head int

	// Capacity in flow units per time unit. Must be > 0.
	Capacity float64

	// Length of the segment. Informational, must be ≥ 0.
	Length float64

	// FreeFlowTime is the travel time at zero flow. Must be ≥ 0.
	FreeFlowTime float64
}

// Demand is one origin-destination flow request.
type Demand struct {
	Origin      int
	Destination int
	// Volume in flow units, possibly pre-scaled by a reference capacity.
	Volume float64
}

// LinkError reports which link failed validation and why.
type LinkError struct {
	Index  int
	Field  string
	Value  float64
	Reason string
}

func (e LinkError) Error() string {
	return fmt.Sprintf("network: link %d: %s=%g %s", e.Index, e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match a LinkError.
func (e LinkError) Unwrap() error { return ErrInvalidInput }

// DemandError reports which demand row failed validation and why.
type DemandError struct {
	Row    int
	Demand Demand
	Reason string
}

func (e DemandError) Error() string {
	return fmt.Sprintf("network: demand %d (%d→%d, volume=%g): %s",
		e.Row, e.Demand.Origin, e.Demand.Destination, e.Demand.Volume, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match a DemandError.
func (e DemandError) Unwrap() error { return ErrInvalidInput }
