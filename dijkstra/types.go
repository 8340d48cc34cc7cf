// SPDX-License-Identifier: MIT

// Package dijkstra defines core types and configuration options
// for Dijkstra's shortest-path algorithm over link-cost vectors.
//
// Options:
//
//	– Source:           external ID of the starting node (required).
//	– Targets:          optional set of nodes; the search stops once all are settled.
//
// Errors (sentinel):
//
//	– ErrNoSource        if no source node was given.
//	– ErrNilNetwork      if the provided network pointer is nil.
//	– ErrCostLength      if the cost vector does not have one entry per link.
//	– ErrSourceNotFound  if the source node does not exist in the network.
//	– ErrNegativeCost    if a negative or NaN link cost is detected.
//	– ErrNoPath          if PathTo is asked for an unreached node.
package dijkstra

import "errors"

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNoSource indicates that Source was never set.
	ErrNoSource = errors.New("dijkstra: source node not set")

	// ErrNilNetwork indicates that a nil *network.Network was passed to Dijkstra.
	ErrNilNetwork = errors.New("dijkstra: network is nil")

	// ErrCostLength indicates a cost vector whose length differs from NumLinks.
	ErrCostLength = errors.New("dijkstra: cost vector length mismatch")

	// ErrSourceNotFound indicates that the specified source node does not exist
	// in the provided network.
	ErrSourceNotFound = errors.New("dijkstra: source node not found in network")

	// ErrNegativeCost indicates that a negative (or NaN) link cost was detected.
	ErrNegativeCost = errors.New("dijkstra: negative link cost encountered")

	// ErrNoPath indicates that PathTo was called for a node the search did not reach.
	ErrNoPath = errors.New("dijkstra: no path to node")
)

// Options configures the behavior of the Dijkstra algorithm.
//
// Source  – starting node ID (must be present in the network).
// Targets – if non-empty, the search may stop once every target is settled.
type Options struct {
	Source    int
	HasSource bool
	Targets   []int
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the starting node. Must be called.
func Source(node int) Option {
	return func(o *Options) {
		o.Source = node
		o.HasSource = true
	}
}

// WithTargets lets the search stop as soon as all given nodes are settled.
// Distances and predecessors of nodes settled before that point are final;
// nodes not yet settled are reported as unreached.
func WithTargets(nodes ...int) Option {
	return func(o *Options) {
		o.Targets = append(o.Targets[:0:0], nodes...)
	}
}

// DefaultOptions returns an Options struct initialized with defaults:
// Source unset (validated in Dijkstra) and no targets (full single-source tree).
func DefaultOptions() Options {
	return Options{}
}
