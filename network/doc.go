// Package network provides the immutable road network consumed by every
// equilibrium solver: an index-aligned table of directed links, the
// origin-destination demand table, and forward adjacency for path search.
//
// A Network is validated once, in New, against a fixed schema:
//
//   - links[i].Index == i, so flow vectors and persisted artifacts can be
//     addressed by link index;
//   - Capacity > 0, Length ≥ 0, FreeFlowTime ≥ 0, no NaN or Inf;
//   - no self-loops;
//   - every demand has Volume ≥ 0, distinct endpoints, and both endpoints
//     present in the link table.
//
// Any violation is reported as an error wrapping ErrInvalidInput, with
// LinkError or DemandError carrying the offending row.
//
// Node IDs are arbitrary integers. Internally each node is given a dense
// position (ascending by ID) so that path search can use slices instead of
// maps. NodePos/NodeID convert between the two.
//
// Thread safety:
//
//	Network has no mutating methods. It is safe for concurrent readers.
//
// Helpers:
//
//	ScaleDemands(ds, 1/4000.) // normalize volumes by a reference capacity
//	SplitDemands(ds, alpha)   // routed (1-alpha) and non-routed (alpha) parts
package network
