// SPDX-License-Identifier: MIT
//
// File: network.go
// Role: Immutable, index-aligned road network with dense node positions and
//       forward adjacency for path search.
// Policy:
//   - Validation happens once in New; every accessor is then lock-free and read-only.
//   - Node IDs are external (arbitrary ints); algorithms work on dense positions.

package network

import (
	"fmt"
	"math"
	"sort"
)

// Network owns the link table and the demand table.
//
// A Network is never mutated after New returns, so it can be shared by any
// number of solvers running in parallel without synchronization.
type Network struct {
	links   []Link
	demands []Demand

	// nodes[pos] = external node ID, ascending.
	nodes []int
	// pos[nodeID] = dense position in nodes.
	pos map[int]int

	// tailPos/headPos cache link endpoints as dense positions.
	tailPos []int
	headPos []int

	// out[p] lists outgoing link indices of node position p, ascending.
	out [][]int
}

// New validates links and demands and builds the adjacency structure.
//
// Validation order:
//  1. At least one link.
//  2. links[i].Index == i (index-aligned table).
//  3. Capacity > 0, Length ≥ 0, FreeFlowTime ≥ 0, all finite.
//  4. Tail != Head (self-loops carry no routing choice).
//  5. Every demand: Volume ≥ 0 and finite, Origin != Destination,
//     both endpoints present in the link table.
//
// Every failure wraps ErrInvalidInput.
//
// Complexity: O(E log E + D).
func New(links []Link, demands []Demand) (*Network, error) {
	// 1) Reject an empty table early.
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: empty link table", ErrInvalidInput)
	}

	// 2) Validate links and collect node IDs.
	seen := make(map[int]struct{}, len(links))
	for i, l := range links {
		if err := validateLink(i, l); err != nil {
			return nil, err
		}
		seen[l.Tail] = struct{}{}
		seen[l.Head] = struct{}{}
	}

	// 3) Assign dense positions in ascending node order for determinism.
	nodes := make([]int, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	sort.Ints(nodes)
	pos := make(map[int]int, len(nodes))
	for p, id := range nodes {
		pos[id] = p
	}

	// 4) Build forward adjacency. Links are visited in index order, so each
	//    out[p] is already ascending.
	n := &Network{
		links:   append([]Link(nil), links...),
		nodes:   nodes,
		pos:     pos,
		tailPos: make([]int, len(links)),
		headPos: make([]int, len(links)),
		out:     make([][]int, len(nodes)),
	}
	for i, l := range links {
		t, h := pos[l.Tail], pos[l.Head]
		n.tailPos[i] = t
		n.headPos[i] = h
		n.out[t] = append(n.out[t], i)
	}

	// 5) Validate demands against the node set.
	for row, d := range demands {
		if err := n.validateDemand(row, d); err != nil {
			return nil, err
		}
	}
	n.demands = append([]Demand(nil), demands...)

	return n, nil
}

func validateLink(i int, l Link) error {
	if l.Index != i {
		return LinkError{Index: i, Field: "index", Value: float64(l.Index), Reason: "does not match table position"}
	}
	if math.IsNaN(l.Capacity) || math.IsInf(l.Capacity, 0) || l.Capacity <= 0 {
		return LinkError{Index: i, Field: "capacity", Value: l.Capacity, Reason: "must be positive and finite"}
	}
	if math.IsNaN(l.Length) || math.IsInf(l.Length, 0) || l.Length < 0 {
		return LinkError{Index: i, Field: "length", Value: l.Length, Reason: "must be non-negative and finite"}
	}
	if math.IsNaN(l.FreeFlowTime) || math.IsInf(l.FreeFlowTime, 0) || l.FreeFlowTime < 0 {
		return LinkError{Index: i, Field: "fftt", Value: l.FreeFlowTime, Reason: "must be non-negative and finite"}
	}
	if l.Tail == l.Head {
		return LinkError{Index: i, Field: "head", Value: float64(l.Head), Reason: "self-loop"}
	}

	return nil
}

// ValidateDemands checks a demand table against this network's node set
// without modifying the network. Solvers call it on per-class demand splits.
func (n *Network) ValidateDemands(demands []Demand) error {
	for row, d := range demands {
		if err := n.validateDemand(row, d); err != nil {
			return err
		}
	}

	return nil
}

func (n *Network) validateDemand(row int, d Demand) error {
	if math.IsNaN(d.Volume) || math.IsInf(d.Volume, 0) || d.Volume < 0 {
		return DemandError{Row: row, Demand: d, Reason: "volume must be non-negative and finite"}
	}
	if d.Origin == d.Destination {
		return DemandError{Row: row, Demand: d, Reason: "origin equals destination"}
	}
	if _, ok := n.pos[d.Origin]; !ok {
		return fmt.Errorf("%w: %w", DemandError{Row: row, Demand: d, Reason: "unknown origin"}, ErrNodeNotFound)
	}
	if _, ok := n.pos[d.Destination]; !ok {
		return fmt.Errorf("%w: %w", DemandError{Row: row, Demand: d, Reason: "unknown destination"}, ErrNodeNotFound)
	}

	return nil
}

// NumLinks returns the number of links. O(1).
func (n *Network) NumLinks() int { return len(n.links) }

// NumNodes returns the number of distinct nodes. O(1).
func (n *Network) NumNodes() int { return len(n.nodes) }

// Link returns a copy of the link at index i.
func (n *Network) Link(i int) (Link, error) {
	if i < 0 || i >= len(n.links) {
		return Link{}, fmt.Errorf("%w: %d", ErrLinkIndex, i)
	}

	return n.links[i], nil
}

// Links returns a copy of the link table in index order.
func (n *Network) Links() []Link {
	return append([]Link(nil), n.links...)
}

// Demands returns a copy of the demand table.
func (n *Network) Demands() []Demand {
	return append([]Demand(nil), n.demands...)
}

// TotalVolume sums the volume of every demand row.
func (n *Network) TotalVolume() float64 {
	var sum float64
	for _, d := range n.demands {
		sum += d.Volume
	}

	return sum
}

// Nodes returns the external node IDs in ascending order.
func (n *Network) Nodes() []int {
	return append([]int(nil), n.nodes...)
}

// NodePos maps an external node ID to its dense position.
func (n *Network) NodePos(id int) (int, bool) {
	p, ok := n.pos[id]

	return p, ok
}

// NodeID maps a dense position back to the external node ID.
func (n *Network) NodeID(p int) int { return n.nodes[p] }

// Outgoing returns the outgoing link indices of the node at dense position p,
// in ascending index order. The slice is shared and must not be modified.
func (n *Network) Outgoing(p int) []int { return n.out[p] }

// HeadPos returns the dense position of link i's head node.
func (n *Network) HeadPos(i int) int { return n.headPos[i] }

// TailPos returns the dense position of link i's tail node.
func (n *Network) TailPos(i int) int { return n.tailPos[i] }
