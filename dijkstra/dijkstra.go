// SPDX-License-Identifier: MIT

// Package dijkstra implements Dijkstra's shortest-path algorithm on a
// network.Network whose link costs are supplied as a vector indexed by link.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E) (lazy decrease-key may hold up to E heap entries)
//
// Notes on implementation choices:
//
//   - We perform an upfront scan of the cost vector (O(E)) to detect negative
//     or NaN costs and fail fast.
//   - Outgoing links are relaxed in ascending link index, a label is replaced
//     only on a strictly smaller distance, and heap ties are broken by node
//     position. For equal-cost alternatives the first path discovered wins,
//     and repeated runs on the same input produce the same tree.
//   - We use a "lazy" decrease-key strategy: pushing duplicates into the heap
//     and ignoring stale entries.
package dijkstra

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/trafficeq/network"
)

// Tree is the shortest-path tree rooted at Options.Source.
type Tree struct {
	net *network.Network

	// Source is the external ID of the root node.
	Source int

	// dist[p] is the distance to node position p (+Inf if unreached).
	dist []float64

	// pred[p] is the link index entering p on the tree, or -1.
	pred []int
}

// Dijkstra computes shortest distances from Options.Source to every node of n
// under the link costs in costs (len(costs) == n.NumLinks()).
//
// Preconditions and validation (in order):
//  1. Source must be set (ErrNoSource).
//  2. n must be non-nil (ErrNilNetwork).
//  3. len(costs) == n.NumLinks() (ErrCostLength).
//  4. Source must exist (ErrSourceNotFound).
//  5. No cost may be negative or NaN (ErrNegativeCost).
func Dijkstra(n *network.Network, costs []float64, opts ...Option) (*Tree, error) {
	// 1) Build Options and validate Source is provided
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.HasSource {
		return nil, ErrNoSource
	}

	// 2) Validate network is non-nil
	if n == nil {
		return nil, ErrNilNetwork
	}

	// 3) Validate cost vector shape
	if len(costs) != n.NumLinks() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCostLength, len(costs), n.NumLinks())
	}

	// 4) Validate Source exists
	src, ok := n.NodePos(cfg.Source)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSourceNotFound, cfg.Source)
	}

	// 5) Pre-scan costs. NaN fails the c >= 0 test as well.
	for i, c := range costs {
		if !(c >= 0) {
			return nil, fmt.Errorf("%w: link %d cost=%g", ErrNegativeCost, i, c)
		}
	}

	// 6) Prepare data structures.
	V := n.NumNodes()
	r := &runner{
		net:     n,
		costs:   costs,
		dist:    make([]float64, V),
		pred:    make([]int, V),
		visited: make([]bool, V),
		pq:      make(nodePQ, 0, V),
	}
	for p := range r.dist {
		r.dist[p] = math.Inf(1)
		r.pred[p] = -1
	}

	// 7) Resolve targets to positions; unknown targets are simply never settled.
	if len(cfg.Targets) > 0 {
		r.pending = make(map[int]struct{}, len(cfg.Targets))
		for _, t := range cfg.Targets {
			if p, ok := n.NodePos(t); ok {
				r.pending[p] = struct{}{}
			}
		}
	}

	// 8) Run.
	r.dist[src] = 0
	heap.Push(&r.pq, &nodeItem{pos: src, dist: 0})
	r.process()

	// 9) After an early stop, tentative labels are not final: drop them.
	if r.pending != nil {
		for p, done := range r.visited {
			if !done {
				r.dist[p] = math.Inf(1)
				r.pred[p] = -1
			}
		}
	}

	return &Tree{net: n, Source: cfg.Source, dist: r.dist, pred: r.pred}, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	net     *network.Network
	costs   []float64
	dist    []float64
	pred    []int
	visited []bool
	pending map[int]struct{}
	pq      nodePQ
}

// process is the core loop. It terminates when the heap is empty or, if
// targets were given, when the last pending target is settled.
func (r *runner) process() {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.pos

		// Skip stale heap entries.
		if r.visited[u] {
			continue
		}
		r.visited[u] = true

		if r.pending != nil {
			delete(r.pending, u)
			if len(r.pending) == 0 {
				return
			}
		}

		r.relax(u)
	}
}

// relax examines each link leaving u in ascending index order.
func (r *runner) relax(u int) {
	du := r.dist[u]
	for _, li := range r.net.Outgoing(u) {
		w := r.costs[li]
		v := r.net.HeadPos(li)
		if r.visited[v] {
			continue
		}
		// Strict "<" keeps the first-discovered path on ties.
		nd := du + w
		if nd >= r.dist[v] {
			continue
		}
		r.dist[v] = nd
		r.pred[v] = li
		heap.Push(&r.pq, &nodeItem{pos: v, dist: nd})
	}
}

// Distance returns the shortest distance to node and whether it was reached.
func (t *Tree) Distance(node int) (float64, bool) {
	p, ok := t.net.NodePos(node)
	if !ok || math.IsInf(t.dist[p], 1) {
		return math.Inf(1), false
	}

	return t.dist[p], true
}

// PathTo returns the link indices of the tree path from Source to node, in
// travel order. The path to Source itself is empty.
func (t *Tree) PathTo(node int) ([]int, error) {
	p, ok := t.net.NodePos(node)
	if !ok {
		return nil, fmt.Errorf("%w: %d (unknown node)", ErrNoPath, node)
	}
	if math.IsInf(t.dist[p], 1) {
		return nil, fmt.Errorf("%w: %d", ErrNoPath, node)
	}

	var path []int
	for li := t.pred[p]; li >= 0; li = t.pred[p] {
		path = append(path, li)
		p = t.net.TailPos(li)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// EachPathLink calls fn for every link on the tree path to node, walking
// backwards from node to Source. It allocates nothing, which matters in the
// all-or-nothing loading loop.
func (t *Tree) EachPathLink(node int, fn func(link int)) error {
	p, ok := t.net.NodePos(node)
	if !ok || math.IsInf(t.dist[p], 1) {
		return fmt.Errorf("%w: %d", ErrNoPath, node)
	}
	for li := t.pred[p]; li >= 0; li = t.pred[p] {
		fn(li)
		p = t.net.TailPos(li)
	}

	return nil
}

// nodeItem represents a node position and its tentative distance.
type nodeItem struct {
	pos  int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by dist, then by node position.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].pos < pq[j].pos
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
