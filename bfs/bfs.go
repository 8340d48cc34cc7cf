// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over a network.Network,
// returning hop distances, parent links, and visit order.
//
// Its main consumer is the reachability pre-check run before any equilibrium
// solve: every OD pair with positive volume must have a directed path.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/trafficeq/network"
)

// queueItem pairs a node position with its BFS depth.
type queueItem struct {
	pos   int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	net     *network.Network
	ctx     context.Context
	queue   []queueItem
	visited []bool
	res     *BFSResult
}

// BFS runs breadth-first search on n starting from node start, following
// links in their direction and in ascending link index.
// Returns ErrNetworkNil or ErrStartNodeNotFound for invalid input, or
// ctx.Err() when the context ends mid-search.
func BFS(n *network.Network, start int, opts ...Option) (*BFSResult, error) {
	if n == nil {
		return nil, ErrNetworkNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p, ok := n.NodePos(start)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrStartNodeNotFound, start)
	}

	size := n.NumNodes()
	w := &walker{
		net:     n,
		ctx:     o.Ctx,
		queue:   make([]queueItem, 0, size),
		visited: make([]bool, size),
		res: &BFSResult{
			Order:      make([]int, 0, size),
			Depth:      make(map[int]int, size),
			ParentLink: make(map[int]int, size),
		},
	}

	w.enqueue(p, 0, -1)

	return w.res, w.loop()
}

// enqueue marks pos visited at depth d and records the link it came through.
func (w *walker) enqueue(pos, d, via int) {
	id := w.net.NodeID(pos)
	w.visited[pos] = true
	w.res.Depth[id] = d
	if via >= 0 {
		w.res.ParentLink[id] = via
	}
	w.queue = append(w.queue, queueItem{pos: pos, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]

		w.res.Order = append(w.res.Order, w.net.NodeID(item.pos))

		next := item.depth + 1
		for _, li := range w.net.Outgoing(item.pos) {
			h := w.net.HeadPos(li)
			if !w.visited[h] {
				w.enqueue(h, next, li)
			}
		}
	}

	return nil
}

// CheckDemands verifies that every demand with positive volume has a directed
// path from origin to destination. Origins are searched once each.
// The first failing pair is reported as an error wrapping network.ErrUnreachable.
// A cancelled or expired ctx is returned as ctx.Err(), unwrapped.
func CheckDemands(ctx context.Context, n *network.Network, demands []network.Demand) error {
	if n == nil {
		return ErrNetworkNil
	}
	reached := make(map[int]*BFSResult)
	for row, d := range demands {
		if d.Volume <= 0 {
			continue
		}
		res, ok := reached[d.Origin]
		if !ok {
			var err error
			res, err = BFS(n, d.Origin, WithContext(ctx))
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if err != nil {
				return fmt.Errorf("%w: demand %d: %w", network.ErrInvalidInput, row, err)
			}
			reached[d.Origin] = res
		}
		if !res.Reached(d.Destination) {
			return fmt.Errorf("%w: demand %d (%d→%d)", network.ErrUnreachable, row, d.Origin, d.Destination)
		}
	}

	return nil
}
