// SPDX-License-Identifier: MIT

package sweep

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	byKey map[int64]*AlphaResult
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byKey: make(map[int64]*AlphaResult)}
}

// Put implements Store.
func (m *MemoryStore) Put(r *AlphaResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey[r.Key] = clone(r)

	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(alpha float64) (*AlphaResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byKey[Key(alpha)]
	if !ok {
		return nil, fmt.Errorf("%w: alpha %g", ErrNotFound, alpha)
	}

	return clone(r), nil
}

// List implements Store.
func (m *MemoryStore) List() ([]*AlphaResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*AlphaResult, 0, len(m.byKey))
	for _, r := range m.byKey {
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}

func clone(r *AlphaResult) *AlphaResult {
	c := *r
	if r.Profile != nil {
		c.Profile = r.Profile.Clone()
	}

	return &c
}
