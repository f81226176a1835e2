package store

import (
	"context"
	"sort"
	"sync"

	"github.com/agenticzero/flowgraph/snapshot"
)

// MemStore is an in-memory Store, suitable for tests, single-process
// runs, and short-lived workflows where durability does not matter.
type MemStore struct {
	mu   sync.RWMutex
	runs map[string]map[int]*snapshot.Snapshot
}

func NewMemStore() *MemStore {
	return &MemStore{runs: make(map[string]map[int]*snapshot.Snapshot)}
}

func (m *MemStore) SaveSnapshot(_ context.Context, runID string, seq int, snap *snapshot.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runs[runID] == nil {
		m.runs[runID] = make(map[int]*snapshot.Snapshot)
	}
	m.runs[runID][seq] = snap
	return nil
}

func (m *MemStore) LoadLatest(_ context.Context, runID string) (*snapshot.Snapshot, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snaps, ok := m.runs[runID]
	if !ok || len(snaps) == 0 {
		return nil, 0, ErrNotFound
	}
	best := -1
	for seq := range snaps {
		if seq > best {
			best = seq
		}
	}
	return snaps[best], best, nil
}

func (m *MemStore) LoadSequence(_ context.Context, runID string, seq int) (*snapshot.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snaps, ok := m.runs[runID]
	if !ok {
		return nil, ErrNotFound
	}
	snap, ok := snaps[seq]
	if !ok {
		return nil, ErrNotFound
	}
	return snap, nil
}

func (m *MemStore) ListSequences(_ context.Context, runID string) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snaps, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	out := make([]int, 0, len(snaps))
	for seq := range snaps {
		out = append(out, seq)
	}
	sort.Ints(out)
	return out, nil
}

func (m *MemStore) Close() error { return nil }

var _ Store = (*MemStore)(nil)
