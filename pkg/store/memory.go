package store

import (
	"fmt"
	"sync"

	"github.com/streamsed/streamsed/pkg/types"
)

// MemoryStore is an in-memory Store implementation, used for ":memory:"
// paths and in tests that don't want a real database file.
type MemoryStore struct {
	mu    sync.Mutex
	sets  map[string]types.NeedleSet
	runs  map[string][]*types.RunStats
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		sets: make(map[string]types.NeedleSet),
		runs: make(map[string][]*types.RunStats),
	}
}

func (m *MemoryStore) PutNeedleSet(set types.NeedleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Store a defensive copy so later mutation of the caller's slice
	// doesn't reach back into the store.
	needles := append([]types.Needle(nil), set.Needles...)
	m.sets[set.Name] = types.NeedleSet{Name: set.Name, Needles: needles}
	return nil
}

func (m *MemoryStore) GetNeedleSet(name string) (types.NeedleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[name]
	if !ok {
		return types.NeedleSet{}, fmt.Errorf("streamsed: no needle set named %q", name)
	}
	return set, nil
}

func (m *MemoryStore) ListNeedleSets() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.sets))
	for name := range m.sets {
		names = append(names, name)
	}
	return names, nil
}

func (m *MemoryStore) DeleteNeedleSet(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, name)
	return nil
}

func (m *MemoryStore) PutRun(stats *types.RunStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	hits := make(map[int]int64, len(stats.NeedleHits))
	for k, v := range stats.NeedleHits {
		hits[k] = v
	}
	cp := *stats
	cp.NeedleHits = hits
	m.runs[stats.NeedleSetID] = append(m.runs[stats.NeedleSetID], &cp)
	return nil
}

func (m *MemoryStore) GetRuns(needleSetID string) ([]*types.RunStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*types.RunStats(nil), m.runs[needleSetID]...), nil
}

func (m *MemoryStore) Close() error { return nil }
