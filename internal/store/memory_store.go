package store

import (
	"fmt"
	"sync"
	"time"

	"paletteai/pkg/domain"
)

// MemoryStore keeps palettes and counters in-process. Used by tests and
// local development; production uses GormStore.
type MemoryStore struct {
	mu       sync.RWMutex
	palettes map[string]domain.Palette
	order    []string
	counters map[string]domain.UsageCounter
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		palettes: make(map[string]domain.Palette),
		counters: make(map[string]domain.UsageCounter),
	}
}

// SavePalette stores a new palette, tracking insertion order.
func (m *MemoryStore) SavePalette(p domain.Palette) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.palettes[p.ID]; exists {
		return fmt.Errorf("palette %s already exists", p.ID)
	}
	m.order = append(m.order, p.ID)
	m.palettes[p.ID] = p
	return nil
}

// ListPalettesByOwner returns the owner's palettes in insertion order.
func (m *MemoryStore) ListPalettesByOwner(ownerID string) ([]domain.Palette, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Palette, 0)
	for _, id := range m.order {
		if p, ok := m.palettes[id]; ok && p.OwnerID == ownerID {
			res = append(res, p)
		}
	}
	return res, nil
}

// DeletePalettesByOwner removes all of the owner's palettes.
func (m *MemoryStore) DeletePalettesByOwner(ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	kept := m.order[:0]
	for _, id := range m.order {
		p, ok := m.palettes[id]
		if ok && p.OwnerID == ownerID {
			delete(m.palettes, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return deleted, nil
}

// RenamePalette updates the display name of the palette identified by owner
// and creation timestamp.
func (m *MemoryStore) RenamePalette(ownerID string, createdAt time.Time, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.palettes {
		if p.OwnerID == ownerID && p.CreatedAt.Equal(createdAt) {
			p.Name = name
			m.palettes[id] = p
			return true, nil
		}
	}
	return false, nil
}

// GetUsageCounter loads the owner's usage counter.
func (m *MemoryStore) GetUsageCounter(ownerID string) (domain.UsageCounter, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.counters[ownerID]
	return c, ok, nil
}

// SaveUsageCounter upserts the owner's usage counter.
func (m *MemoryStore) SaveUsageCounter(c domain.UsageCounter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[c.OwnerID] = c
	return nil
}
