// Package memory provides a slice-backed implementation of
// storage.Storage. Nothing is persisted; the data lives as long as the
// process does.
//
// All lookups are linear scans over the slice, which keeps insertion order
// without any index to maintain. A single RWMutex serialises writers so each
// request sees the store as if requests ran one at a time.
package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/types"
)

// Memory is the in-memory developer store.
type Memory struct {
	mu         sync.RWMutex
	developers []types.Developer
	newID      func() string
}

// New returns an empty store that generates UUIDv4 ids.
func New() *Memory {
	return &Memory{
		developers: make([]types.Developer, 0),
		newID:      uuid.NewString,
	}
}

// indexOf returns the position of the first developer with the given id,
// or -1. Callers must hold mu.
func (m *Memory) indexOf(id string) int {
	for i := range m.developers {
		if m.developers[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) ListDevelopers() ([]types.Developer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Developer, len(m.developers))
	copy(out, m.developers)
	return out, nil
}

func (m *Memory) GetDeveloperByID(id string) (types.Developer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Developer{}, fmt.Errorf("GetDeveloperByID %s: %w", id, storage.ErrNotFound)
	}
	return m.developers[i], nil
}

func (m *Memory) CreateDeveloper(dev types.Developer) (types.Developer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev.ID = m.newID()
	if m.indexOf(dev.ID) >= 0 {
		return types.Developer{}, fmt.Errorf("CreateDeveloper: duplicate id %s", dev.ID)
	}
	m.developers = append(m.developers, dev)
	return dev, nil
}

func (m *Memory) UpdateDeveloperByID(id string, dev types.Developer) (types.Developer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Developer{}, fmt.Errorf("UpdateDeveloperByID %s: %w", id, storage.ErrNotFound)
	}

	// The id is immutable; everything else is replaced.
	dev.ID = m.developers[i].ID
	m.developers[i] = dev
	return dev, nil
}

func (m *Memory) ToggleRegisteredByID(id string) (types.Developer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Developer{}, fmt.Errorf("ToggleRegisteredByID %s: %w", id, storage.ErrNotFound)
	}
	m.developers[i].Registered = !m.developers[i].Registered
	return m.developers[i], nil
}

func (m *Memory) DeleteDeveloperByID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("DeleteDeveloperByID %s: %w", id, storage.ErrNotFound)
	}
	m.developers = append(m.developers[:i], m.developers[i+1:]...)
	return nil
}

func (m *Memory) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.developers), nil
}
