package cart

import (
	"context"
	"sync"
)

// Persister stores cart slots durably. Implementations are last-write-wins:
// concurrent sessions on the same slot simply overwrite each other.
type Persister interface {
	Load(ctx context.Context, slot string) ([]Line, error)
	Save(ctx context.Context, slot string, lines []Line) error
	Clear(ctx context.Context, slot string) error
}

// MemoryPersister keeps slots in process memory. Used in tests and for
// deployments that opt out of durable carts.
type MemoryPersister struct {
	mu    sync.Mutex
	slots map[string][]Line
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{slots: make(map[string][]Line)}
}

func (m *MemoryPersister) Load(ctx context.Context, slot string) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines, ok := m.slots[slot]
	if !ok {
		return nil, nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (m *MemoryPersister) Save(ctx context.Context, slot string, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]Line, len(lines))
	copy(stored, lines)
	m.slots[slot] = stored
	return nil
}

func (m *MemoryPersister) Clear(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}
