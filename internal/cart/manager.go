package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

// Manager hands out one Store per slot key, hydrating from the persister on
// first access. A slot that fails to load — absent, corrupt, or the backend
// being down — hydrates to an empty cart instead of failing.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister Persister
	logg      *logger.Logger
}

func NewManager(persister Persister, logg *logger.Logger) (*Manager, error) {
	if persister == nil {
		return nil, fmt.Errorf("cart persister required")
	}
	return &Manager{
		stores:    make(map[string]*Store),
		persister: persister,
		logg:      logg,
	}, nil
}

// Get returns the store for a slot, creating and hydrating it if needed.
// A new store is published only after hydration, so a mutation arriving on
// a second request can never be overwritten by the initial load.
func (m *Manager) Get(ctx context.Context, slot string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if store, ok := m.stores[slot]; ok {
		return store
	}

	store := NewStore(slot, m.persister, m.logg)
	lines, err := m.persister.Load(ctx, slot)
	if err != nil {
		if m.logg != nil {
			m.logg.Error(ctx, "cart.hydrate_failed", err)
		}
	} else {
		store.hydrate(lines)
	}
	m.stores[slot] = store
	return store
}
