package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kantinapp/kantin-gateway/internal/menu"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

// Store holds the authoritative cart state for one slot. All writes go
// through its methods so the invariants hold in one place: unique menu ids,
// quantities never below one, arrival order preserved. Every mutation is
// written through to the persister; persistence failures are logged and
// absorbed, they never block the mutation.
type Store struct {
	mu        sync.Mutex
	slot      string
	lines     []Line
	open      bool
	persister Persister
	listeners []func()
	logg      *logger.Logger
}

// NewStore builds an empty store for the given slot key.
func NewStore(slot string, persister Persister, logg *logger.Logger) *Store {
	return &Store{slot: slot, persister: persister, logg: logg}
}

// hydrate replaces the line collection from persisted state. Lines that
// violate invariants are dropped rather than rejected wholesale.
func (s *Store) hydrate(lines []Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = s.lines[:0]
	seen := make(map[int]struct{}, len(lines))
	for _, line := range lines {
		if line.MenuID <= 0 || line.Qty < 1 {
			continue
		}
		if _, dup := seen[line.MenuID]; dup {
			continue
		}
		seen[line.MenuID] = struct{}{}
		s.lines = append(s.lines, line)
	}
}

// AddItem merges a catalog entry into the cart. An unresolvable menu id is a
// silent no-op. Quantities below one count as one.
func (s *Store) AddItem(ctx context.Context, entry menu.Entry, qty int) {
	if entry.MenuID <= 0 {
		return
	}
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].MenuID == entry.MenuID {
			s.lines[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		var raw json.RawMessage
		if entry.Raw != nil {
			if encoded, err := json.Marshal(entry.Raw); err == nil {
				raw = encoded
			}
		}
		s.lines = append(s.lines, Line{
			MenuID:     entry.MenuID,
			Name:       entry.Name,
			UnitPrice:  entry.Price,
			Qty:        qty,
			PhotoURL:   entry.PhotoURL,
			VendorName: entry.Vendor,
			Raw:        raw,
		})
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify()
}

// Increment raises a line's quantity by one; absent ids are a no-op.
func (s *Store) Increment(ctx context.Context, menuID int) {
	s.adjust(ctx, menuID, +1)
}

// Decrement lowers a line's quantity by one; dropping below one removes the
// line. Absent ids are a no-op.
func (s *Store) Decrement(ctx context.Context, menuID int) {
	s.adjust(ctx, menuID, -1)
}

func (s *Store) adjust(ctx context.Context, menuID, delta int) {
	s.mu.Lock()
	changed := false
	for i := range s.lines {
		if s.lines[i].MenuID != menuID {
			continue
		}
		s.lines[i].Qty += delta
		if s.lines[i].Qty < 1 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		}
		changed = true
		break
	}
	var snapshot []Line
	if changed {
		snapshot = s.snapshotLocked()
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	s.persist(ctx, snapshot)
	s.notify()
}

// Remove deletes a line unconditionally; absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, menuID int) {
	s.mu.Lock()
	changed := false
	for i := range s.lines {
		if s.lines[i].MenuID == menuID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			changed = true
			break
		}
	}
	var snapshot []Line
	if changed {
		snapshot = s.snapshotLocked()
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	s.persist(ctx, snapshot)
	s.notify()
}

// Reset clears every line, called after a successful checkout.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.lines = s.lines[:0]
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Clear(ctx, s.slot); err != nil && s.logg != nil {
			s.logg.Error(ctx, "cart.persist_clear_failed", err)
		}
	}
	s.notify()
}

// Lines returns a copy of the line collection in arrival order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TotalQty sums all line quantities.
func (s *Store) TotalQty() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Qty
	}
	return total
}

// TotalPrice sums unit price times quantity over all lines.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// Open marks the cart presentation surface visible.
func (s *Store) Open() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
	s.notify()
}

// Close hides the cart presentation surface.
func (s *Store) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
	s.notify()
}

// IsOpen reports the visibility flag.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Subscribe registers a listener invoked after every mutation. Listeners
// must not mutate the store re-entrantly.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) snapshotLocked() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) persist(ctx context.Context, snapshot []Line) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.slot, snapshot); err != nil && s.logg != nil {
		s.logg.Error(ctx, "cart.persist_failed", err)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
