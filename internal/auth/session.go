package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kantinapp/kantin-gateway/internal/upstream"
)

// Session is one authenticated gateway session. The upstream bearer token
// never leaves the gateway: clients hold a signed session token, the session
// record maps it back to the upstream credential.
type Session struct {
	ID            string        `json:"id"`
	Role          upstream.Role `json:"role"`
	Username      string        `json:"username"`
	UpstreamToken string        `json:"upstream_token"`
	CreatedAt     time.Time     `json:"created_at"`
}

// View is the client-facing projection of a session: every field except the
// upstream credential. Handlers serialize views, never sessions.
type View struct {
	ID        string        `json:"id"`
	Role      upstream.Role `json:"role"`
	Username  string        `json:"username"`
	CreatedAt time.Time     `json:"created_at"`
}

func (s *Session) View() *View {
	return &View{
		ID:        s.ID,
		Role:      s.Role,
		Username:  s.Username,
		CreatedAt: s.CreatedAt,
	}
}

// CartSlot keys the session's cart. Slots are keyed by identity, not session
// id, so a cart survives logout and re-login.
func (s *Session) CartSlot() string {
	return string(s.Role) + ":" + strings.ToLower(s.Username)
}

// SessionStore persists session records for the lifetime of the token.
type SessionStore interface {
	SessionKey(sessionID string) string
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// MemorySessionStore keeps sessions in process memory, for tests and
// single-instance deployments without Redis. TTLs are honored lazily on read.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[string]memoryEntry)}
}

func (m *MemorySessionStore) SessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (m *MemorySessionStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	text, _ := value.(string)
	entry := memoryEntry{value: text}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", errSessionMissing
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", errSessionMissing
	}
	return entry.value, nil
}

func (m *MemorySessionStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}
