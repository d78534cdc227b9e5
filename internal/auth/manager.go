package auth

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/config"
	"github.com/kantinapp/kantin-gateway/pkg/errors"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

var errSessionMissing = stdErrors.New("session not found")

type authenticator interface {
	Login(ctx context.Context, role upstream.Role, username, password string) (*upstream.LoginResult, error)
	Register(ctx context.Context, role upstream.Role, profile map[string]string) (any, error)
}

// Manager owns the session lifecycle: it trades upstream credentials for a
// signed gateway token, and resolves that token back into a session on every
// request.
type Manager struct {
	upstream authenticator
	store    SessionStore
	cfg      config.SessionConfig
	logg     *logger.Logger
}

func NewManager(up authenticator, store SessionStore, cfg config.SessionConfig, logg *logger.Logger) (*Manager, error) {
	if up == nil {
		return nil, fmt.Errorf("upstream authenticator required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret required")
	}
	return &Manager{upstream: up, store: store, cfg: cfg, logg: logg}, nil
}

type sessionClaims struct {
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// LoginOutcome is handed back to the client after a successful login. It
// carries a session view, so the upstream bearer token stays inside the
// gateway.
type LoginOutcome struct {
	Token   string `json:"token"`
	Session *View  `json:"session"`
	Raw     any    `json:"profile,omitempty"`
}

// Login authenticates against the upstream and opens a gateway session.
func (m *Manager) Login(ctx context.Context, role upstream.Role, username, password string) (*LoginOutcome, error) {
	result, err := m.upstream.Login(ctx, role, username, password)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:            uuid.NewString(),
		Role:          role,
		Username:      username,
		UpstreamToken: result.Token,
		CreatedAt:     time.Now().UTC(),
	}
	encoded, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "encoding session")
	}
	if err := m.store.Set(ctx, m.store.SessionKey(session.ID), string(encoded), m.cfg.TTL()); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "storing session")
	}

	token, err := m.sign(session)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "signing session token")
	}

	if m.logg != nil {
		m.logg.Info(m.logg.WithRole(ctx, string(role)), "auth.session_opened")
	}
	return &LoginOutcome{Token: token, Session: session.View(), Raw: result.Raw}, nil
}

// Register passes an account creation through to the upstream. No session is
// opened; the client logs in afterwards.
func (m *Manager) Register(ctx context.Context, role upstream.Role, profile map[string]string) (any, error) {
	return m.upstream.Register(ctx, role, profile)
}

// Resolve validates a gateway token and loads its session. Any defect —
// bad signature, expiry, unknown session id, evicted record — collapses to
// an unauthorized error; callers never learn which.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithIssuer(m.cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, errors.New(errors.CodeUnauthorized, "invalid session token")
	}

	encoded, err := m.store.Get(ctx, m.store.SessionKey(claims.SessionID))
	if err != nil {
		return nil, errors.New(errors.CodeUnauthorized, "session expired")
	}
	session := &Session{}
	if err := json.Unmarshal([]byte(encoded), session); err != nil {
		return nil, errors.New(errors.CodeUnauthorized, "session expired")
	}
	return session, nil
}

// Logout closes the session behind a gateway token. Unknown or already
// expired tokens succeed: logout is idempotent.
func (m *Manager) Logout(ctx context.Context, token string) error {
	session, err := m.Resolve(ctx, token)
	if err != nil {
		return nil
	}
	if err := m.store.Del(ctx, m.store.SessionKey(session.ID)); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting session")
	}
	if m.logg != nil {
		m.logg.Info(m.logg.WithRole(ctx, string(session.Role)), "auth.session_closed")
	}
	return nil
}

func (m *Manager) sign(session *Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role:      string(session.Role),
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL())),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
}
