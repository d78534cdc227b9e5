package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantinapp/kantin-gateway/internal/auth"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
)

type stubResolver struct {
	session *auth.Session
	err     error
	token   string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (*auth.Session, error) {
	s.token = token
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func TestAuthSeedsSession(t *testing.T) {
	resolver := &stubResolver{session: &auth.Session{ID: "s1", Role: upstream.RoleStudent, Username: "budi"}}

	var seen *auth.Session
	handler := Auth(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer gateway-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "gateway-token", resolver.token)
	require.NotNil(t, seen)
	assert.Equal(t, "budi", seen.Username)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(&stubResolver{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsBadToken(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session token")}
	handler := Auth(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleBlocksOtherRole(t *testing.T) {
	handler := RequireRole(upstream.RoleStand, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	session := &auth.Session{ID: "s1", Role: upstream.RoleStudent, Username: "budi"}
	req := httptest.NewRequest(http.MethodGet, "/stand-only", nil)
	req = req.WithContext(WithSession(req.Context(), session))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
