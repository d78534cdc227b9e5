package middleware

import (
	"context"

	"github.com/kantinapp/kantin-gateway/internal/auth"
)

type contextKey string

const ctxSession contextKey = "gateway_session"

// SessionFromContext returns the session seeded by the Auth middleware, or
// nil outside an authenticated route.
func SessionFromContext(ctx context.Context) *auth.Session {
	if ctx == nil {
		return nil
	}
	if session, ok := ctx.Value(ctxSession).(*auth.Session); ok {
		return session
	}
	return nil
}

// WithSession injects a session into the context, used by Auth and by tests.
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, session)
}
