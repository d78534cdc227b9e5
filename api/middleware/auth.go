package middleware

import (
	"context"
	"net/http"

	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/api/validators"
	"github.com/kantinapp/kantin-gateway/internal/auth"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

// SessionResolver turns a gateway token into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

// Auth validates the bearer token and seeds the request context with the
// resolved session.
func Auth(resolver SessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			session, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSession(r.Context(), session)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"role":     string(session.Role),
					"username": session.Username,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
