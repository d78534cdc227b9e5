package controllers

import (
	"context"
	"net/http"

	"github.com/kantinapp/kantin-gateway/api/middleware"
	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/api/validators"
	"github.com/kantinapp/kantin-gateway/internal/auth"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type sessionManager interface {
	Login(ctx context.Context, role upstream.Role, username, password string) (*auth.LoginOutcome, error)
	Register(ctx context.Context, role upstream.Role, profile map[string]string) (any, error)
	Logout(ctx context.Context, token string) error
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=siswa stand"`
}

type registerRequest struct {
	Role    string            `json:"role" validate:"required,oneof=siswa stand"`
	Profile map[string]string `json:"profile" validate:"required"`
}

// AuthLogin trades upstream credentials for a gateway session token.
func AuthLogin(manager sessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := manager.Login(r.Context(), upstream.Role(req.Role), req.Username, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, outcome)
	}
}

// AuthRegister passes an account creation through to the upstream.
func AuthRegister(manager sessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Profile["username"] == "" || req.Profile["password"] == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "profile requires username and password"))
			return
		}

		ack, err := manager.Register(r.Context(), upstream.Role(req.Role), req.Profile)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ack)
	}
}

// AuthLogout closes the presented gateway session. Idempotent.
func AuthLogout(manager sessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := validators.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := manager.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthSession echoes the authenticated session, minus the upstream token.
func AuthSession(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middleware.SessionFromContext(r.Context())
		if session == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no session"))
			return
		}
		responses.WriteSuccess(w, session.View())
	}
}
