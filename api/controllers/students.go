package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kantinapp/kantin-gateway/api/middleware"
	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/api/validators"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type studentRoster interface {
	ListStudents(ctx context.Context, token string) ([]upstream.RawRecord, error)
	CreateStudent(ctx context.Context, token string, profile map[string]string) (any, error)
	DeleteStudent(ctx context.Context, token string, studentID int) error
}

type studentCreateRequest struct {
	Profile map[string]string `json:"profile" validate:"required"`
}

func StudentList(roster studentRoster, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middleware.SessionFromContext(r.Context())
		list, err := roster.ListStudents(r.Context(), session.UpstreamToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func StudentCreate(roster studentRoster, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req studentCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Profile["username"] == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "profile requires username"))
			return
		}

		session := middleware.SessionFromContext(r.Context())
		ack, err := roster.CreateStudent(r.Context(), session.UpstreamToken, req.Profile)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ack)
	}
}

func StudentDelete(roster studentRoster, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := validators.IntParam("studentId", chi.URLParam(r, "studentId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.SessionFromContext(r.Context())
		if err := roster.DeleteStudent(r.Context(), session.UpstreamToken, studentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
