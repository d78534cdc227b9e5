package controllers

import (
	"context"
	"net/http"

	"github.com/kantinapp/kantin-gateway/api/middleware"
	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/api/validators"
	"github.com/kantinapp/kantin-gateway/internal/reports"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type recapService interface {
	MonthlyRecap(ctx context.Context, token, monthStart string) (*reports.Recap, error)
	StudentMonthlyRecap(ctx context.Context, token, monthStart string) (*reports.Recap, error)
}

// MonthlyRecap serves the stand's income recap for one month (?month=YYYY-MM-01).
func MonthlyRecap(svc recapService, logg *logger.Logger) http.HandlerFunc {
	return recap(svc, logg, func(svc recapService, ctx context.Context, token, month string) (*reports.Recap, error) {
		return svc.MonthlyRecap(ctx, token, month)
	})
}

// StudentMonthlyRecap serves one student's spending recap for a month.
func StudentMonthlyRecap(svc recapService, logg *logger.Logger) http.HandlerFunc {
	return recap(svc, logg, func(svc recapService, ctx context.Context, token, month string) (*reports.Recap, error) {
		return svc.StudentMonthlyRecap(ctx, token, month)
	})
}

func recap(svc recapService, logg *logger.Logger, fetch func(recapService, context.Context, string, string) (*reports.Recap, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, err := validators.MonthStart(r.URL.Query().Get("month"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.SessionFromContext(r.Context())
		result, err := fetch(svc, r.Context(), session.UpstreamToken, month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
