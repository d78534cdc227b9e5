package controllers

import (
	"context"
	"net/http"

	"github.com/kantinapp/kantin-gateway/api/middleware"
	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/internal/cart"
	"github.com/kantinapp/kantin-gateway/internal/checkout"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type checkoutService interface {
	Submit(ctx context.Context, token string, store *cart.Store) (*checkout.Result, error)
}

// Checkout places the session's cart as an upstream order. The cart is only
// cleared when the upstream acknowledges.
func Checkout(svc checkoutService, slots cartSlots, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middleware.SessionFromContext(r.Context())
		store := slots.Get(r.Context(), session.CartSlot())

		result, err := svc.Submit(r.Context(), session.UpstreamToken, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
