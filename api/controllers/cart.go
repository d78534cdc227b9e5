package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kantinapp/kantin-gateway/api/middleware"
	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/api/validators"
	"github.com/kantinapp/kantin-gateway/internal/cart"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type cartSlots interface {
	Get(ctx context.Context, slot string) *cart.Store
}

type cartAddRequest struct {
	MenuID int `json:"id_menu" validate:"required,min=1"`
	Qty    int `json:"qty" validate:"min=0"`
}

type cartView struct {
	Lines      []cart.Line `json:"lines"`
	TotalQty   int         `json:"total_qty"`
	TotalPrice float64     `json:"total_price"`
	Open       bool        `json:"open"`
}

func viewOf(store *cart.Store) cartView {
	return cartView{
		Lines:      store.Lines(),
		TotalQty:   store.TotalQty(),
		TotalPrice: store.TotalPrice(),
		Open:       store.IsOpen(),
	}
}

func sessionStore(r *http.Request, slots cartSlots) *cart.Store {
	session := middleware.SessionFromContext(r.Context())
	return slots.Get(r.Context(), session.CartSlot())
}

func CartFetch(slots cartSlots, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, viewOf(sessionStore(r, slots)))
	}
}

// CartAdd resolves the menu item in the live catalog and merges it into the
// cart. Unknown ids are rejected rather than stored blind.
func CartAdd(slots cartSlots, catalog catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartAddRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.SessionFromContext(r.Context())
		entry, err := lookupEntry(r.Context(), catalog, session.UpstreamToken, req.MenuID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := slots.Get(r.Context(), session.CartSlot())
		store.AddItem(r.Context(), entry, req.Qty)
		responses.WriteSuccess(w, viewOf(store))
	}
}

func CartIncrement(slots cartSlots, logg *logger.Logger) http.HandlerFunc {
	return cartAdjust(slots, logg, func(ctx context.Context, store *cart.Store, menuID int) {
		store.Increment(ctx, menuID)
	})
}

func CartDecrement(slots cartSlots, logg *logger.Logger) http.HandlerFunc {
	return cartAdjust(slots, logg, func(ctx context.Context, store *cart.Store, menuID int) {
		store.Decrement(ctx, menuID)
	})
}

func CartRemove(slots cartSlots, logg *logger.Logger) http.HandlerFunc {
	return cartAdjust(slots, logg, func(ctx context.Context, store *cart.Store, menuID int) {
		store.Remove(ctx, menuID)
	})
}

func cartAdjust(slots cartSlots, logg *logger.Logger, mutate func(context.Context, *cart.Store, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menuID, err := validators.IntParam("menuId", chi.URLParam(r, "menuId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := sessionStore(r, slots)
		mutate(r.Context(), store, menuID)
		responses.WriteSuccess(w, viewOf(store))
	}
}

func CartReset(slots cartSlots, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := sessionStore(r, slots)
		store.Reset(r.Context())
		responses.WriteSuccess(w, viewOf(store))
	}
}

func CartOpen(slots cartSlots, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := sessionStore(r, slots)
		store.Open()
		responses.WriteSuccess(w, viewOf(store))
	}
}

func CartClose(slots cartSlots, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := sessionStore(r, slots)
		store.Close()
		responses.WriteSuccess(w, viewOf(store))
	}
}
