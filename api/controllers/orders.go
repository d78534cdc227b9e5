package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kantinapp/kantin-gateway/api/middleware"
	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/api/validators"
	"github.com/kantinapp/kantin-gateway/internal/orders"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type ordersService interface {
	ListEnriched(ctx context.Context, token, status string) ([]orders.Order, error)
}

type orderStatusWriter interface {
	UpdateOrderStatus(ctx context.Context, token string, orderID int, status string) (any, error)
	Receipt(ctx context.Context, token string, orderID int) ([]byte, string, error)
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderList serves enriched orders for one status bucket. The bucket path
// segment is canonical text; anything else still reaches the upstream and
// simply yields whatever it classifies back to.
func OrderList(svc ordersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bucket := chi.URLParam(r, "bucket")

		session := middleware.SessionFromContext(r.Context())
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithStatusBucket(ctx, bucket)
		}

		list, err := svc.ListEnriched(ctx, session.UpstreamToken, bucket)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderBuckets lists the canonical lifecycle buckets, for building tabs.
func OrderBuckets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, orders.CanonicalBuckets)
	}
}

// OrderStatusUpdate advances an order's lifecycle stage (stand only).
func OrderStatusUpdate(client orderStatusWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.IntParam("orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req orderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.SessionFromContext(r.Context())
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID)
		}

		ack, err := client.UpdateOrderStatus(ctx, session.UpstreamToken, orderID, req.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ack)
	}
}

// OrderReceipt streams the upstream-rendered receipt untouched.
func OrderReceipt(client orderStatusWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.IntParam("orderId", chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := middleware.SessionFromContext(r.Context())
		body, contentType, err := client.Receipt(r.Context(), session.UpstreamToken, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}
