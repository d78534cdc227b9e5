package checkout

import (
	"context"
	"fmt"

	"github.com/kantinapp/kantin-gateway/internal/cart"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/errors"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type orderSubmitter interface {
	SubmitOrder(ctx context.Context, token string, lines []upstream.OrderLineInput) (any, error)
}

// Service converts a cart slot into a placed order.
type Service struct {
	submitter orderSubmitter
	logg      *logger.Logger
}

func NewService(submitter orderSubmitter, logg *logger.Logger) (*Service, error) {
	if submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	return &Service{submitter: submitter, logg: logg}, nil
}

// Result is the outcome of a successful checkout.
type Result struct {
	Acknowledgement any     `json:"acknowledgement,omitempty"`
	LineCount       int     `json:"line_count"`
	TotalQty        int     `json:"total_qty"`
	TotalPrice      float64 `json:"total_price"`
}

// Submit places the cart's contents as an order. The cart is cleared only
// after the upstream acknowledges; a rejected or failed submission leaves
// every line in place so the student can retry.
func (s *Service) Submit(ctx context.Context, token string, store *cart.Store) (*Result, error) {
	lines := store.Lines()
	if len(lines) == 0 {
		return nil, errors.New(errors.CodeValidation, "cart is empty")
	}

	payload := make([]upstream.OrderLineInput, 0, len(lines))
	for _, line := range lines {
		payload = append(payload, upstream.OrderLineInput{MenuID: line.MenuID, Qty: line.Qty})
	}

	result := &Result{
		LineCount:  len(lines),
		TotalQty:   store.TotalQty(),
		TotalPrice: store.TotalPrice(),
	}

	ack, err := s.submitter.SubmitOrder(ctx, token, payload)
	if err != nil {
		return nil, err
	}
	result.Acknowledgement = ack

	store.Reset(ctx)
	if s.logg != nil {
		s.logg.Info(ctx, "checkout.order_placed")
	}
	return result, nil
}
