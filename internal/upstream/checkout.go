package upstream

import (
	"context"

	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
)

// OrderLineInput is one cart line as submitted to the upstream order endpoint.
type OrderLineInput struct {
	MenuID int `json:"id_menu"`
	Qty    int `json:"qty"`
}

// SubmitOrder places an order from the given lines. The upstream either
// acknowledges with a 2xx or rejects; the decoded acknowledgement is returned
// for display.
func (c *Client) SubmitOrder(ctx context.Context, token string, lines []OrderLineInput) (any, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to place order")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line")
	}
	return c.postJSON(ctx, token, "pesan", map[string]any{"items": lines})
}
