package upstream

import (
	"context"
	"fmt"
	"net/url"

	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
)

// ListOrders fetches the raw order list for a status bucket. The status is a
// free-text path segment upstream; it is URL-encoded here, never validated.
func (c *Client) ListOrders(ctx context.Context, token, status string) ([]RawRecord, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to list orders")
	}
	decoded, err := c.get(ctx, token, "showorder/"+url.PathEscape(status))
	if err != nil {
		return nil, err
	}
	return UnwrapList(decoded), nil
}

// UpdateOrderStatus moves an order to the next lifecycle stage (stand only).
func (c *Client) UpdateOrderStatus(ctx context.Context, token string, orderID int, status string) (any, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required to update order status")
	}
	return c.putForm(ctx, token, fmt.Sprintf("updatestatus/%d", orderID), url.Values{"status": {status}})
}

// MonthlyOrders fetches every order placed in the month starting at the given
// YYYY-MM-01 date (stand reporting).
func (c *Client) MonthlyOrders(ctx context.Context, token, monthStart string) ([]RawRecord, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required for monthly report")
	}
	decoded, err := c.get(ctx, token, "showorderbymonth/"+url.PathEscape(monthStart))
	if err != nil {
		return nil, err
	}
	return UnwrapList(decoded), nil
}

// MonthlyOrdersByStudent is the student-scoped variant of MonthlyOrders.
func (c *Client) MonthlyOrdersByStudent(ctx context.Context, token, monthStart string) ([]RawRecord, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token required for monthly report")
	}
	decoded, err := c.get(ctx, token, "showorderbymonthbysiswa/"+url.PathEscape(monthStart))
	if err != nil {
		return nil, err
	}
	return UnwrapList(decoded), nil
}

// Receipt fetches the rendered order receipt as raw bytes (the upstream
// serves HTML or PDF depending on deployment).
func (c *Client) Receipt(ctx context.Context, token string, orderID int) ([]byte, string, error) {
	if token == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "token required for receipt")
	}
	return c.getRaw(ctx, token, fmt.Sprintf("cetaknota/%d", orderID))
}
