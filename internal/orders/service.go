package orders

import (
	"context"
	"fmt"

	"github.com/kantinapp/kantin-gateway/internal/menu"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

// fallbackName labels line items the catalog cannot resolve.
const fallbackName = "Menu"

type orderSource interface {
	ListOrders(ctx context.Context, token, status string) ([]upstream.RawRecord, error)
	ResolvePhotoURL(path string) string
}

type catalogFetcher interface {
	FetchAll(ctx context.Context, token string) (*menu.Catalog, error)
}

// Service turns raw upstream order lists into display-ready orders.
type Service struct {
	source  orderSource
	catalog catalogFetcher
	logg    *logger.Logger
}

func NewService(source orderSource, catalog catalogFetcher, logg *logger.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("order source required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	return &Service{source: source, catalog: catalog, logg: logg}, nil
}

// ListEnriched fetches the order list for a status bucket and decorates each
// order with catalog data. The order fetch is the only hard failure; a thin
// or empty catalog just degrades names and photos. Input ordering is
// preserved. The call is stateless: a caller racing two status buckets must
// key results by the status it asked for.
func (s *Service) ListEnriched(ctx context.Context, token, status string) ([]Order, error) {
	raw, err := s.source.ListOrders(ctx, token, status)
	if err != nil {
		return nil, err
	}

	catalog, degraded := s.catalog.FetchAll(ctx, token)
	if degraded != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStatusBucket(ctx, status), "order enrichment degraded: "+degraded.Error())
	}

	enriched := make([]Order, 0, len(raw))
	for _, record := range raw {
		enriched = append(enriched, EnrichOrder(record, catalog, s.source.ResolvePhotoURL))
	}
	return enriched, nil
}

// EnrichOrder decorates one raw order: line names and photos are recovered
// from the catalog, per-line subtotals are resolved subtotal-first, and the
// order total is recomputed from them. Shared with the reporting service.
func EnrichOrder(record upstream.RawRecord, catalog *menu.Catalog, resolve func(string) string) Order {
	items := record.DetailItems()

	lines := make([]Line, 0, len(items))
	total := 0.0
	qty := 0
	for _, item := range items {
		line := enrichLine(item, catalog, resolve)
		total += line.Subtotal
		qty += line.Qty
		lines = append(lines, line)
	}

	order := Order{
		OrderID:    record.OrderID(),
		Status:     record.Status(),
		Bucket:     Classify(record.Status()),
		CreatedAt:  record.CreatedAt(),
		Lines:      lines,
		Total:      total,
		Qty:        qty,
		VendorName: record.Vendor(),
	}

	if len(lines) > 0 {
		order.ThumbnailURL = lines[0].PhotoURL
	}
	if order.VendorName == "" {
		order.VendorName = vendorFromCatalog(items, catalog)
	}
	if order.VendorName == "" {
		order.VendorName = "-"
	}
	return order
}

func enrichLine(item upstream.RawRecord, catalog *menu.Catalog, resolve func(string) string) Line {
	qty := item.Qty()
	subtotal := item.Subtotal()
	unitPrice := item.Price()

	if subtotal > 0 {
		if qty > 0 {
			unitPrice = subtotal / float64(qty)
		}
	} else {
		subtotal = float64(qty) * unitPrice
	}

	line := Line{
		MenuID:    item.MenuID(),
		Qty:       qty,
		UnitPrice: unitPrice,
		Subtotal:  subtotal,
		Name:      item.Name(),
		PhotoURL:  item.Photo(),
	}
	if resolve != nil {
		line.PhotoURL = resolve(line.PhotoURL)
	}

	if catalog != nil {
		if entry, ok := catalog.Lookup(line.MenuID); ok {
			if entry.Name != "" {
				line.Name = entry.Name
			}
			if entry.PhotoURL != "" {
				line.PhotoURL = entry.PhotoURL
			}
		}
	}
	if line.Name == "" {
		line.Name = fallbackName
	}
	return line
}

// vendorFromCatalog recovers a stand name from the first line the catalog
// knows, when the order record itself carries none.
func vendorFromCatalog(items []upstream.RawRecord, catalog *menu.Catalog) string {
	if catalog == nil {
		return ""
	}
	for _, item := range items {
		if entry, ok := catalog.Lookup(item.MenuID()); ok && entry.Vendor != "" {
			return entry.Vendor
		}
	}
	return ""
}
