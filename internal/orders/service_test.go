package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantinapp/kantin-gateway/internal/menu"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/errors"
)

type stubOrderSource struct {
	records []upstream.RawRecord
	err     error
}

func (s *stubOrderSource) ListOrders(_ context.Context, _, _ string) ([]upstream.RawRecord, error) {
	return s.records, s.err
}

func (s *stubOrderSource) ResolvePhotoURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://canteen.example/" + path
}

type stubCatalogFetcher struct {
	catalog *menu.Catalog
	err     error
}

func (s *stubCatalogFetcher) FetchAll(_ context.Context, _ string) (*menu.Catalog, error) {
	return s.catalog, s.err
}

func testCatalog() *menu.Catalog {
	catalog := menu.NewCatalog()
	catalog.Add(menu.Entry{MenuID: 1, Name: "Nasi Goreng", Price: 20000, PhotoURL: "https://canteen.example/nasi.jpg", Vendor: "Stan Bu Siti"})
	catalog.Add(menu.Entry{MenuID: 2, Name: "Es Teh", Price: 5000, PhotoURL: "https://canteen.example/esteh.jpg", Vendor: "Stan Bu Siti"})
	return catalog
}

func TestListEnrichedRecomputesTotalFromSubtotals(t *testing.T) {
	source := &stubOrderSource{records: []upstream.RawRecord{{
		"id_order": float64(7),
		"status":   "Belum Dikonfirm",
		"total":    float64(99999), // stale, must be ignored
		"detail_trans": []any{
			map[string]any{"id_menu": float64(1), "qty": float64(1), "subtotal": float64(20000)},
			map[string]any{"id_menu": float64(2), "qty": float64(3), "harga": float64(5000)},
		},
	}}}

	svc, err := NewService(source, &stubCatalogFetcher{catalog: testCatalog()}, nil)
	require.NoError(t, err)

	orders, err := svc.ListEnriched(context.Background(), "token", "belum dikonfirm")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, 7, order.OrderID)
	assert.Equal(t, BucketUnconfirmed, order.Bucket)
	assert.Equal(t, 35000.0, order.Total)
	assert.Equal(t, 4, order.Qty)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, 20000.0, order.Lines[0].Subtotal)
	assert.Equal(t, 20000.0, order.Lines[0].UnitPrice)
	assert.Equal(t, 15000.0, order.Lines[1].Subtotal)
	assert.Equal(t, 5000.0, order.Lines[1].UnitPrice)
}

func TestListEnrichedBackfillsFromCatalog(t *testing.T) {
	source := &stubOrderSource{records: []upstream.RawRecord{{
		"id_order": float64(9),
		"status":   "Sedang Dimasak",
		"detail_trans": []any{
			map[string]any{"id_menu": float64(1), "qty": float64(2), "harga": float64(20000)},
		},
	}}}

	svc, err := NewService(source, &stubCatalogFetcher{catalog: testCatalog()}, nil)
	require.NoError(t, err)

	orders, err := svc.ListEnriched(context.Background(), "token", "dimasak")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "Nasi Goreng", order.Lines[0].Name)
	assert.Equal(t, "https://canteen.example/nasi.jpg", order.Lines[0].PhotoURL)
	assert.Equal(t, order.Lines[0].PhotoURL, order.ThumbnailURL)
	assert.Equal(t, "Stan Bu Siti", order.VendorName)
}

func TestListEnrichedCatalogMissFallsBack(t *testing.T) {
	source := &stubOrderSource{records: []upstream.RawRecord{{
		"id_order": float64(3),
		"status":   "Pesanan Sampai",
		"detail_trans": []any{
			map[string]any{"id_menu": float64(404), "qty": float64(1), "harga": float64(7000)},
			map[string]any{"id_menu": float64(405), "qty": float64(1), "harga": float64(3000), "nama_makanan": "Risol"},
		},
	}}}

	svc, err := NewService(source, &stubCatalogFetcher{catalog: testCatalog()}, nil)
	require.NoError(t, err)

	orders, err := svc.ListEnriched(context.Background(), "token", "sampai")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	// Catalog-miss lines still render: the record's own name survives, an
	// absent name falls back to the generic label.
	assert.Equal(t, "Menu", orders[0].Lines[0].Name)
	assert.Equal(t, "Risol", orders[0].Lines[1].Name)
	assert.Equal(t, 10000.0, orders[0].Total)
	assert.Equal(t, "-", orders[0].VendorName)
}

func TestListEnrichedSurvivesCatalogFailure(t *testing.T) {
	source := &stubOrderSource{records: []upstream.RawRecord{{
		"id_order": float64(5),
		"status":   "Sudah Diantar",
		"detail_trans": []any{
			map[string]any{"id_menu": float64(1), "qty": float64(1), "subtotal": float64(20000)},
		},
	}}}
	fetcher := &stubCatalogFetcher{catalog: menu.NewCatalog(), err: errors.New(errors.CodeUpstream, "menus unavailable")}

	svc, err := NewService(source, fetcher, nil)
	require.NoError(t, err)

	orders, err := svc.ListEnriched(context.Background(), "token", "diantar")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Menu", orders[0].Lines[0].Name)
	assert.Equal(t, 20000.0, orders[0].Total)
}

func TestListEnrichedPropagatesOrderFetchError(t *testing.T) {
	source := &stubOrderSource{err: errors.New(errors.CodeUpstream, "showorder failed")}

	svc, err := NewService(source, &stubCatalogFetcher{catalog: testCatalog()}, nil)
	require.NoError(t, err)

	_, err = svc.ListEnriched(context.Background(), "token", "dimasak")
	require.Error(t, err)
	require.NotNil(t, errors.As(err))
	assert.Equal(t, errors.CodeUpstream, errors.As(err).Code())
}

func TestListEnrichedPreservesArrivalOrder(t *testing.T) {
	source := &stubOrderSource{records: []upstream.RawRecord{
		{"id_order": float64(12), "status": "sampai"},
		{"id_order": float64(4), "status": "sampai"},
		{"id_order": float64(30), "status": "sampai"},
	}}

	svc, err := NewService(source, &stubCatalogFetcher{catalog: testCatalog()}, nil)
	require.NoError(t, err)

	orders, err := svc.ListEnriched(context.Background(), "token", "sampai")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []int{12, 4, 30}, []int{orders[0].OrderID, orders[1].OrderID, orders[2].OrderID})
}
