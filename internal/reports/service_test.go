package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantinapp/kantin-gateway/internal/menu"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/errors"
)

type stubMonthlySource struct {
	stand   []upstream.RawRecord
	student []upstream.RawRecord
	err     error
}

func (s *stubMonthlySource) MonthlyOrders(_ context.Context, _, _ string) ([]upstream.RawRecord, error) {
	return s.stand, s.err
}

func (s *stubMonthlySource) MonthlyOrdersByStudent(_ context.Context, _, _ string) ([]upstream.RawRecord, error) {
	return s.student, s.err
}

func (s *stubMonthlySource) ResolvePhotoURL(path string) string { return path }

type stubCatalogFetcher struct {
	catalog *menu.Catalog
	err     error
}

func (s *stubCatalogFetcher) FetchAll(_ context.Context, _ string) (*menu.Catalog, error) {
	return s.catalog, s.err
}

func monthRecords() []upstream.RawRecord {
	return []upstream.RawRecord{
		{
			"id_order":   float64(1),
			"status":     "Pesanan Sampai",
			"created_at": "2026-08-03 10:15:00",
			"detail_trans": []any{
				map[string]any{"id_menu": float64(1), "nama_makanan": "Nasi Goreng", "qty": float64(2), "subtotal": float64(40000)},
			},
		},
		{
			"id_order":   float64(2),
			"status":     "Pesanan Sampai",
			"created_at": "2026-08-03 12:30:00",
			"detail_trans": []any{
				map[string]any{"id_menu": float64(2), "nama_makanan": "Es Teh", "qty": float64(3), "harga": float64(5000)},
			},
		},
		{
			"id_order":   float64(3),
			"status":     "Pesanan Sampai",
			"created_at": "2026-08-10 09:00:00",
			"detail_trans": []any{
				map[string]any{"id_menu": float64(1), "nama_makanan": "Nasi Goreng", "qty": float64(1), "subtotal": float64(20000)},
			},
		},
	}
}

func TestMonthlyRecapAggregates(t *testing.T) {
	source := &stubMonthlySource{stand: monthRecords()}
	svc, err := NewService(source, &stubCatalogFetcher{catalog: menu.NewCatalog()}, nil)
	require.NoError(t, err)

	recap, err := svc.MonthlyRecap(context.Background(), "token", "2026-08-01")
	require.NoError(t, err)

	assert.Equal(t, 3, recap.OrderCount)
	assert.Equal(t, "75000", recap.TotalIncome)

	require.Len(t, recap.Days, 2)
	assert.Equal(t, DayRow{Date: "2026-08-03", OrderCount: 2, Income: "55000"}, recap.Days[0])
	assert.Equal(t, DayRow{Date: "2026-08-10", OrderCount: 1, Income: "20000"}, recap.Days[1])

	require.Len(t, recap.Menus, 2)
	assert.Equal(t, MenuRow{MenuID: 1, Name: "Nasi Goreng", Qty: 3, Income: "60000"}, recap.Menus[0])
	assert.Equal(t, MenuRow{MenuID: 2, Name: "Es Teh", Qty: 3, Income: "15000"}, recap.Menus[1])
}

func TestStudentMonthlyRecapUsesStudentEndpoint(t *testing.T) {
	source := &stubMonthlySource{student: monthRecords()[:1]}
	svc, err := NewService(source, &stubCatalogFetcher{catalog: menu.NewCatalog()}, nil)
	require.NoError(t, err)

	recap, err := svc.StudentMonthlyRecap(context.Background(), "token", "2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, 1, recap.OrderCount)
	assert.Equal(t, "40000", recap.TotalIncome)
}

func TestRecapEmptyMonth(t *testing.T) {
	source := &stubMonthlySource{}
	svc, err := NewService(source, &stubCatalogFetcher{catalog: menu.NewCatalog()}, nil)
	require.NoError(t, err)

	recap, err := svc.MonthlyRecap(context.Background(), "token", "2026-07-01")
	require.NoError(t, err)
	assert.Equal(t, 0, recap.OrderCount)
	assert.Equal(t, "0", recap.TotalIncome)
	assert.Empty(t, recap.Days)
	assert.Empty(t, recap.Menus)
}

func TestRecapPropagatesFetchError(t *testing.T) {
	source := &stubMonthlySource{err: errors.New(errors.CodeUpstream, "showorderbymonth failed")}
	svc, err := NewService(source, &stubCatalogFetcher{catalog: menu.NewCatalog()}, nil)
	require.NoError(t, err)

	_, err = svc.MonthlyRecap(context.Background(), "token", "2026-08-01")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUpstream, errors.As(err).Code())
}
