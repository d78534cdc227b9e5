package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kantinapp/kantin-gateway/internal/menu"
	"github.com/kantinapp/kantin-gateway/internal/orders"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type monthlySource interface {
	MonthlyOrders(ctx context.Context, token, monthStart string) ([]upstream.RawRecord, error)
	MonthlyOrdersByStudent(ctx context.Context, token, monthStart string) ([]upstream.RawRecord, error)
	ResolvePhotoURL(path string) string
}

type catalogFetcher interface {
	FetchAll(ctx context.Context, token string) (*menu.Catalog, error)
}

// Service builds monthly recaps from the upstream order history. Money is
// summed with decimals, not floats: rupiah recaps are compared against the
// stand's own books, so drift is not acceptable.
type Service struct {
	source  monthlySource
	catalog catalogFetcher
	logg    *logger.Logger
}

func NewService(source monthlySource, catalog catalogFetcher, logg *logger.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("monthly source required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	return &Service{source: source, catalog: catalog, logg: logg}, nil
}

// DayRow is the income earned on one calendar day.
type DayRow struct {
	Date       string `json:"tanggal"`
	OrderCount int    `json:"jumlah_order"`
	Income     string `json:"pemasukan"`
}

// MenuRow is one menu item's contribution across the month.
type MenuRow struct {
	MenuID int    `json:"id_menu"`
	Name   string `json:"nama_makanan"`
	Qty    int    `json:"qty"`
	Income string `json:"pemasukan"`
}

// Recap is a month of orders rolled up for display.
type Recap struct {
	MonthStart  string         `json:"bulan"`
	OrderCount  int            `json:"jumlah_order"`
	TotalIncome string         `json:"total_pemasukan"`
	Days        []DayRow       `json:"per_hari"`
	Menus       []MenuRow      `json:"per_menu"`
	Orders      []orders.Order `json:"orders"`
}

// MonthlyRecap rolls up a stand's orders for the month starting at the given
// YYYY-MM-01 date.
func (s *Service) MonthlyRecap(ctx context.Context, token, monthStart string) (*Recap, error) {
	return s.recap(ctx, token, monthStart, s.source.MonthlyOrders)
}

// StudentMonthlyRecap is the spending view of the same month for one student.
func (s *Service) StudentMonthlyRecap(ctx context.Context, token, monthStart string) (*Recap, error) {
	return s.recap(ctx, token, monthStart, s.source.MonthlyOrdersByStudent)
}

func (s *Service) recap(ctx context.Context, token, monthStart string, fetch func(context.Context, string, string) ([]upstream.RawRecord, error)) (*Recap, error) {
	raw, err := fetch(ctx, token, monthStart)
	if err != nil {
		return nil, err
	}

	catalog, degraded := s.catalog.FetchAll(ctx, token)
	if degraded != nil && s.logg != nil {
		s.logg.Warn(ctx, "monthly recap degraded: "+degraded.Error())
	}

	recap := &Recap{MonthStart: monthStart}
	total := decimal.Zero
	dayIncome := make(map[string]decimal.Decimal)
	dayCount := make(map[string]int)
	menuIncome := make(map[int]decimal.Decimal)
	menuQty := make(map[int]int)
	menuName := make(map[int]string)

	for _, record := range raw {
		order := orders.EnrichOrder(record, catalog, s.source.ResolvePhotoURL)
		recap.Orders = append(recap.Orders, order)
		recap.OrderCount++

		day := dayOf(order.CreatedAt)
		dayCount[day]++
		for _, line := range order.Lines {
			subtotal := decimal.NewFromFloat(line.Subtotal)
			total = total.Add(subtotal)
			dayIncome[day] = dayIncome[day].Add(subtotal)
			menuIncome[line.MenuID] = menuIncome[line.MenuID].Add(subtotal)
			menuQty[line.MenuID] += line.Qty
			menuName[line.MenuID] = line.Name
		}
	}

	recap.TotalIncome = total.String()
	for day := range dayCount {
		recap.Days = append(recap.Days, DayRow{
			Date:       day,
			OrderCount: dayCount[day],
			Income:     dayIncome[day].String(),
		})
	}
	sort.Slice(recap.Days, func(i, j int) bool { return recap.Days[i].Date < recap.Days[j].Date })

	for id := range menuQty {
		recap.Menus = append(recap.Menus, MenuRow{
			MenuID: id,
			Name:   menuName[id],
			Qty:    menuQty[id],
			Income: menuIncome[id].String(),
		})
	}
	sort.Slice(recap.Menus, func(i, j int) bool { return recap.Menus[i].MenuID < recap.Menus[j].MenuID })

	return recap, nil
}

// dayOf truncates an upstream timestamp to its date part. Timestamps arrive
// as "2006-01-02 15:04:05" or RFC 3339; both carry the date in the first ten
// characters. Shorter or empty values group under "unknown".
func dayOf(createdAt string) string {
	if len(createdAt) >= 10 {
		return createdAt[:10]
	}
	return "unknown"
}
