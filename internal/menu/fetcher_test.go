package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	food     []upstream.RawRecord
	drink    []upstream.RawRecord
	foodErr  error
	drinkErr error
}

func (s *stubSource) FetchMenus(ctx context.Context, token string, category upstream.MenuCategory, search string) ([]upstream.RawRecord, error) {
	if category == upstream.CategoryFood {
		return s.food, s.foodErr
	}
	return s.drink, s.drinkErr
}

func (s *stubSource) ResolvePhotoURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://canteen.example/" + path
}

func TestFetchAllMergesBothCategories(t *testing.T) {
	source := &stubSource{
		food:  []upstream.RawRecord{{"id_menu": float64(1), "nama_makanan": "Nasi Goreng", "harga": float64(12000), "foto": "nasgor.jpg"}},
		drink: []upstream.RawRecord{{"id_menu": float64(2), "nama_makanan": "Es Teh", "harga": float64(5000)}},
	}
	fetcher, err := NewFetcher(source, nil)
	require.NoError(t, err)

	catalog, degraded := fetcher.FetchAll(context.Background(), "tok")
	require.NoError(t, degraded)
	assert.Equal(t, 2, catalog.Len())

	entry, ok := catalog.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "Nasi Goreng", entry.Name)
	assert.Equal(t, "https://canteen.example/nasgor.jpg", entry.PhotoURL)
}

func TestFetchAllSurvivesOneFailedCategory(t *testing.T) {
	source := &stubSource{
		foodErr: errors.New("upstream 500"),
		drink:   []upstream.RawRecord{{"id_menu": float64(2), "nama_makanan": "Es Teh"}},
	}
	fetcher, err := NewFetcher(source, nil)
	require.NoError(t, err)

	catalog, degraded := fetcher.FetchAll(context.Background(), "tok")
	require.Error(t, degraded)
	assert.Equal(t, 1, catalog.Len())

	_, ok := catalog.Lookup(2)
	assert.True(t, ok)
}

func TestFetchAllBothFailedYieldsEmptyCatalog(t *testing.T) {
	source := &stubSource{
		foodErr:  errors.New("boom"),
		drinkErr: errors.New("boom"),
	}
	fetcher, err := NewFetcher(source, nil)
	require.NoError(t, err)

	catalog, degraded := fetcher.FetchAll(context.Background(), "tok")
	require.Error(t, degraded)
	assert.Equal(t, 0, catalog.Len())
}

func TestCatalogSkipsUnresolvableAndDuplicateIDs(t *testing.T) {
	catalog := NewCatalog()
	catalog.Add(Entry{MenuID: 0, Name: "tanpa id"})
	catalog.Add(Entry{MenuID: 3, Name: "first"})
	catalog.Add(Entry{MenuID: 3, Name: "second"})

	assert.Equal(t, 1, catalog.Len())
	entry, _ := catalog.Lookup(3)
	assert.Equal(t, "first", entry.Name)
}
