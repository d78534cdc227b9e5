package menu

import (
	"context"
	"fmt"
	"sync"

	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
	"go.uber.org/multierr"
)

type catalogSource interface {
	FetchMenus(ctx context.Context, token string, category upstream.MenuCategory, search string) ([]upstream.RawRecord, error)
	ResolvePhotoURL(path string) string
}

// Fetcher builds the merged food+drink catalog.
type Fetcher struct {
	source catalogSource
	logg   *logger.Logger
}

func NewFetcher(source catalogSource, logg *logger.Logger) (*Fetcher, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &Fetcher{source: source, logg: logg}, nil
}

// FetchAll issues the food and drink fetches concurrently and merges whatever
// succeeded. A failed category shrinks the catalog instead of failing the
// call: the returned error aggregates per-category failures and is only
// worth logging.
func (f *Fetcher) FetchAll(ctx context.Context, token string) (*Catalog, error) {
	categories := []upstream.MenuCategory{upstream.CategoryFood, upstream.CategoryDrink}
	results := make([][]upstream.RawRecord, len(categories))
	errs := make([]error, len(categories))

	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func(i int, category upstream.MenuCategory) {
			defer wg.Done()
			records, err := f.source.FetchMenus(ctx, token, category, "")
			if err != nil {
				errs[i] = fmt.Errorf("fetch %s catalog: %w", category, err)
				return
			}
			results[i] = records
		}(i, category)
	}
	wg.Wait()

	catalog := NewCatalog()
	for _, records := range results {
		for _, record := range records {
			catalog.Add(EntryFromRecord(record, f.source.ResolvePhotoURL))
		}
	}

	degraded := multierr.Combine(errs...)
	if degraded != nil && f.logg != nil {
		f.logg.Warn(f.logg.WithField(ctx, "catalog_size", catalog.Len()), "catalog fetch degraded: "+degraded.Error())
	}
	return catalog, degraded
}
