package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

// Source loads the full set of vendor records.
type Source interface {
	LoadVendors(ctx context.Context) ([]VendorRecord, error)
}

// Feed holds the current catalog snapshot. Every refresh reloads all vendor
// records and rebuilds the index from scratch.
type Feed struct {
	source Source
	logg   *logger.Logger
	maxAge time.Duration
	now    func() time.Time

	refreshMu sync.Mutex

	mu      sync.RWMutex
	items   []CatalogItem
	builtAt time.Time
}

// FeedParams configures a Feed. A zero MaxAge disables lazy refresh, leaving
// refreshes to the change consumer.
type FeedParams struct {
	Source Source
	Logger *logger.Logger
	MaxAge time.Duration
	Now    func() time.Time
}

func NewFeed(params FeedParams) (*Feed, error) {
	if params.Source == nil {
		return nil, errors.New("catalog source required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Feed{
		source: params.Source,
		logg:   params.Logger,
		maxAge: params.MaxAge,
		now:    now,
	}, nil
}

// Refresh reloads vendor records and swaps in a freshly built index.
func (f *Feed) Refresh(ctx context.Context) error {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	raw, err := f.source.LoadVendors(ctx)
	if err != nil {
		return err
	}
	vendors, dropped := Coerce(raw)
	items := Build(vendors)

	f.mu.Lock()
	f.items = items
	f.builtAt = f.now()
	f.mu.Unlock()

	logCtx := f.logg.WithFields(ctx, map[string]any{
		"vendors": len(vendors),
		"items":   len(items),
		"dropped": dropped,
	})
	if dropped > 0 {
		f.logg.Warn(logCtx, "catalog rebuilt with dropped entries")
		return nil
	}
	f.logg.Debug(logCtx, "catalog rebuilt")
	return nil
}

// Snapshot returns the current items, refreshing first when the snapshot has
// never been built or is older than the configured max age.
func (f *Feed) Snapshot(ctx context.Context) ([]CatalogItem, error) {
	if f.stale() {
		if err := f.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.items, nil
}

// Lookup finds a catalog item by key in the current snapshot.
func (f *Feed) Lookup(ctx context.Context, key string) (CatalogItem, bool, error) {
	items, err := f.Snapshot(ctx)
	if err != nil {
		return CatalogItem{}, false, err
	}
	for _, item := range items {
		if item.Key == key {
			return item, true, nil
		}
	}
	return CatalogItem{}, false, nil
}

// BuiltAt reports when the current snapshot was built.
func (f *Feed) BuiltAt() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.builtAt
}

func (f *Feed) stale() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.builtAt.IsZero() {
		return true
	}
	if f.maxAge <= 0 {
		return false
	}
	return f.now().Sub(f.builtAt) > f.maxAge
}
