package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"beverage-quiz-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(SampleCatalog())}
	repo := NewCatalogRepository(loader, time.Minute)

	items, err := repo.ListItems(context.Background(), "Beer")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 beers, got %d", len(items))
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	if _, err := repo.ListItems(context.Background(), "beer"); err != nil {
		t.Fatalf("list items 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}

	if _, err := repo.ListItems(context.Background(), ""); err != nil {
		t.Fatalf("list all: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected separate entry for full catalog, loader calls %d", loader.count())
	}
}

func TestCatalogRepositoryExpires(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(SampleCatalog())}
	repo := NewCatalogRepository(loader, time.Minute)
	now := time.Unix(1700000000, 0)
	repo.clock = func() time.Time { return now }

	_, _ = repo.ListItems(context.Background(), "wine")
	now = now.Add(2 * time.Minute)
	_, _ = repo.ListItems(context.Background(), "wine")
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}

	repo.Invalidate()
	_, _ = repo.ListItems(context.Background(), "wine")
	if loader.count() != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.count())
	}
}

func TestCatalogRepositoryDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("backend down")
	loader := &countingLoader{err: boom}
	repo := NewCatalogRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := repo.ListItems(context.Background(), ""); !errors.Is(err, boom) {
			t.Fatalf("expected loader error, got %v", err)
		}
	}
	if loader.count() != 2 {
		t.Fatalf("errors must not be cached, loader calls %d", loader.count())
	}
}

func TestStaticLoaderFiltersCategory(t *testing.T) {
	loader := NewStaticCatalogLoader(SampleCatalog())
	items, _ := loader.LoadCatalog(context.Background(), "Безалкогольные")
	if len(items) != 3 {
		t.Fatalf("expected 3 non-alcoholic items, got %d", len(items))
	}
	items, _ = loader.LoadCatalog(context.Background(), "Sake")
	if len(items) != 0 {
		t.Fatalf("expected no sake, got %d", len(items))
	}
}

type countingLoader struct {
	CatalogLoader
	err   error
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return l.CatalogLoader.LoadCatalog(ctx, category)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
