package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/infra/memory"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr := runMiniredis(t)
	client := newClient(mr)

	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(memory.SampleCatalog())}
	repo := NewCatalogRepository(client, loader, time.Minute)

	items, err := repo.ListItems(context.Background(), "Cocktail")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 cocktails, got %d", len(items))
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.count())
	}
	if !mr.Exists("catalog:cocktail") {
		t.Fatalf("expected listing cached under catalog:cocktail")
	}
	if ttl := mr.TTL("catalog:cocktail"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("expected ttl with jitter, got %s", ttl)
	}

	// A second repository (another instance) reads the shared copy.
	other := NewCatalogRepository(client, loader, time.Minute)
	cached, err := other.ListItems(context.Background(), " cocktail ")
	if err != nil {
		t.Fatalf("list cached: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.count())
	}
	if len(cached) != 3 || cached[0].Name != items[0].Name || len(cached[0].Ingredients) == 0 {
		t.Fatalf("cached items differ: %+v", cached)
	}
}

func TestCatalogRepositoryReloadsAfterExpiry(t *testing.T) {
	mr := runMiniredis(t)
	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(memory.SampleCatalog())}
	repo := NewCatalogRepository(newClient(mr), loader, time.Minute)

	_, _ = repo.ListItems(context.Background(), "")
	mr.FastForward(2 * time.Minute)
	_, _ = repo.ListItems(context.Background(), "")
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", loader.count())
	}

	if err := repo.Invalidate(context.Background(), ""); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("catalog:*") {
		t.Fatalf("expected cached listing removed")
	}
}

type countingLoader struct {
	CatalogLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.CatalogLoader.LoadCatalog(ctx, category)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func runMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
