package memory

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/questiongen"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches catalog items from a backing store (Postgres, the remote API).
// An empty category loads the whole catalog.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, category string) ([]domain.CatalogItem, error)
}

// CatalogRepository caches catalog listings with TTL to avoid repeated backend hits.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedCatalog
}

type cachedCatalog struct {
	items     []domain.CatalogItem
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedCatalog),
	}
}

func (r *CatalogRepository) ListItems(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	key := cacheKey(category)
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.items, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.items, nil
		}
		r.mu.RUnlock()

		items, err := r.loader.LoadCatalog(ctx, category)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[key] = cachedCatalog{
			items:     items,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CatalogItem), nil
}

// Invalidate drops every cached listing.
func (r *CatalogRepository) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]cachedCatalog)
	r.mu.Unlock()
}

// StaticCatalogLoader is a simple loader backed by an in-memory slice (useful for tests/demos).
type StaticCatalogLoader struct {
	items []domain.CatalogItem
}

func NewStaticCatalogLoader(items []domain.CatalogItem) *StaticCatalogLoader {
	return &StaticCatalogLoader{items: items}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context, category string) ([]domain.CatalogItem, error) {
	return questiongen.Candidates(l.items, category), nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func cacheKey(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" {
		return "*"
	}
	return key
}
