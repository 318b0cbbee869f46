package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"beverage-quiz-service/internal/domain"
)

// CatalogLoader fetches catalog items from the source of truth (Postgres, the backend API).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, category string) ([]domain.CatalogItem, error)
}

// CatalogRepository caches catalog listings in Redis so every instance shares
// one copy, and falls back to the loader on a miss.
// Listings are stored as JSON: SET catalog:{category} [...] EX ttl
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) ListItems(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	key := r.key(category)
	if items, ok := r.cached(ctx, key); ok {
		return items, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if items, ok := r.cached(ctx, key); ok {
			return items, nil
		}

		items, err := r.loader.LoadCatalog(ctx, category)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(items); err == nil {
			// best-effort; a failed write only costs another load
			_ = r.client.Set(ctx, key, payload, r.ttlWithJitter()).Err()
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CatalogItem), nil
}

// Invalidate drops the cached listing of category.
func (r *CatalogRepository) Invalidate(ctx context.Context, category string) error {
	return r.client.Del(ctx, r.key(category)).Err()
}

func (r *CatalogRepository) cached(ctx context.Context, key string) ([]domain.CatalogItem, bool) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var items []domain.CatalogItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (r *CatalogRepository) key(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "*"
	}
	return "catalog:" + category
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
