package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/DarkArtheme/museumguide-backend/internal/infra/cache"
	"github.com/DarkArtheme/museumguide-backend/internal/metrics"
	"github.com/DarkArtheme/museumguide-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogAllKey    = "museums:all"
	catalogItemKeyNS = "museum:"
)

// Catalog is the read side of the museums collection.
type Catalog interface {
	List(ctx context.Context) ([]models.Museum, error)
	Get(ctx context.Context, id int) (*models.Museum, error)
}

// CachedCatalog is a read-through Redis cache in front of the catalog.
// Museums are never written through the API, so entries only age out.
// Redis failures are logged and fall back to the underlying catalog.
type CachedCatalog struct {
	next  Catalog
	cache *cache.RedisCache
	ttl   time.Duration
}

func NewCachedCatalog(next Catalog, c *cache.RedisCache, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, cache: c, ttl: ttl}
}

func (c *CachedCatalog) List(ctx context.Context) ([]models.Museum, error) {
	var museums []models.Museum
	if c.lookup(ctx, catalogAllKey, &museums) {
		return museums, nil
	}

	museums, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, catalogAllKey, museums)
	return museums, nil
}

func (c *CachedCatalog) Get(ctx context.Context, id int) (*models.Museum, error) {
	key := catalogItemKeyNS + strconv.Itoa(id)

	var m models.Museum
	if c.lookup(ctx, key, &m) {
		return &m, nil
	}

	museum, err := c.next.Get(ctx, id)
	if err != nil || museum == nil {
		return museum, err
	}
	c.store(ctx, key, museum)
	return museum, nil
}

func (c *CachedCatalog) lookup(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.CatalogCacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		zap.L().Warn("catalog cache entry corrupt", zap.String("key", key), zap.Error(err))
		_ = c.cache.Del(ctx, key)
		metrics.CatalogCacheMisses.Inc()
		return false
	}
	metrics.CatalogCacheHits.Inc()
	zap.L().Debug("catalog retrieved from cache", zap.String("key", key))
	return true
}

func (c *CachedCatalog) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cache.SetWithRandomTTL(ctx, key, string(data), c.ttl); err != nil {
		zap.L().Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
