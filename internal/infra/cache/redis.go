package cache

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/DarkArtheme/museumguide-backend/config"

	"github.com/redis/go-redis/v9"
)

const favoriteCountKey = "museums:fav_count"

type RedisCache struct {
	client *redis.Client
}

func New(cfg *config.Config) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: rdb}, nil
}

// NewFromClient wraps an existing client without pinging it.
func NewFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

// SetWithRandomTTL spreads expirations by ±10% so keys written together
// do not all expire together.
func (c *RedisCache) SetWithRandomTTL(ctx context.Context, key string, value interface{}, baseTTL time.Duration) error {
	actualTTL := baseTTL
	if spread := int64(baseTTL / 5); spread > 0 {
		jitter := time.Duration(rand.Int63n(spread) - int64(baseTTL/10))
		actualTTL = baseTTL + jitter
	}
	if actualTTL <= 0 {
		actualTTL = baseTTL
	}

	return c.client.Set(ctx, key, value, actualTTL).Err()
}

// Get returns redis.Nil when the key does not exist.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// AllowRequest is a fixed-window counter. The first hit in a window sets the expiry.
func (c *RedisCache) AllowRequest(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	const script = `
        local current = redis.call("INCR", KEYS[1])
        if tonumber(current) == 1 then
            redis.call("EXPIRE", KEYS[1], ARGV[1])
        end
        return current
    `

	seconds := int(window.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	count, err := c.client.Eval(ctx, script, []string{key}, seconds).Int()
	if err != nil {
		return true, err
	}

	return count <= limit, nil
}

func (c *RedisCache) IncrFavoriteCount(ctx context.Context, museumID int, delta int64) error {
	return c.client.HIncrBy(ctx, favoriteCountKey, strconv.Itoa(museumID), delta).Err()
}

// FavoriteCounts returns museum id -> number of users holding it in favorites.
// Fields that are not valid integers are skipped.
func (c *RedisCache) FavoriteCounts(ctx context.Context) (map[int]int64, error) {
	raw, err := c.client.HGetAll(ctx, favoriteCountKey).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(raw))
	for field, value := range raw {
		id, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		counts[id] = n
	}
	return counts, nil
}
