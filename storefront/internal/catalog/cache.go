package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_storefront/storefront/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// Set stores value with the base TTL plus up to four minutes of jitter so
// entries written together do not expire together.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(key), value, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("catalog:%s", key)
}

// CachingClient serves catalog reads from the cache and collapses concurrent
// misses for the same key into one upstream request. Cache failures are
// logged and fall through to the upstream client.
type CachingClient struct {
	next  Client
	cache Cache
	log   *slog.Logger
	sfg   singleflight.Group
}

func NewCachingClient(next Client, cache Cache, log *slog.Logger) *CachingClient {
	return &CachingClient{next: next, cache: cache, log: log}
}

func (c *CachingClient) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return cached(ctx, c, "products", func(ctx context.Context) ([]domain.Product, error) {
		return c.next.GetProducts(ctx)
	})
}

func (c *CachingClient) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return cached(ctx, c, "product:"+strconv.FormatInt(id, 10), func(ctx context.Context) (*domain.Product, error) {
		return c.next.GetProduct(ctx, id)
	})
}

func (c *CachingClient) GetCategories(ctx context.Context) ([]string, error) {
	return cached(ctx, c, "categories", func(ctx context.Context) ([]string, error) {
		return c.next.GetCategories(ctx)
	})
}

func (c *CachingClient) GetProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return cached(ctx, c, "category:"+category, func(ctx context.Context) ([]domain.Product, error) {
		return c.next.GetProductsByCategory(ctx, category)
	})
}

// cached runs one shared load per key. The load is detached from the
// cancellation of whichever caller started it; each caller stops waiting when
// its own ctx is done.
func cached[T any](ctx context.Context, c *CachingClient, key string, fetch func(context.Context) (T, error)) (T, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.sfg.DoChan(key, func() (interface{}, error) {
		ctx := shared
		var out T
		data, err := c.cache.Get(ctx, key)
		if err == nil {
			if errDecode := json.Unmarshal(data, &out); errDecode == nil {
				return out, nil
			}
			c.log.WarnContext(ctx, "dropping undecodable cache entry", "key", key)
		} else if !errors.Is(err, ErrCacheMiss) {
			c.log.WarnContext(ctx, "cache get error", "key", key, "error", err)
		}

		out, err = fetch(ctx)
		if err != nil {
			return out, err
		}

		if data, errEncode := json.Marshal(out); errEncode == nil {
			if errSet := c.cache.Set(ctx, key, data); errSet != nil {
				c.log.WarnContext(ctx, "cache set error", "key", key, "error", errSet)
			}
		}
		return out, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
