package cars

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/owusuprince21/cheaprides.backend/internal/logger"
)

const (
	cacheKeyList     = "cars:list"
	cacheKeyRecent   = "cars:recent"
	cacheKeyFeatured = "cars:featured"

	cacheTTL = time.Minute
)

// CachedStore wraps a Store with a short-lived redis cache over the
// read-mostly listing queries. Cache misses and redis outages fall
// through to the underlying store.
type CachedStore struct {
	Store
	redis *goredis.Client
}

func NewCachedStore(store Store, redis *goredis.Client) *CachedStore {
	return &CachedStore{Store: store, redis: redis}
}

func (c *CachedStore) cached(ctx context.Context, key string, load func(context.Context) ([]Car, error)) ([]Car, error) {
	val, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var list []Car
		if err := json.Unmarshal([]byte(val), &list); err == nil {
			return list, nil
		}
	} else if err != goredis.Nil {
		logger.Warn("car cache read failed", zap.String("key", key), zap.Error(err))
	}

	list, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		if err := c.redis.Set(ctx, key, data, cacheTTL).Err(); err != nil {
			logger.Warn("car cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return list, nil
}

func (c *CachedStore) List(ctx context.Context) ([]Car, error) {
	return c.cached(ctx, cacheKeyList, c.Store.List)
}

func (c *CachedStore) Recent(ctx context.Context) ([]Car, error) {
	return c.cached(ctx, cacheKeyRecent, c.Store.Recent)
}

func (c *CachedStore) Featured(ctx context.Context) ([]Car, error) {
	return c.cached(ctx, cacheKeyFeatured, c.Store.Featured)
}

// Create writes through and drops the listing caches so new cars show
// up immediately.
func (c *CachedStore) Create(ctx context.Context, car *Car) error {
	if err := c.Store.Create(ctx, car); err != nil {
		return err
	}
	if err := c.redis.Del(ctx, cacheKeyList, cacheKeyRecent, cacheKeyFeatured).Err(); err != nil {
		logger.Warn("car cache invalidation failed", zap.Error(err))
	}
	return nil
}
