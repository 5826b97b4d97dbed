package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hassanhashmi16/Clothing-Store/repository"
)

const (
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"
)

// CacheManager caches catalog listings in Redis. Invalidation is by
// version bump: admin mutations increment the version key, which makes
// every previously cached listing unreachable.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(client *redis.Client, ttl time.Duration) *CacheManager {
	return &CacheManager{redis: client, ttl: ttl}
}

// GetProductList retrieves a cached listing response for the query.
func (cm *CacheManager) GetProductList(ctx context.Context, q repository.ProductQuery) (map[string]interface{}, bool) {
	if cm == nil || cm.redis == nil {
		return nil, false
	}

	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listKey(version, q)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetProductListAsync caches a listing response without blocking the
// request.
func (cm *CacheManager) SetProductListAsync(q repository.ProductQuery, response map[string]interface{}) {
	if cm == nil || cm.redis == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(ctx)
		if err != nil || version == 0 {
			return
		}

		data, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(ctx, cm.listKey(version, q), data, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate bumps the cache version after a catalog mutation.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if cm == nil || cm.redis == nil {
		return
	}
	if err := cm.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
		zap.L().Warn("Failed to bump product cache version", zap.Error(err))
	}
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	version, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		// First use: seed the version so listings become cacheable.
		if err := cm.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (cm *CacheManager) listKey(version int64, q repository.ProductQuery) string {
	featured := ""
	if q.Featured != nil {
		featured = fmt.Sprintf("%t", *q.Featured)
	}
	return fmt.Sprintf("%s%d:cat=%s:feat=%s:sizes=%s:q=%s:sort=%s:p=%d:pp=%d",
		productListCachePrefix, version,
		q.Category, featured, strings.Join(q.Sizes, ","), q.Search, q.Sort, q.Page, q.PerPage)
}
