package redis

import (
	"context"
	"errors"
	"time"

	"shopSphere/internal/repository/memcache"
	"shopSphere/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// scanBatchSize bounds each SCAN iteration so pattern deletes never
// hold the store in one long blocking pass.
const scanBatchSize = 100

// CacheRepository is a best-effort key-value cache over Redis. Every
// operation that fails against the remote store is logged and retried
// against a process-local fallback, so a caller never fails solely
// because the cache is down. A nil client means "no remote store
// configured" and routes everything to the fallback directly.
type CacheRepository struct {
	client   *redis.Client
	fallback *memcache.Store
}

func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{
		client:   client,
		fallback: memcache.NewStore(),
	}
}

func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool) {
	if r.client == nil {
		return r.fallback.Get(key)
	}

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache get failed, treating as miss", "key", key, "error", err)
			return r.fallback.Get(key)
		}
		return nil, false
	}

	return val, true
}

func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if r.client == nil {
		r.fallback.Set(key, value, ttl)
		return
	}

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Warn("cache set failed", "key", key, "error", err)
		r.fallback.Set(key, value, ttl)
	}
}

func (r *CacheRepository) Delete(ctx context.Context, key string) {
	r.fallback.Delete(key)

	if r.client == nil {
		return
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

// DeleteByPattern removes every key matching the glob pattern. The
// remote scan runs in bounded batches; a partial failure leaves the
// remaining keys to expire via TTL.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) {
	r.fallback.DeleteByPattern(pattern)

	if r.client == nil {
		return
	}

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			logger.Warn("cache pattern scan failed", "pattern", pattern, "error", err)
			return
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				logger.Warn("cache pattern delete failed", "pattern", pattern, "error", err)
				return
			}
		}

		cursor = next
		if cursor == 0 {
			return
		}
	}
}
