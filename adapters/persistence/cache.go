package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
)

// RedisDocumentCache is the read-through cache behind the resume resolver.
// Entries carry a bounded TTL; invalidation is explicit on writes.
type RedisDocumentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDocumentCache(rdb *redis.Client, ttl time.Duration) *RedisDocumentCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisDocumentCache{rdb: rdb, ttl: ttl}
}

func (c *RedisDocumentCache) Get(ctx context.Context, key string) (*resume.Resume, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to read resume cache", err)
	}

	r := &resume.Resume{}
	if err := json.Unmarshal([]byte(val), r); err != nil {
		// Corrupt entry behaves like a miss; the next fetch overwrites it.
		return nil, nil
	}
	return r, nil
}

func (c *RedisDocumentCache) Set(ctx context.Context, key string, r *resume.Resume) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return apperror.NewInternal("failed to encode resume for cache", err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return apperror.NewInternal("failed to write resume cache", err)
	}
	return nil
}

func (c *RedisDocumentCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return apperror.NewInternal("failed to invalidate resume cache", err)
	}
	return nil
}

// RedisStatsCache caches the per-user statistics view with a short TTL.
type RedisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration) *RedisStatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisStatsCache{rdb: rdb, ttl: ttl}
}

func statsKey(email string) string { return fmt.Sprintf("stats:%s", email) }

func (c *RedisStatsCache) Get(ctx context.Context, userEmail string) (*resume.Stats, error) {
	val, err := c.rdb.Get(ctx, statsKey(userEmail)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to read stats cache", err)
	}

	s := &resume.Stats{}
	if err := json.Unmarshal([]byte(val), s); err != nil {
		return nil, nil
	}
	return s, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, userEmail string, s *resume.Stats) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return apperror.NewInternal("failed to encode stats for cache", err)
	}
	if err := c.rdb.Set(ctx, statsKey(userEmail), raw, c.ttl).Err(); err != nil {
		return apperror.NewInternal("failed to write stats cache", err)
	}
	return nil
}

func (c *RedisStatsCache) Delete(ctx context.Context, userEmail string) error {
	if err := c.rdb.Del(ctx, statsKey(userEmail)).Err(); err != nil {
		return apperror.NewInternal("failed to invalidate stats cache", err)
	}
	return nil
}
