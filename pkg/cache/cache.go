// Package cache implements the cache collaborator of spec.md section 6:
// connect/disconnect/get/set/delete plus the data-pool operations
// get_from_pool/add_to_pool/get_pool_size. A failed cache is never fatal;
// callers degrade to an uncached path.
package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache is the collaborator contract. Every method is best-effort: a
// disconnected or erroring Redis degrades the caller, it never panics or
// blocks generation.
type Cache interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)

	GetFromPool(ctx context.Context, poolName string, count int) []map[string]interface{}
	AddToPool(ctx context.Context, poolName string, items []map[string]interface{})
	GetPoolSize(ctx context.Context, poolName string) int64
}

// RedisCache is the Redis-backed implementation, ported from the original
// agent's redis_client.py: plain string GET/SET for the cache, and a list
// (RPUSH/LRANGE/LTRIM) per named pool for reusable data fragments such as
// addresses or phone numbers.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
	log        zerolog.Logger
	connected  bool
}

// NewRedisCache builds a cache. defaultTTL backs CACHE_TTL_SECONDS.
func NewRedisCache(opts *redis.Options, defaultTTL time.Duration, log zerolog.Logger) *RedisCache {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &RedisCache{
		client:     redis.NewClient(opts),
		defaultTTL: defaultTTL,
		log:        log.With().Str("component", "cache").Logger(),
	}
}

func (c *RedisCache) Connect(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache connect failed, continuing without cache")
		c.connected = false
		return nil
	}
	c.connected = true
	return nil
}

func (c *RedisCache) Disconnect(ctx context.Context) error {
	c.connected = false
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	if !c.connected {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		}
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if !c.connected {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if !c.connected {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

func poolKey(poolName string) string { return "syndata:pool:" + poolName }

// GetFromPool pops up to count items off the front of the named pool,
// removing them so they are not served twice.
func (c *RedisCache) GetFromPool(ctx context.Context, poolName string, count int) []map[string]interface{} {
	if !c.connected || count <= 0 {
		return nil
	}
	key := poolKey(poolName)

	raw, err := c.client.LRange(ctx, key, 0, int64(count-1)).Result()
	if err != nil || len(raw) == 0 {
		if err != nil {
			c.log.Debug().Err(err).Str("pool", poolName).Msg("pool get failed")
		}
		return nil
	}
	if err := c.client.LTrim(ctx, key, int64(len(raw)), -1).Err(); err != nil {
		c.log.Debug().Err(err).Str("pool", poolName).Msg("pool trim failed")
	}

	items := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(item), &m); err == nil {
			items = append(items, m)
		}
	}
	return items
}

// AddToPool appends items to the named pool and sets a TTL if one is not
// already present (mirrors the original's "don't clobber an existing TTL").
func (c *RedisCache) AddToPool(ctx context.Context, poolName string, items []map[string]interface{}) {
	if !c.connected || len(items) == 0 {
		return
	}
	key := poolKey(poolName)

	serialized := make([]interface{}, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		serialized = append(serialized, string(b))
	}
	if len(serialized) == 0 {
		return
	}

	if err := c.client.RPush(ctx, key, serialized...).Err(); err != nil {
		c.log.Debug().Err(err).Str("pool", poolName).Msg("pool add failed")
		return
	}

	ttl, err := c.client.TTL(ctx, key).Result()
	if err == nil && ttl < 0 {
		c.client.Expire(ctx, key, c.defaultTTL)
	}
}

func (c *RedisCache) GetPoolSize(ctx context.Context, poolName string) int64 {
	if !c.connected {
		return 0
	}
	n, err := c.client.LLen(ctx, poolKey(poolName)).Result()
	if err != nil {
		c.log.Debug().Err(err).Str("pool", poolName).Msg("pool size failed")
		return 0
	}
	return n
}

// BuildKey builds a deterministic cache key from domain, entity, and a set
// of extra parameters, sorted by parameter name for stability.
func BuildKey(domain, entity string, params map[string]string) string {
	parts := []string{domain, entity}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+":"+params[k])
	}
	return strings.Join(parts, ":")
}
