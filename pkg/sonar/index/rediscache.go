package index

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sondar/sondar/pkg/sonar"
)

// RedisCache is a read-through cache decorator in front of any
// sonar.IndexReader, caching posting lists for hot hashes with a bounded
// TTL. Writes are not cached; InsertTrack is not implemented by this type,
// reflecting that it decorates lookups, not ingestion.
type RedisCache struct {
	client *redis.Client
	next   sonar.IndexReader
	ttl    time.Duration
}

// NewRedisCache wraps next with a Redis-backed cache using client, caching
// each hit for ttl.
func NewRedisCache(client *redis.Client, next sonar.IndexReader, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, next: next, ttl: ttl}
}

// cacheKey builds the Redis key for a landmark hash's posting list.
func cacheKey(hash uint64) string {
	return "sonar:postings:" + strconv.FormatUint(hash, 16)
}

// Lookup serves from Redis when possible, falling back to next and
// populating the cache on a miss. Redis errors are treated like a cache miss
// and not surfaced, so a degraded cache never breaks matching.
func (c *RedisCache) Lookup(hash uint64) ([]sonar.IndexEntry, error) {
	ctx := context.Background()
	key := cacheKey(hash)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var entries []sonar.IndexEntry
		if jsonErr := json.Unmarshal([]byte(raw), &entries); jsonErr == nil {
			return entries, nil
		}
	}

	entries, err := c.next.Lookup(hash)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(entries); err == nil {
		c.client.Set(ctx, key, raw, c.ttl)
	}

	return entries, nil
}

// Invalidate drops the cached posting list for hash. CachedStore does not
// call it: re-ingesting or deleting a track leaves cached posting lists in
// place until their TTL expires.
func (c *RedisCache) Invalidate(hash uint64) error {
	if err := c.client.Del(context.Background(), cacheKey(hash)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// NewRedisClient builds a pooled Redis client from a connection URL,
// pinging it once to fail fast on misconfiguration.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 5

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
