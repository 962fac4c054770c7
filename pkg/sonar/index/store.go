package index

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sondar/sondar/pkg/sonar"
)

// Store is the full catalogue/index surface: sonar.Index for fingerprint
// matching, plus the presentation-only track metadata CRUD that SQLite and
// Postgres both also implement. Entry points program against Store so
// either backend, optionally wrapped in a Redis read-through cache, can be
// selected at runtime from config rather than compiled in.
type Store interface {
	sonar.Index
	AddTrackMetadata(trackID uint32, name, artist string, duration time.Duration) error
	GetTrack(trackID uint32) (*sonar.Track, error)
	ListTracks() ([]sonar.Track, error)
	DeleteTrack(trackID uint32) error
	Close() error
}

// CachedStore decorates a Store's Lookup with a RedisCache. Writes and
// catalogue metadata calls pass straight through to the wrapped Store.
type CachedStore struct {
	Store
	cache *RedisCache
}

// NewCachedStore wraps next so that Lookup is served through a Redis
// read-through cache using client, caching each hit for ttl.
func NewCachedStore(next Store, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{Store: next, cache: NewRedisCache(client, next, ttl)}
}

// Lookup serves from the Redis cache, falling back to the wrapped Store on
// a miss or cache error.
func (c *CachedStore) Lookup(hash uint64) ([]sonar.IndexEntry, error) {
	return c.cache.Lookup(hash)
}
