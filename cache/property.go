package cache

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "property:"
	scanPattern = keyPrefix + "*"
	scanCount   = 100

	// generationKey sits outside scanPattern so invalidation never resets it.
	generationKey = "listing-generation"
)

// NoGeneration marks a read whose generation is unknown; its result is not cached.
const NoGeneration int64 = -1

// PropertyCache holds serialized listing responses. Entries are filed under
// the generation current when their data was read, and Invalidate moves to a
// new generation, so a fill that raced with a write is never served.
type PropertyCache interface {
	Get(ctx context.Context, key string) (data []byte, generation int64, ok bool)
	Set(ctx context.Context, key string, generation int64, data []byte)
	Invalidate(ctx context.Context)
}

// AllKey is the cache key of the unfiltered listing.
func AllKey() string {
	return keyPrefix + "all"
}

// SellerKey is the cache key of one seller's listings.
func SellerKey(sellerID string) string {
	return keyPrefix + "seller:" + sellerID
}

func versionedKey(key string, generation int64) string {
	return key + ":" + strconv.FormatInt(generation, 10)
}

type RedisPropertyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPropertyCache(client *redis.Client, ttl time.Duration) *RedisPropertyCache {
	return &RedisPropertyCache{client: client, ttl: ttl}
}

func (c *RedisPropertyCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get reads the current generation before the entry. Callers pass the
// returned generation to Set after loading from the store.
func (c *RedisPropertyCache) Get(ctx context.Context, key string) ([]byte, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		log.Printf("Redis GET error for %s: %v", generationKey, err)
		return nil, NoGeneration, false
	}

	vkey := versionedKey(key, gen)
	data, err := c.client.Get(ctx, vkey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Redis GET error for key %s: %v", vkey, err)
		}
		log.Printf("Cache Miss for key: %s", vkey)
		return nil, gen, false
	}
	log.Printf("Cache Hit for key: %s", vkey)
	return data, gen, true
}

func (c *RedisPropertyCache) Set(ctx context.Context, key string, generation int64, data []byte) {
	if generation == NoGeneration {
		return
	}
	vkey := versionedKey(key, generation)
	if err := c.client.Set(ctx, vkey, data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache response for key %s: %v", vkey, err)
	}
}

// Invalidate starts a new generation and then drops every listing entry.
// Any write to properties can change both the full listing and a seller's
// listing, so all keys go.
func (c *RedisPropertyCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		log.Printf("Redis INCR error for %s: %v", generationKey, err)
	}

	var keysToDelete []string
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, keys...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error executing pipeline for deleting %d property cache keys: %v", len(keysToDelete), err)
		return
	}
	log.Printf("Property cache invalidated, deleted %d keys matching '%s'", len(keysToDelete), scanPattern)
}

// NoopCache is used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, int64, bool) { return nil, NoGeneration, false }
func (NoopCache) Set(context.Context, string, int64, []byte)        {}
func (NoopCache) Invalidate(context.Context)                        {}
