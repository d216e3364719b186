package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheNamespace = "gestion:cache:"

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache implements usecase.Cache on Redis strings. Party lookups are the
// main reader; writers invalidate by key.
type Cache struct {
	client   *redis.Client
	prefix   string
	onLookup func(hit bool)
}

// NewCache creates a Cache whose keys live under namespace. An empty
// namespace uses "gestion:cache:".
func NewCache(client *redis.Client, namespace string) *Cache {
	if namespace == "" {
		namespace = defaultCacheNamespace
	}
	return &Cache{client: client, prefix: namespace}
}

// OnLookup registers fn to observe every Get outcome. Redis errors count as
// neither hit nor miss.
func (c *Cache) OnLookup(fn func(hit bool)) *Cache {
	c.onLookup = fn
	return c
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.observe(false)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, err
	}
	c.observe(true)
	return val, nil
}

// Set stores value for ttl. A zero ttl keeps the key until it is deleted.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

func (c *Cache) observe(hit bool) {
	if c.onLookup != nil {
		c.onLookup(hit)
	}
}
