// Package cache keeps fully rendered public responses until content changes.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultKeyPrefix = "meeting_guide_api_cache"

type ResponseCache struct {
	prefix string
	store  *gocache.Cache
}

func NewResponseCache(prefix string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		prefix: prefix,
		store:  gocache.New(ttl, ttl/2),
	}
}

func (c *ResponseCache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *ResponseCache) Get(key string) (any, bool) {
	return c.store.Get(c.key(key))
}

func (c *ResponseCache) Set(key string, value any) {
	c.store.SetDefault(c.key(key), value)
}

// Flush drops every cached response. Called on any content change.
func (c *ResponseCache) Flush() {
	c.store.Flush()
}

func (c *ResponseCache) Len() int {
	return c.store.ItemCount()
}

// Remember returns the cached value for key or stores the result of load.
// Errors are not cached.
func Remember[T any](c *ResponseCache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}
