// Package viewcache holds rendered view data per signed-in backend user so repeated page
// loads do not hit the backend. Mutations invalidate the affected view paths.
package viewcache

import (
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSize bounds the number of cached views across all operators.
const DefaultSize = 1024

// scope and path are joined with a byte neither can contain.
const keySeparator = "\x00"

// Cache stores view data by scope (the backend user) and view path.
type Cache interface {
	Get(scope, path string) (any, bool)
	Set(scope, path string, value any)
	// Invalidate drops the given paths for every scope.
	Invalidate(paths ...string)
}

var _ Cache = (*InMemoryCache)(nil)

// InMemoryCache is an expiring LRU keyed by scope and path. A TTL of zero or less
// disables it.
type InMemoryCache struct {
	lru *expirable.LRU[string, any]
}

// NewInMemoryCache creates a cache whose entries live for ttl.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return NewInMemoryCacheWithSize(ttl, DefaultSize)
}

// NewInMemoryCacheWithSize creates a cache holding at most size views.
func NewInMemoryCacheWithSize(ttl time.Duration, size int) *InMemoryCache {
	if ttl <= 0 {
		return &InMemoryCache{}
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &InMemoryCache{lru: expirable.NewLRU[string, any](size, nil, ttl)}
}

func cacheKey(scope, path string) string {
	return scope + keySeparator + path
}

func (c *InMemoryCache) Get(scope, path string) (any, bool) {
	if c.lru == nil {
		return nil, false
	}
	return c.lru.Get(cacheKey(scope, path))
}

func (c *InMemoryCache) Set(scope, path string, value any) {
	if c.lru == nil {
		return
	}
	c.lru.Add(cacheKey(scope, path), value)
}

func (c *InMemoryCache) Invalidate(paths ...string) {
	if c.lru == nil || len(paths) == 0 {
		return
	}
	for _, key := range c.lru.Keys() {
		if _, path, ok := strings.Cut(key, keySeparator); ok && slices.Contains(paths, path) {
			c.lru.Remove(key)
		}
	}
}

// Len returns the number of stored entries.
func (c *InMemoryCache) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
