package omdb

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem wraps a cached value with its expiry.
type cacheItem[T any] struct {
	value     T
	expiredAt time.Time
}

// SearchCache is a TTL-checked LRU over external search results. The LRU
// bounds memory, the TTL keeps pages from going stale.
type SearchCache[T any] struct {
	storage *lru.Cache[string, cacheItem[T]]
	ttl     time.Duration
}

// NewSearchCache creates a cache holding at most size entries, each valid
// for ttl.
func NewSearchCache[T any](size int, ttl time.Duration) *SearchCache[T] {
	c, _ := lru.New[string, cacheItem[T]](size)
	return &SearchCache[T]{storage: c, ttl: ttl}
}

func (c *SearchCache[T]) Set(key string, value T) {
	c.storage.Add(key, cacheItem[T]{value: value, expiredAt: time.Now().Add(c.ttl)})
}

func (c *SearchCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if time.Now().After(item.expiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.value, true
}

func (c *SearchCache[T]) Len() int {
	return c.storage.Len()
}
