package indexer

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type cachedEntry struct {
	Version  string
	Value    any
	CachedAt time.Time
}

// snapshotCache holds recent indexer responses with a short TTL. Entries are
// invalidated explicitly after a transaction so post-action reads go to the
// network.
type snapshotCache struct {
	lru *expirable.LRU[string, *cachedEntry]
}

func newSnapshotCache(size int, ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		lru: expirable.NewLRU[string, *cachedEntry](size, nil, ttl),
	}
}

func cacheGet[T any](c *snapshotCache, key string) (T, bool) {
	var zero T
	entry, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		return zero, false
	}
	v, ok := entry.Value.(T)
	return v, ok
}

func (c *snapshotCache) set(key string, v any) {
	c.lru.Add(key, &cachedEntry{Version: CacheSchemaVersion, Value: v, CachedAt: time.Now()})
}

func (c *snapshotCache) remove(key string) {
	c.lru.Remove(key)
}

func (c *snapshotCache) len() int {
	return c.lru.Len()
}
