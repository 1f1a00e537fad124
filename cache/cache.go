package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// Cache holds epoch lookups already answered by the node, keyed by block
// height. The epoch active at a given height never changes once the height
// is final, so cached entries never go stale.
type Cache interface {
	Get(height uint64) (uint64, bool)
	Set(height uint64, epoch uint64)
}

const DefaultCacheSize = 1024

type LocalCache struct {
	cache *lru.Cache
}

func NewLocalCache(size uint64) (Cache, error) {
	cache, err := lru.New(int(size))
	if err != nil {
		return nil, err
	}
	return &LocalCache{
		cache,
	}, nil
}

func (c *LocalCache) Get(height uint64) (uint64, bool) {
	value, found := c.cache.Get(height)
	if !found {
		return 0, false
	}
	return value.(uint64), true
}

func (c *LocalCache) Set(height uint64, epoch uint64) {
	c.cache.Add(height, epoch)
}
