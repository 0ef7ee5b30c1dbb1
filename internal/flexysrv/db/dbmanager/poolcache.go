package dbmanager

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// PoolCache maps tenant keys to live pools. The cache is owned by the
// manager that created it; nothing else holds a reference to the pools
// inside, so evicting a key is enough to retire its pool.
type PoolCache struct {
	mu    sync.RWMutex
	pools map[string]*Pool
	group singleflight.Group
}

// NewPoolCache creates an empty pool cache.
func NewPoolCache() *PoolCache {
	return &PoolCache{
		pools: make(map[string]*Pool),
	}
}

// Get returns the cached pool for key if one exists.
func (c *PoolCache) Get(key string) (*Pool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pools[key]
	return p, ok
}

// GetOrCreate returns the cached pool for key, or runs factory to build
// one. Concurrent callers for the same key share a single factory
// invocation; a factory error is returned to all of them and leaves the
// cache unchanged.
func (c *PoolCache) GetOrCreate(key string, factory func() (*Pool, error)) (*Pool, error) {
	if p, ok := c.Get(key); ok {
		return p, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if p, ok := c.Get(key); ok {
			return p, nil
		}
		p, err := factory()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.pools[key] = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Pool), nil
}

// Evict removes and closes the pool for key. Evicting an absent key is
// a no-op.
func (c *PoolCache) Evict(key string) {
	c.mu.Lock()
	p, ok := c.pools[key]
	delete(c.pools, key)
	c.mu.Unlock()
	if ok {
		p.Close()
	}
}

// Len returns the number of cached pools.
func (c *PoolCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pools)
}

// Close evicts every cached pool.
func (c *PoolCache) Close() {
	c.mu.Lock()
	pools := c.pools
	c.pools = make(map[string]*Pool)
	c.mu.Unlock()
	for _, p := range pools {
		p.Close()
	}
}
