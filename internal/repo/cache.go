package repo

import (
	"github.com/dgraph-io/ristretto/v2"
)

// Cache is an in-process read cache for KV values, keyed like the kv table.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// NewCache builds a cache bounded by maxCostBytes of value payload.
func NewCache(maxCostBytes int64) (*Cache, error) {
	if maxCostBytes <= 0 {
		return nil, nil
	}
	counters := maxCostBytes / 100 * 10
	if counters < 1000 {
		counters = 1000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: counters,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

func (c *Cache) get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.c.Get(key)
}

func (c *Cache) set(key string, value []byte) {
	if c == nil {
		return
	}
	c.c.Set(key, value, int64(len(value)))
}

func (c *Cache) del(key string) {
	if c == nil {
		return
	}
	c.c.Del(key)
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	if c == nil {
		return
	}
	c.c.Wait()
}

func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.c.Close()
}
