package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/coocood/freecache"
)

// LocalCache is an in-process cache, sized in megabytes.
type LocalCache struct {
	cache *freecache.Cache
}

func NewLocalCache(sizeMegabytes int) *LocalCache {
	return &LocalCache{
		cache: freecache.NewCache(sizeMegabytes * 1024 * 1024),
	}
}

func (c *LocalCache) Get(_ context.Context, key string) ([]byte, error) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("local get %s: %w", key, err)
	}
	return val, nil
}

func (c *LocalCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.cache.Set([]byte(key), value, expireSeconds(ttl)); err != nil {
		return fmt.Errorf("local set %s: %w", key, err)
	}
	return nil
}

func (c *LocalCache) SetIfAbsent(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	existing, err := c.cache.GetOrSet([]byte(key), value, expireSeconds(ttl))
	if err != nil {
		return false, fmt.Errorf("local set-if-absent %s: %w", key, err)
	}
	return existing == nil, nil
}

func (c *LocalCache) DeletePrefix(_ context.Context, prefix string) error {
	p := []byte(prefix)
	var keys [][]byte
	it := c.cache.NewIterator()
	for entry := it.Next(); entry != nil; entry = it.Next() {
		if bytes.HasPrefix(entry.Key, p) {
			keys = append(keys, entry.Key)
		}
	}
	for _, k := range keys {
		c.cache.Del(k)
	}
	return nil
}

// freecache takes whole seconds, 0 meaning no expiry
func expireSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int(math.Ceil(ttl.Seconds()))
}
