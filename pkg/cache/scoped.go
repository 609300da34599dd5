package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key before delegating to an inner cache. It is
// useful when several applications or tenants share one Redis instance.
//
// Example usage:
//
//	shared, _ := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: "localhost:6379"})
//	c := cache.Scoped(shared, "classview:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// Scoped wraps inner with a key prefix. A nil inner is treated as a
// [NullCache].
func Scoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Get retrieves a prefixed key.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a prefixed key.
func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes a prefixed key.
func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Clear removes the scope's entries. Inner caches that cannot clear by
// prefix are cleared entirely.
func (c *ScopedCache) Clear(ctx context.Context) error {
	switch inner := c.inner.(type) {
	case PrefixClearer:
		return inner.ClearPrefix(ctx, c.prefix)
	case Clearer:
		return inner.Clear(ctx)
	}
	return nil
}

// Close closes the inner cache.
func (c *ScopedCache) Close() error {
	return c.inner.Close()
}

var _ Cache = (*ScopedCache)(nil)
