package cache

import (
	"context"
	"time"

	"github.com/matzehuels/classview/pkg/observability"
)

// InstrumentedCache reports cache traffic to [observability.Cache] hooks.
// keyType labels the events, for example "classes".
type InstrumentedCache struct {
	inner   Cache
	keyType string
}

// Instrumented wraps inner so that hits, misses, and writes are reported.
func Instrumented(inner Cache, keyType string) Cache {
	return &InstrumentedCache{inner: inner, keyType: keyType}
}

// Get retrieves a value and reports a hit or miss.
func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, c.keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, c.keyType)
	}
	return data, ok, nil
}

// Set stores a value and reports the write.
func (c *InstrumentedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}

// Delete removes a value.
func (c *InstrumentedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Clear delegates to the inner cache when it supports clearing.
func (c *InstrumentedCache) Clear(ctx context.Context) error {
	if cl, ok := c.inner.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

// Close closes the inner cache.
func (c *InstrumentedCache) Close() error {
	return c.inner.Close()
}

var _ Cache = (*InstrumentedCache)(nil)
