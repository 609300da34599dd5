// Package cache stores backend responses between runs.
//
// # Overview
//
// Every backend implements [Cache]: a byte-oriented key/value store with
// per-entry TTL. The CLI uses [FileCache] under ~/.cache/classview, the
// HTTP service can share a [RedisCache] between replicas, and [NullCache]
// disables caching altogether.
//
//	c, err := cache.NewFileCache(cache.DefaultDir())
//	key := cache.ClassesKey(baseURL, token, "models.py")
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // use data
//	}
//
// # Wrappers
//
// [Scoped] prefixes keys so several tenants or applications can share one
// store. [Instrumented] reports hits, misses, and writes to the registered
// [observability.CacheHooks].
//
// [observability.CacheHooks]: github.com/matzehuels/classview/pkg/observability
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero TTL means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// PrefixClearer is implemented by caches that can drop every entry whose
// key starts with a prefix.
type PrefixClearer interface {
	ClearPrefix(ctx context.Context, prefix string) error
}

// DefaultTTL is how long backend responses stay cached.
const DefaultTTL = 24 * time.Hour

// DefaultDir returns the default file cache directory,
// $XDG_CACHE_HOME/classview or ~/.cache/classview.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "classview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "classview-cache")
	}
	return filepath.Join(home, ".cache", "classview")
}
