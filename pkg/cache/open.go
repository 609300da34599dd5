package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend string        `koanf:"backend"`
	Dir     string        `koanf:"dir"`
	TTL     time.Duration `koanf:"ttl"`
	Prefix  string        `koanf:"prefix"`
	Redis   RedisOptions  `koanf:"redis"`
}

// Open builds the configured cache, wrapped with [Instrumented] and, when
// Prefix is set, [Scoped]. An empty backend means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var c Cache
	switch opts.Backend {
	case "", BackendFile:
		fc, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		c = fc
	case BackendRedis:
		rc, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		c = rc
	case BackendNone:
		c = NewNullCache()
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, redis, or none)", opts.Backend)
	}

	if opts.Prefix != "" {
		c = Scoped(c, opts.Prefix)
	}
	return Instrumented(c, "classes"), nil
}
