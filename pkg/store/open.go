package store

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string       `koanf:"backend"`
	Dir     string       `koanf:"dir"`
	Mongo   MongoOptions `koanf:"mongo"`
}

// Open returns the configured store. An empty backend means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.Dir)
	case BackendMongo:
		return NewMongoStore(ctx, opts.Mongo)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
