// Package config loads classview configuration.
//
// Values come from, in increasing precedence: built-in defaults, a
// classview.yaml file, CLASSVIEW_* environment variables, and command-line
// flags that were explicitly set.
//
//	backend_url: http://localhost:8000
//	token: ${CLASSVIEW_TOKEN}
//	cache:
//	  backend: redis
//	  ttl: 12h
//	redis:
//	  addr: localhost:6379
//	store:
//	  backend: mongo
//	mongo:
//	  uri: mongodb://localhost:27017
//	layout:
//	  horizontal: 180
//	  vertical: 100
package config

import (
	"fmt"
	"time"

	"github.com/matzehuels/classview/pkg/cache"
	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/store"
)

// Default values.
const (
	DefaultBackendURL = "http://localhost:8000"
	DefaultServerAddr = ":8080"
	DefaultFileName   = "classview.yaml"
	EnvPrefix         = "CLASSVIEW_"

	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds all classview configuration.
type Config struct {
	BackendURL string       `koanf:"backend_url"`
	Token      string       `koanf:"token"`
	Verbose    bool         `koanf:"verbose"`
	Cache      CacheConfig  `koanf:"cache"`
	Redis      RedisConfig  `koanf:"redis"`
	Store      StoreConfig  `koanf:"store"`
	Mongo      MongoConfig  `koanf:"mongo"`
	Server     ServerConfig `koanf:"server"`
	Layout     LayoutConfig `koanf:"layout"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// CacheConfig selects the backend response cache.
type CacheConfig struct {
	Backend string        `koanf:"backend"` // file, redis, or none
	Dir     string        `koanf:"dir"`
	TTL     time.Duration `koanf:"ttl"`
	Prefix  string        `koanf:"prefix"`
	Refresh bool          `koanf:"refresh"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// StoreConfig selects the snapshot store.
type StoreConfig struct {
	Backend string        `koanf:"backend"` // memory, file, or mongo
	Dir     string        `koanf:"dir"`
	TTL     time.Duration `koanf:"ttl"`
}

// MongoConfig configures the mongo snapshot store.
type MongoConfig struct {
	URI        string `koanf:"uri"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

// LayoutConfig holds layout spacing and the rendered node size.
type LayoutConfig struct {
	Horizontal float64 `koanf:"horizontal"`
	Vertical   float64 `koanf:"vertical"`
	NodeWidth  float64 `koanf:"node_width"`
	NodeHeight float64 `koanf:"node_height"`
}

// Spacing returns the layout spacing.
func (c LayoutConfig) Spacing() hierarchy.Spacing {
	return hierarchy.Spacing{Horizontal: c.Horizontal, Vertical: c.Vertical}
}

// NodeSize returns the rendered node size.
func (c LayoutConfig) NodeSize() hierarchy.Size {
	return hierarchy.Size{Width: c.NodeWidth, Height: c.NodeHeight}
}

// CacheOptions returns the options for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		TTL:     c.Cache.TTL,
		Prefix:  c.Cache.Prefix,
		Redis: cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		},
	}
}

// StoreOptions returns the options for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Dir:     c.Store.Dir,
		Mongo: store.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		},
	}
}

// Validate checks enumerations and numeric ranges.
func (c *Config) Validate() error {
	if c.BackendURL != "" {
		if err := apperrors.ValidateURL(c.BackendURL); err != nil {
			return fmt.Errorf("backend_url: %w", err)
		}
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "cache.backend: unknown backend %q (want file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Redis.Addr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "redis.addr is required for the redis cache")
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendMongo:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "store.backend: unknown backend %q (want memory, file, or mongo)", c.Store.Backend)
	}
	if c.Store.Backend == store.BackendMongo && c.Mongo.URI == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "mongo.uri is required for the mongo store")
	}
	l := c.Layout
	if l.Horizontal <= 0 || l.Vertical <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "layout spacing must be positive")
	}
	if l.NodeWidth <= 0 || l.NodeHeight <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "layout node size must be positive")
	}
	return nil
}
