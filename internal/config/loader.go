package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/classview/pkg/cache"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/store"
)

// sections are the nested config blocks. Environment variables and flags
// whose name starts with a section address a key inside it:
// CLASSVIEW_REDIS_ADDR -> redis.addr, --cache-backend -> cache.backend.
var sections = []string{"cache", "redis", "store", "mongo", "server", "layout"}

// flagKeys maps flags whose names don't follow the section convention.
var flagKeys = map[string]string{
	"addr":    "server.addr",
	"refresh": "cache.refresh",
	"backend": "backend_url",
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"backend_url":             DefaultBackendURL,
		"verbose":                 false,
		"cache.backend":           cache.BackendFile,
		"cache.ttl":               cache.DefaultTTL.String(),
		"store.backend":           store.BackendMemory,
		"store.ttl":               store.DefaultTTL.String(),
		"mongo.database":          store.DefaultMongoDatabase,
		"mongo.collection":        store.DefaultMongoCollection,
		"server.addr":             DefaultServerAddr,
		"server.shutdown_timeout": DefaultShutdownTimeout.String(),
		"layout.horizontal":       hierarchy.DefaultSpacing.Horizontal,
		"layout.vertical":         hierarchy.DefaultSpacing.Vertical,
		"layout.node_width":       hierarchy.DefaultNodeSize.Width,
		"layout.node_height":      hierarchy.DefaultNodeSize.Height,
	}
}

// FindFile returns the config file to use: explicit, else classview.yaml
// or classview.yml in the working directory, else "".
func FindFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultFileName, "classview.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration from all sources.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := FindFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: CLASSVIEW_CACHE_BACKEND -> cache.backend
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return sectionKey(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return FlagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	cfg.Token = expandEnvVars(cfg.Token)
	cfg.Redis.Password = expandEnvVars(cfg.Redis.Password)
	cfg.Mongo.URI = expandEnvVars(cfg.Mongo.URI)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FlagKey returns the config key a flag sets.
func FlagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return sectionKey(strings.ReplaceAll(name, "-", "_"))
}

// sectionKey turns "cache_backend" into "cache.backend" for known sections.
func sectionKey(key string) string {
	for _, s := range sections {
		if rest, ok := strings.CutPrefix(key, s+"_"); ok && rest != "" {
			return s + "." + rest
		}
	}
	return key
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}
