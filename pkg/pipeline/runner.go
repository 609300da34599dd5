package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classview/pkg/cache"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/observability"
	"github.com/matzehuels/classview/pkg/render/nodelink"
	"github.com/matzehuels/classview/pkg/source"
)

// Runner executes pipeline stages. Backend responses are cached by the
// source; rendered artifacts are cached by the runner, keyed by graph
// content so a dragged graph never reuses the artifacts of its layout.
//
// The Runner holds no per-run state, so goroutines may share one.
type Runner struct {
	Source source.Source
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables artifact caching and a
// nil logger means log.Default(). src may be nil when every run supplies
// its mapping directly.
func NewRunner(src source.Source, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Source: src, Cache: c, Logger: logger}
}

// Execute runs the complete fetch → build → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)
	result := &Result{}

	// Stage 1: Fetch
	m := opts.Mapping
	if m == nil {
		fetchStart := time.Now()
		var err error
		if m, err = r.Fetch(ctx, opts.File); err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		result.Stats.FetchTime = time.Since(fetchStart)
		logger.Info("fetched hierarchy",
			"file", opts.File,
			"classes", m.Len(),
			"duration", result.Stats.FetchTime)
	}
	result.Mapping = m
	result.Stats.ClassCount = m.Len()

	// Stage 2: Build
	buildStart := time.Now()
	g := r.Build(ctx, m, opts)
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Measure(g)
	if g.IsEmpty() && m.Len() > 0 {
		logger.Warn("hierarchy has no root class; nothing to draw", "classes", m.Len())
	}
	logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"layers", result.Stats.Layers,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hash, hit, err := r.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.GraphHash = hash
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Fetch resolves the mapping for file through the runner's source.
func (r *Runner) Fetch(ctx context.Context, file string) (*hierarchy.Mapping, error) {
	if r.Source == nil {
		return nil, fmt.Errorf("no hierarchy source configured")
	}
	hooks := observability.Session()
	hooks.OnFetchStart(ctx, file)
	start := time.Now()
	m, err := r.Source.Classes(ctx, file)
	hooks.OnFetchComplete(ctx, file, m.Len(), time.Since(start), err)
	return m, err
}

// Build builds and lays out m.
func (r *Runner) Build(ctx context.Context, m *hierarchy.Mapping, opts Options) *hierarchy.Graph {
	start := time.Now()
	g := hierarchy.BuildAndLayout(m, opts.Spacing)
	observability.Session().OnBuild(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start))
	return g
}

// RenderWithCacheInfo renders every requested format, returning the
// artifacts, the graph content hash, and whether all came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *hierarchy.Graph, opts Options) (map[string][]byte, string, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, "", false, err
	}

	var buf bytes.Buffer
	if err := hierarchy.WriteGraph(g, &buf); err != nil {
		return nil, "", false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphJSON := buf.Bytes()
	hash := cache.Hash(graphJSON)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := cache.ArtifactKey(hash, format, opts.artifactKeyOpts()...)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
			continue
		}
		allCached = false

		data, err := RenderFormat(g, graphJSON, format, opts)
		if err != nil {
			return nil, "", false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
		_ = r.Cache.Set(ctx, key, data, cache.DefaultTTL)
	}
	return artifacts, hash, allCached, nil
}

// Render is RenderWithCacheInfo without the cache details.
func (r *Runner) Render(ctx context.Context, g *hierarchy.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// nodelinkOptions maps pipeline options to the Graphviz renderer's.
func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{Size: opts.NodeSize, Detailed: opts.Detailed, Free: opts.Free}
}
