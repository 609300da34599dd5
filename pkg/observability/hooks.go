// Package observability lets the CLI and the HTTP service observe
// visualization sessions, cache lookups and backend calls without the
// library packages depending on a logging or metrics backend.
//
// Each event category has a hook interface with a no-op default. main (or
// the serve command) registers implementations once at startup; libraries
// emit events through the accessors:
//
//	observability.Session().OnFetchStart(ctx, file)
//	// ... fetch the hierarchy ...
//	observability.Session().OnFetchComplete(ctx, file, classCount, duration, err)
//
// [LogHooks] implements every interface on top of a charmbracelet logger.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from visualization sessions.
type SessionHooks interface {
	// Fetch events
	OnFetchStart(ctx context.Context, file string)
	OnFetchComplete(ctx context.Context, file string, classCount int, duration time.Duration, err error)

	// OnStale records a fetch response discarded because a newer load was
	// issued or the session was closed.
	OnStale(ctx context.Context, file string)

	// OnBuild records a graph built and laid out from a mapping.
	OnBuild(ctx context.Context, nodeCount, edgeCount int, duration time.Duration)

	// OnDragCommit records a released drag and the node's pinned position.
	OnDragCommit(ctx context.Context, node string, x, y float64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnFetchStart(context.Context, string)                                {}
func (NoopSessionHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopSessionHooks) OnStale(context.Context, string)                                     {}
func (NoopSessionHooks) OnBuild(context.Context, int, int, time.Duration)                    {}
func (NoopSessionHooks) OnDragCommit(context.Context, string, float64, float64)              {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// hook holds one registered implementation, falling back to noop. Loads
// do not lock.
type hook[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (h *hook[T]) get() T {
	if v := h.p.Load(); v != nil {
		return *v
	}
	return h.noop
}

func (h *hook[T]) set(v T) {
	if any(v) != nil {
		h.p.Store(&v)
	}
}

var (
	sessionHooks = &hook[SessionHooks]{noop: NoopSessionHooks{}}
	cacheHooks   = &hook[CacheHooks]{noop: NoopCacheHooks{}}
	httpHooks    = &hook[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetSessionHooks registers session hooks. Nil is ignored.
func SetSessionHooks(h SessionHooks) { sessionHooks.set(h) }

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { cacheHooks.set(h) }

// SetHTTPHooks registers backend HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { httpHooks.set(h) }

// Session returns the registered session hooks.
func Session() SessionHooks { return sessionHooks.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.get() }

// Reset restores the no-op hooks. Tests use it to undo registrations.
func Reset() {
	sessionHooks.p.Store(nil)
	cacheHooks.p.Store(nil)
	httpHooks.p.Store(nil)
}
