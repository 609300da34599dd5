package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// logger. Failures are logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger if
// it is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h as the session, cache and HTTP hooks.
func (h *LogHooks) Register() {
	SetSessionHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnFetchStart(_ context.Context, file string) {
	h.Logger.Debug("fetch started", "file", file)
}

func (h *LogHooks) OnFetchComplete(_ context.Context, file string, classCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("fetch failed", "file", file, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("fetch complete", "file", file, "classes", classCount, "duration", d)
}

func (h *LogHooks) OnStale(_ context.Context, file string) {
	h.Logger.Debug("discarded stale response", "file", file)
}

func (h *LogHooks) OnBuild(_ context.Context, nodeCount, edgeCount int, d time.Duration) {
	h.Logger.Debug("graph built", "nodes", nodeCount, "edges", edgeCount, "duration", d)
}

func (h *LogHooks) OnDragCommit(_ context.Context, node string, x, y float64) {
	h.Logger.Debug("node pinned", "node", node, "x", x, "y", y)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("http error", "method", method, "host", host, "path", path, "error", err)
}
