// Package server exposes visualization sessions over HTTP.
//
// Remote render surfaces create a session, ask it to load a file's class
// hierarchy from the analysis backend, and then drive drags either with
// one POST per pointer event or over a websocket. Every build and every
// completed drag is written to the snapshot store, and a session that is
// no longer in memory is restored from its snapshot on first use.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/pipeline"
	"github.com/matzehuels/classview/pkg/source"
	"github.com/matzehuels/classview/pkg/store"
)

// DefaultCleanupInterval is how often expired snapshots are purged.
const DefaultCleanupInterval = time.Hour

// Options configures a [Server].
type Options struct {
	Addr string

	// Client is the backend client. Requests that carry their own bearer
	// token get a copy of it bound to that token.
	Client *source.Client
	// Source is used when Client is nil, e.g. a local file source.
	Source source.Source

	Store  store.Store
	Runner *pipeline.Runner

	Spacing     hierarchy.Spacing
	NodeSize    hierarchy.Size
	SnapshotTTL time.Duration

	AllowedOrigins  []string // Websocket origins; empty allows same-origin only
	ShutdownTimeout time.Duration
	CleanupInterval time.Duration

	Logger *log.Logger
}

// Server is the classview HTTP service.
type Server struct {
	opts   Options
	logger *log.Logger
	router chi.Router

	mu       sync.Mutex
	sessions map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a server. A nil store means an in-memory store, and a nil
// runner renders without an artifact cache.
func New(opts Options) (*Server, error) {
	if opts.Client == nil && opts.Source == nil {
		return nil, fmt.Errorf("server: a backend client or source is required")
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.NodeSize.Width == 0 || opts.NodeSize.Height == 0 {
		opts.NodeSize = hierarchy.DefaultNodeSize
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[string]*entry),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured address and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.opts.Addr,
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting classview server", "addr", s.opts.Addr)

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		return s.cleanupLoop(egctx)
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) cleanupLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.opts.Store.Cleanup(ctx); err != nil {
				s.logger.Warn("snapshot cleanup failed", "error", err)
			}
		}
	}
}

// Close ends every session and releases the store and runner.
func (s *Server) Close() error {
	s.cancel()

	s.mu.Lock()
	entries := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	var result error
	for id, e := range entries {
		if err := e.close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("session %s: %w", id, err))
		}
	}
	if err := s.opts.Store.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("store: %w", err))
	}
	if err := s.opts.Runner.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("runner: %w", err))
	}
	return result
}
