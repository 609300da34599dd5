package server

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/source"
	"github.com/matzehuels/classview/pkg/store"
	"github.com/matzehuels/classview/pkg/view"
)

// snapshotTimeout bounds one store write.
const snapshotTimeout = 5 * time.Second

// entry is one live session.
type entry struct {
	id     string
	view   *view.Session
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	snap *store.Snapshot
}

func (e *entry) close() error {
	e.cancel()
	return e.view.Close()
}

// sourceFor picks the source for a session created with token.
func (s *Server) sourceFor(token string) source.Source {
	if s.opts.Client == nil {
		return s.opts.Source
	}
	if token != "" {
		return s.opts.Client.WithToken(token)
	}
	return s.opts.Client
}

// newEntry builds an unregistered session.
func (s *Server) newEntry(id, token string) *entry {
	ctx, cancel := context.WithCancel(s.ctx)
	e := &entry{
		id: id,
		view: view.New(view.Options{
			Source:   s.sourceFor(token),
			Spacing:  s.opts.Spacing,
			NodeSize: s.opts.NodeSize,
			Logger:   s.logger.With("session", id),
		}),
		ctx:    ctx,
		cancel: cancel,
	}
	e.view.OnChange(func(ev view.Event) {
		if ev.Kind == view.EventGraph || ev.Kind == view.EventCommit {
			s.persist(e)
		}
	})
	return e
}

// register adds e unless a session with its ID is already live, in which
// case e is closed and the live one returned.
func (s *Server) register(e *entry) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if live, ok := s.sessions[e.id]; ok {
		_ = e.close()
		return live
	}
	s.sessions[e.id] = e
	return e
}

// lookup returns the live session for id, restoring it from the store if
// needed.
func (s *Server) lookup(ctx context.Context, id, token string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return e, nil
	}

	snap, err := s.opts.Store.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "loading session %s", id)
	}
	if snap == nil {
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	g, err := snap.GraphValue()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "restoring session %s", id)
	}

	e = s.newEntry(id, token)
	e.snap = snap
	if err := e.view.Restore(g, snap.File); err != nil {
		return nil, err
	}
	s.logger.Debug("restored session", "session", id, "nodes", g.NodeCount())
	return s.register(e), nil
}

// remove deletes a session from memory and the store.
func (s *Server) remove(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		_ = e.close()
	}
	if err := s.opts.Store.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "deleting session %s", id)
	}
	if !ok {
		return apperrors.New(apperrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return nil
}

// persist writes the session's current graph to the store.
func (s *Server) persist(e *entry) {
	st := e.view.Status()

	e.mu.Lock()
	if e.snap == nil {
		e.snap = store.New(e.id, st.File, st.Graph, s.opts.SnapshotTTL)
	} else {
		e.snap.File = st.File
		e.snap.Touch(st.Graph, s.opts.SnapshotTTL)
	}
	snap := *e.snap
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := s.opts.Store.Put(ctx, &snap); err != nil {
		s.logger.Warn("failed to save snapshot", "session", e.id, "error", err)
	}
}

// load runs a generation-guarded fetch in the background.
func (s *Server) load(e *entry, file string) {
	go func() {
		err := e.view.Load(e.ctx, file)
		switch {
		case err == nil:
		case errors.Is(err, view.ErrStale), errors.Is(err, view.ErrClosed):
			s.logger.Debug("load superseded", "session", e.id, "file", file)
		default:
			s.logger.Warn("load failed", "session", e.id, "file", file, "error", err)
		}
	}()
}
