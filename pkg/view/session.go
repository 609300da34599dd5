package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/interact"
	"github.com/matzehuels/classview/pkg/observability"
	"github.com/matzehuels/classview/pkg/source"
)

var (
	// ErrStale is returned by Load when a newer load or apply superseded it.
	ErrStale = errors.New("stale response discarded")

	// ErrClosed is returned once the session has been closed.
	ErrClosed = errors.New("session closed")

	// ErrNoSource is returned by Load on a session built without a source.
	ErrNoSource = errors.New("session has no hierarchy source")
)

// Options configures a [Session].
type Options struct {
	Source   source.Source
	Spacing  hierarchy.Spacing // Zero fields use hierarchy.DefaultSpacing
	NodeSize hierarchy.Size    // Zero fields use hierarchy.DefaultNodeSize
	Logger   *log.Logger
}

// EventKind tells listeners what changed.
type EventKind int

const (
	// EventState fires when the load state changes without a new graph
	// (loading started, fetch failed).
	EventState EventKind = iota
	// EventGraph fires when a new graph replaced the old one.
	EventGraph
	// EventCommit fires when a drag is released and its node is pinned.
	EventCommit
)

// Event describes one change to a session.
type Event struct {
	Kind  EventKind
	State State
	Node  hierarchy.Node // Set for EventCommit
}

// Session is one visualization: a graph, its drag controller, and its load
// state. It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	src     source.Source
	spacing hierarchy.Spacing
	logger  *log.Logger

	surface *interact.EventSurface
	ctrl    *interact.Controller

	state  State
	file   string
	err    error
	gen    uint64
	closed bool

	pending   []Event
	listeners []func(Event)
}

// New returns an empty session.
func New(opts Options) *Session {
	s := &Session{
		src:     opts.Source,
		spacing: opts.Spacing,
		logger:  opts.Logger,
		surface: interact.NewEventSurface(),
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.ctrl = interact.NewController(hierarchy.NewGraph(), s.surface, opts.NodeSize)
	s.ctrl.OnCommit(func(n hierarchy.Node) {
		// Runs inside Pointer, which holds s.mu.
		s.pending = append(s.pending, Event{Kind: EventCommit, State: s.state, Node: n})
		observability.Session().OnDragCommit(context.Background(), n.ID, n.Position.X, n.Position.Y)
	})
	return s
}

// OnChange registers fn to be called after every change. Listeners run
// outside the session lock, in registration order, on the goroutine that
// made the change.
func (s *Session) OnChange(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load fetches the hierarchy of file and replaces the graph with it.
//
// The current graph stays in place, and draggable, while the fetch runs. On
// failure the session moves to [StateUnavailable] and keeps its graph. A
// response that arrives after a newer Load or [Session.Apply], or after
// Close, is dropped.
func (s *Session) Load(ctx context.Context, file string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.src == nil {
		s.mu.Unlock()
		return ErrNoSource
	}
	s.gen++
	gen := s.gen
	src := s.src
	s.file = file
	s.err = nil
	s.setState(StateLoading)
	s.flush()

	hooks := observability.Session()
	hooks.OnFetchStart(ctx, file)
	start := time.Now()
	m, err := src.Classes(ctx, file)
	hooks.OnFetchComplete(ctx, file, m.Len(), time.Since(start), err)

	s.mu.Lock()
	defer s.flush()

	if s.closed || gen != s.gen {
		hooks.OnStale(ctx, file)
		s.logger.Debug("discarding stale hierarchy", "file", file, "generation", gen, "current", s.gen)
		if s.closed {
			return ErrClosed
		}
		return ErrStale
	}

	if err != nil {
		s.err = err
		s.setState(StateUnavailable)
		s.logger.Warn("hierarchy data unavailable", "file", file, "error", err)
		return apperrors.Wrap(apperrors.ErrCodeDataUnavailable, err, "hierarchy for %s unavailable", file)
	}

	s.install(ctx, m)
	return nil
}

// Apply builds and lays out m directly, bypassing the source. It supersedes
// any load in flight.
func (s *Session) Apply(ctx context.Context, m *hierarchy.Mapping) error {
	s.mu.Lock()
	defer s.flush()
	if s.closed {
		return ErrClosed
	}
	s.gen++
	s.err = nil
	s.install(ctx, m)
	return nil
}

// Restore installs a previously saved graph, manual positions included.
// file records where the graph came from and may be empty.
func (s *Session) Restore(g *hierarchy.Graph, file string) error {
	if g == nil {
		return fmt.Errorf("restore: nil graph")
	}
	s.mu.Lock()
	defer s.flush()
	if s.closed {
		return ErrClosed
	}
	s.gen++
	s.file = file
	s.err = nil
	s.ctrl.SetGraph(g.Clone())
	s.state = StateReady
	s.pending = append(s.pending, Event{Kind: EventGraph, State: s.state})
	return nil
}

// install swaps in the graph for m. Callers hold s.mu.
func (s *Session) install(ctx context.Context, m *hierarchy.Mapping) {
	start := time.Now()
	g := hierarchy.BuildAndLayout(m, s.spacing)
	observability.Session().OnBuild(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start))

	s.ctrl.SetGraph(g)
	s.state = StateReady
	s.pending = append(s.pending, Event{Kind: EventGraph, State: s.state})
	s.logger.Debug("built hierarchy graph", "file", s.file, "nodes", g.NodeCount(), "edges", g.EdgeCount())
}

// Pointer routes one pointer event to the drag controller and returns a copy
// of the affected node, or nil when the event was a no-op.
func (s *Session) Pointer(ev interact.PointerEvent) (*hierarchy.Node, error) {
	s.mu.Lock()
	defer s.flush()
	if s.closed {
		return nil, ErrClosed
	}

	var target string
	if d := s.ctrl.Active(); d != nil {
		target = d.Target()
	}
	if err := s.ctrl.HandlePointer(ev); err != nil {
		if errors.Is(err, hierarchy.ErrUnknownNode) {
			return nil, apperrors.Wrap(apperrors.ErrCodeNodeNotFound, err, "no node %q", ev.Node)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidEvent, err, "invalid pointer event")
	}
	if d := s.ctrl.Active(); d != nil {
		target = d.Target()
	}
	if target == "" {
		return nil, nil
	}
	n, ok := s.ctrl.Graph().Node(target)
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

// Release ends any drag in progress, as if the pointer had been released.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.flush()
	s.ctrl.Release()
}

// Status is a point-in-time copy of a session.
type Status struct {
	State      State
	File       string
	Err        error
	Generation uint64
	Active     string           // Node being dragged, if any
	Graph      *hierarchy.Graph // Deep copy; safe to read without the lock
	NodeSize   hierarchy.Size
}

// Status returns a copy of the session's current state and graph.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		State:      s.state,
		File:       s.file,
		Err:        s.err,
		Generation: s.gen,
		Graph:      s.ctrl.Graph().Clone(),
		NodeSize:   s.ctrl.Size(),
	}
	if d := s.ctrl.Active(); d != nil {
		st.Active = d.Target()
	}
	return st
}

// State returns the load state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Graph returns a copy of the current graph.
func (s *Session) Graph() *hierarchy.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Graph().Clone()
}

// Do runs fn with the live graph under the session lock. fn must not retain
// the graph or call back into the session.
func (s *Session) Do(fn func(g *hierarchy.Graph, size hierarchy.Size, active string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active string
	if d := s.ctrl.Active(); d != nil {
		active = d.Target()
	}
	fn(s.ctrl.Graph(), s.ctrl.Size(), active)
}

// Close ends the session. Any drag in progress is abandoned, and fetches
// still in flight are discarded when they complete. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.ctrl.SetGraph(s.ctrl.Graph())
	s.listeners = nil
	s.pending = nil
	return nil
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// setState records a state change. Callers hold s.mu.
func (s *Session) setState(st State) {
	if s.state == st {
		return
	}
	s.state = st
	s.pending = append(s.pending, Event{Kind: EventState, State: st})
}

// flush releases s.mu and then delivers pending events.
func (s *Session) flush() {
	events := s.pending
	s.pending = nil
	listeners := s.listeners
	s.mu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
