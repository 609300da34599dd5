package interact

import (
	"slices"
	"sync"

	"github.com/matzehuels/classview/pkg/hierarchy"
)

// Surface is the interactive area a graph is drawn on. Listeners registered
// on it receive pointer input anywhere on the surface, not only over a node.
//
// Both registration methods return a function that removes the listener.
// Calling it more than once is harmless.
type Surface interface {
	OnMove(fn func(hierarchy.Point)) (remove func())
	OnRelease(fn func(hierarchy.Point)) (remove func())
}

// Dispatcher is a [Surface] that can be fed pointer input directly. Remote
// and terminal front ends translate their native events into Move and
// Release calls.
type Dispatcher interface {
	Surface
	Move(p hierarchy.Point)
	Release(p hierarchy.Point)
}

type listener struct {
	id int
	fn func(hierarchy.Point)
}

// EventSurface is an in-process [Dispatcher]. It is safe for concurrent use;
// listeners run on the goroutine that calls Move or Release.
type EventSurface struct {
	mu      sync.Mutex
	nextID  int
	move    []listener
	release []listener
}

// NewEventSurface returns a surface with no listeners.
func NewEventSurface() *EventSurface {
	return &EventSurface{}
}

// OnMove registers fn for pointer movement.
func (s *EventSurface) OnMove(fn func(hierarchy.Point)) func() {
	return s.add(&s.move, fn)
}

// OnRelease registers fn for pointer release.
func (s *EventSurface) OnRelease(fn func(hierarchy.Point)) func() {
	return s.add(&s.release, fn)
}

// Move dispatches a pointer movement to the current move listeners.
func (s *EventSurface) Move(p hierarchy.Point) {
	for _, fn := range s.snapshot(&s.move) {
		fn(p)
	}
}

// Release dispatches a pointer release to the current release listeners.
func (s *EventSurface) Release(p hierarchy.Point) {
	for _, fn := range s.snapshot(&s.release) {
		fn(p)
	}
}

// Listeners returns the number of registered listeners of both kinds.
func (s *EventSurface) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.move) + len(s.release)
}

func (s *EventSurface) add(list *[]listener, fn func(hierarchy.Point)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	*list = append(*list, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			*list = slices.DeleteFunc(*list, func(l listener) bool { return l.id == id })
		})
	}
}

// snapshot copies the listener functions so listeners may unregister
// themselves while being dispatched.
func (s *EventSurface) snapshot(list *[]listener) []func(hierarchy.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(hierarchy.Point), len(*list))
	for i, l := range *list {
		out[i] = l.fn
	}
	return out
}
