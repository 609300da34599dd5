package interact

import (
	"errors"
	"fmt"

	"github.com/matzehuels/classview/pkg/hierarchy"
)

var (
	// ErrNotDispatcher is returned by [Controller.HandlePointer] for move and
	// release events when the controller's surface cannot be fed directly.
	ErrNotDispatcher = errors.New("surface does not accept dispatched events")

	// ErrUnknownEvent is returned for pointer events of an unknown type.
	ErrUnknownEvent = errors.New("unknown pointer event type")
)

// EventType is the kind of a [PointerEvent].
type EventType string

// Pointer event types.
const (
	PointerDown EventType = "down"
	PointerMove EventType = "move"
	PointerUp   EventType = "up"
)

// PointerEvent is a pointer input in surface coordinates. Node names the
// pressed node for down events; when empty, the node under (X, Y) is used.
type PointerEvent struct {
	Type EventType `json:"type"`
	Node string    `json:"node,omitempty"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Point returns the event position.
func (e PointerEvent) Point() hierarchy.Point {
	return hierarchy.Point{X: e.X, Y: e.Y}
}

// Controller turns pointer input on a rendered graph into node position
// updates. At most one node is dragged at a time.
//
// A Controller is not safe for concurrent use. Its listeners run
// synchronously inside the surface's dispatch, so callers that share the
// graph must hold the same lock around press, dispatch, and reads.
type Controller struct {
	graph   *hierarchy.Graph
	surface Surface
	size    hierarchy.Size

	active  *DragSession
	commits []func(hierarchy.Node)
}

// NewController returns a controller for g on surface s. Zero size fields
// fall back to [hierarchy.DefaultNodeSize].
func NewController(g *hierarchy.Graph, s Surface, size hierarchy.Size) *Controller {
	if size.Width == 0 {
		size.Width = hierarchy.DefaultNodeSize.Width
	}
	if size.Height == 0 {
		size.Height = hierarchy.DefaultNodeSize.Height
	}
	if g == nil {
		g = hierarchy.NewGraph()
	}
	return &Controller{graph: g, surface: s, size: size}
}

// Graph returns the graph being manipulated.
func (c *Controller) Graph() *hierarchy.Graph { return c.graph }

// Size returns the rendered node size.
func (c *Controller) Size() hierarchy.Size { return c.size }

// SetGraph replaces the graph. An active drag is abandoned without
// committing, since its node belongs to the old graph.
func (c *Controller) SetGraph(g *hierarchy.Graph) {
	if c.active != nil {
		c.active.detach()
		c.active = nil
	}
	if g == nil {
		g = hierarchy.NewGraph()
	}
	c.graph = g
}

// OnCommit registers fn to run whenever a drag ends by release. fn
// receives a copy of the node in its final, manually positioned state.
func (c *Controller) OnCommit(fn func(hierarchy.Node)) {
	c.commits = append(c.commits, fn)
}

// Active returns the current drag session, or nil when nothing is dragged.
func (c *Controller) Active() *DragSession { return c.active }

// Press starts dragging the node with the given ID. A drag already in
// progress is ended first, exactly as if it had been released.
func (c *Controller) Press(id string) (*DragSession, error) {
	n, ok := c.graph.Node(id)
	if !ok {
		return nil, fmt.Errorf("press %q: %w", id, hierarchy.ErrUnknownNode)
	}
	if c.active != nil {
		c.active.end()
	}

	d := &DragSession{ctrl: c, node: n, start: n.Position}
	d.removeMove = c.surface.OnMove(d.move)
	d.removeRelease = c.surface.OnRelease(func(hierarchy.Point) { d.end() })
	c.active = d
	return d, nil
}

// Release ends the active drag, if any. It is used when the surface loses
// the pointer without a release event (a closed connection, a lost window).
func (c *Controller) Release() {
	if c.active != nil {
		c.active.end()
	}
}

// HandlePointer routes one pointer event. Down events press the named node,
// or the topmost node under the pointer; a down event that hits nothing is a
// no-op. Move and release events are dispatched through the surface, which
// must be a [Dispatcher].
func (c *Controller) HandlePointer(ev PointerEvent) error {
	switch ev.Type {
	case PointerDown:
		id := ev.Node
		if id == "" {
			n, ok := c.graph.NodeAt(ev.Point(), c.size)
			if !ok {
				return nil
			}
			id = n.ID
		}
		_, err := c.Press(id)
		return err
	case PointerMove, PointerUp:
		d, ok := c.surface.(Dispatcher)
		if !ok {
			return ErrNotDispatcher
		}
		if ev.Type == PointerMove {
			d.Move(ev.Point())
		} else {
			d.Release(ev.Point())
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

func (c *Controller) commit(n hierarchy.Node) {
	for _, fn := range c.commits {
		fn(n)
	}
}
