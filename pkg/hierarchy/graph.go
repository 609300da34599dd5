package hierarchy

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Class names identify nodes uniquely.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an operation names a node that is not
	// part of the graph (an edge endpoint, a drag target, a move).
	ErrUnknownNode = errors.New("unknown node")
)

// Point is a 2-D coordinate in layout units (pixels on the default surface).
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Node is one class in the hierarchy graph.
type Node struct {
	ID    string // Class name, unique within a graph
	Label string // Display label (the class name)

	// Depth is the layer the node occupies: its breadth-first distance from
	// the root that discovered it first. Fixed at first discovery.
	Depth int

	// Slot is the horizontal traversal hint in units of horizontal spacing.
	// Roots take their index; children take the parent's slot plus their
	// index in the parent's child list.
	Slot int

	Position Point // Top-left corner of the rendered node
	Manual   bool  // Position was set by the user and overrides the layout
}

// Edge is a directed parent→child relationship. Edges carry no coordinates:
// endpoints are derived from node positions whenever they are drawn.
type Edge struct {
	ID     string
	Source string
	Target string
}

// EdgeID derives an edge identifier from its endpoints.
func EdgeID(source, target string) string {
	return "edge-" + source + "-" + target
}

// Graph is the positioned class hierarchy owned by one visualization session.
// Nodes keep their creation order, which is also their drawing order.
//
// The zero value is not usable; use [NewGraph] or [Build].
type Graph struct {
	nodes []*Node
	index map[string]*Node
	edges []Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

// AddNode adds a node. The label defaults to the ID.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.index[n.ID] = node
	return nil
}

// AddEdge appends an edge between two existing nodes. Parallel edges are
// allowed. The edge ID is derived from the endpoints when empty.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.Source]; !ok {
		return ErrUnknownNode
	}
	if _, ok := g.index[e.Target]; !ok {
		return ErrUnknownNode
	}
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.Target)
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given ID. The pointer refers to the node
// stored in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns all nodes in creation order. The pointers refer to the
// graph's nodes; the slice itself is a copy.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in creation order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return len(g.nodes) == 0 }

// Children returns the targets of edges leaving id, in edge order.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Parents returns the sources of edges entering id, in edge order.
func (g *Graph) Parents(id string) []string {
	var out []string
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e.Source)
		}
	}
	return out
}

// MaxDepth returns the deepest layer, or -1 for an empty graph.
func (g *Graph) MaxDepth() int {
	depth := -1
	for _, n := range g.nodes {
		depth = max(depth, n.Depth)
	}
	return depth
}

// NodesAtDepth returns the nodes on one layer in creation order.
func (g *Graph) NodesAtDepth(depth int) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Depth == depth {
			out = append(out, n)
		}
	}
	return out
}

// MoveNode sets a node's position without touching any other node.
func (g *Graph) MoveNode(id string, p Point) error {
	n, ok := g.index[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Position = p
	return nil
}

// NodeAt returns the topmost node whose rendered box of the given size
// contains p. Later nodes are drawn on top of earlier ones.
func (g *Graph) NodeAt(p Point, size Size) (*Node, bool) {
	for i := len(g.nodes) - 1; i >= 0; i-- {
		n := g.nodes[i]
		if p.X >= n.Position.X && p.X <= n.Position.X+size.Width &&
			p.Y >= n.Position.Y && p.Y <= n.Position.Y+size.Height {
			return n, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		nodes: make([]*Node, len(g.nodes)),
		index: make(map[string]*Node, len(g.nodes)),
		edges: slices.Clone(g.edges),
	}
	for i, n := range g.nodes {
		cp := *n
		out.nodes[i] = &cp
		out.index[cp.ID] = &cp
	}
	return out
}
