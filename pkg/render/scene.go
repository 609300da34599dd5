package render

import "github.com/matzehuels/classview/pkg/hierarchy"

// Scene is a draw-ready snapshot of a graph for remote surfaces: node boxes
// plus resolved edge segments.
type Scene struct {
	NodeSize hierarchy.Size  `json:"node_size"`
	Min      hierarchy.Point `json:"min"`
	Max      hierarchy.Point `json:"max"`
	Nodes    []SceneNode     `json:"nodes"`
	Edges    []Segment       `json:"edges"`
}

// SceneNode is one positioned node box.
type SceneNode struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Depth    int             `json:"depth"`
	Position hierarchy.Point `json:"position"`
	Center   hierarchy.Point `json:"center"`
	Manual   bool            `json:"manual,omitempty"`
}

// NewScene captures the current state of g.
func NewScene(g *hierarchy.Graph, size hierarchy.Size) Scene {
	lo, hi := hierarchy.Bounds(g, size)
	s := Scene{
		NodeSize: size,
		Min:      lo,
		Max:      hi,
		Nodes:    make([]SceneNode, 0, g.NodeCount()),
		Edges:    Segments(g, size),
	}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, NewSceneNode(n, size))
	}
	return s
}

// NewSceneNode captures one node box.
func NewSceneNode(n *hierarchy.Node, size hierarchy.Size) SceneNode {
	return SceneNode{
		ID:       n.ID,
		Label:    n.Label,
		Depth:    n.Depth,
		Position: n.Position,
		Center:   Center(n, size),
		Manual:   n.Manual,
	}
}
