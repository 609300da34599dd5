package render

import "github.com/matzehuels/classview/pkg/hierarchy"

// Center returns the center of a node's rendered box.
func Center(n *hierarchy.Node, size hierarchy.Size) hierarchy.Point {
	return n.Position.Add(size.Half())
}

// Segment is an edge resolved to drawable coordinates. It is derived from
// node positions at render time and never stored on the graph.
type Segment struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Target string          `json:"target"`
	From   hierarchy.Point `json:"from"`
	To     hierarchy.Point `json:"to"`
}

// EdgeEndpoints returns the current centers of an edge's source and target.
// ok is false when either endpoint is missing from g.
func EdgeEndpoints(g *hierarchy.Graph, e hierarchy.Edge, size hierarchy.Size) (from, to hierarchy.Point, ok bool) {
	src, ok := g.Node(e.Source)
	if !ok {
		return from, to, false
	}
	dst, ok := g.Node(e.Target)
	if !ok {
		return from, to, false
	}
	return Center(src, size), Center(dst, size), true
}

// Segments resolves every edge of g, in edge order.
func Segments(g *hierarchy.Graph, size hierarchy.Size) []Segment {
	edges := g.Edges()
	out := make([]Segment, 0, len(edges))
	for _, e := range edges {
		from, to, ok := EdgeEndpoints(g, e, size)
		if !ok {
			continue
		}
		out = append(out, Segment{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			From:   from,
			To:     to,
		})
	}
	return out
}

// NodeSegments resolves only the edges attached to node id. These are the
// segments a surface must redraw after the node moves.
func NodeSegments(g *hierarchy.Graph, size hierarchy.Size, id string) []Segment {
	var out []Segment
	for _, e := range g.Edges() {
		if e.Source != id && e.Target != id {
			continue
		}
		from, to, ok := EdgeEndpoints(g, e, size)
		if !ok {
			continue
		}
		out = append(out, Segment{ID: e.ID, Source: e.Source, Target: e.Target, From: from, To: to})
	}
	return out
}
