package render

import (
	"testing"

	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/interact"
)

func animalGraph() *hierarchy.Graph {
	m := hierarchy.MappingOf(
		hierarchy.Entry{Name: "A", Children: []string{"B", "C"}},
	)
	return hierarchy.BuildAndLayout(m, hierarchy.DefaultSpacing)
}

func TestSegments(t *testing.T) {
	g := animalGraph()
	segs := Segments(g, hierarchy.DefaultNodeSize)
	if len(segs) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(segs))
	}
	want := Segment{
		ID:     "edge-A-C",
		Source: "A",
		Target: "C",
		From:   hierarchy.Point{X: 64, Y: 64},
		To:     hierarchy.Point{X: 244, Y: 164},
	}
	if segs[1] != want {
		t.Errorf("Segments()[1] = %+v, want %+v", segs[1], want)
	}
}

func TestEdgeFollowsDraggedNode(t *testing.T) {
	g := animalGraph()
	surface := interact.NewEventSurface()
	ctrl := interact.NewController(g, surface, hierarchy.DefaultNodeSize)

	if _, err := ctrl.Press("B"); err != nil {
		t.Fatal(err)
	}
	surface.Move(hierarchy.Point{X: 300, Y: 300})

	edge := g.Edges()[0]
	from, to, ok := EdgeEndpoints(g, edge, hierarchy.DefaultNodeSize)
	if !ok {
		t.Fatal("EdgeEndpoints not resolved")
	}
	if to != (hierarchy.Point{X: 300, Y: 300}) {
		t.Errorf("A→B target = %v, want B's new center (300,300)", to)
	}
	if from != (hierarchy.Point{X: 64, Y: 64}) {
		t.Errorf("A→B source = %v, want (64,64)", from)
	}
}

func TestEdgeEndpointsMissingNode(t *testing.T) {
	g := animalGraph()
	_, _, ok := EdgeEndpoints(g, hierarchy.Edge{Source: "A", Target: "Z"}, hierarchy.DefaultNodeSize)
	if ok {
		t.Error("expected unresolved edge")
	}
}

func TestNewScene(t *testing.T) {
	g := animalGraph()
	n, _ := g.Node("C")
	n.Manual = true

	s := NewScene(g, hierarchy.DefaultNodeSize)
	if len(s.Nodes) != 3 || len(s.Edges) != 2 {
		t.Fatalf("scene has %d nodes, %d edges", len(s.Nodes), len(s.Edges))
	}
	if s.Max != (hierarchy.Point{X: 308, Y: 228}) {
		t.Errorf("Max = %v, want (308,228)", s.Max)
	}
	if !s.Nodes[2].Manual || s.Nodes[2].Center != (hierarchy.Point{X: 244, Y: 164}) {
		t.Errorf("C = %+v", s.Nodes[2])
	}
}

func TestNodeSegments(t *testing.T) {
	g := animalGraph()
	if got := NodeSegments(g, hierarchy.DefaultNodeSize, "A"); len(got) != 2 {
		t.Errorf("NodeSegments(A) = %d segments, want 2", len(got))
	}
	got := NodeSegments(g, hierarchy.DefaultNodeSize, "C")
	if len(got) != 1 || got[0].ID != "edge-A-C" {
		t.Errorf("NodeSegments(C) = %+v", got)
	}
	if got := NodeSegments(g, hierarchy.DefaultNodeSize, "Z"); len(got) != 0 {
		t.Errorf("NodeSegments(Z) = %+v", got)
	}
}
