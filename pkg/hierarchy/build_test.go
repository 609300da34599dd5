package hierarchy

import (
	"slices"
	"testing"
)

func nodeIDs(g *Graph) []string {
	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}

func edgePairs(g *Graph) [][2]string {
	var pairs [][2]string
	for _, e := range g.Edges() {
		pairs = append(pairs, [2]string{e.Source, e.Target})
	}
	return pairs
}

func diamond() *Mapping {
	return MappingOf(
		Entry{Name: "A", Children: []string{"B", "C"}},
		Entry{Name: "B", Children: []string{"D"}},
		Entry{Name: "C", Children: []string{"D"}},
	)
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		mapping   *Mapping
		wantNodes []string
		wantEdges [][2]string
	}{
		{
			name:      "Nil",
			mapping:   nil,
			wantNodes: nil,
			wantEdges: nil,
		},
		{
			name:      "Empty",
			mapping:   NewMapping(),
			wantNodes: nil,
			wantEdges: nil,
		},
		{
			name: "SingleRoot",
			mapping: MappingOf(
				Entry{Name: "A", Children: []string{"B", "C"}},
				Entry{Name: "B"},
				Entry{Name: "C"},
			),
			wantNodes: []string{"A", "B", "C"},
			wantEdges: [][2]string{{"A", "B"}, {"A", "C"}},
		},
		{
			name:      "Diamond",
			mapping:   diamond(),
			wantNodes: []string{"A", "B", "C", "D"},
			wantEdges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
		},
		{
			name:      "SelfLoopOnly",
			mapping:   MappingOf(Entry{Name: "A", Children: []string{"A"}}),
			wantNodes: nil,
			wantEdges: nil,
		},
		{
			name: "TotalCycle",
			mapping: MappingOf(
				Entry{Name: "A", Children: []string{"B"}},
				Entry{Name: "B", Children: []string{"A"}},
			),
			wantNodes: nil,
			wantEdges: nil,
		},
		{
			name: "CycleBelowRoot",
			mapping: MappingOf(
				Entry{Name: "R", Children: []string{"A"}},
				Entry{Name: "A", Children: []string{"B"}},
				Entry{Name: "B", Children: []string{"A"}},
			),
			wantNodes: []string{"R", "A", "B"},
			wantEdges: [][2]string{{"R", "A"}, {"A", "B"}, {"B", "A"}},
		},
		{
			name: "SelfLoopBelowRoot",
			mapping: MappingOf(
				Entry{Name: "R", Children: []string{"A"}},
				Entry{Name: "A", Children: []string{"A"}},
			),
			wantNodes: []string{"R", "A"},
			wantEdges: [][2]string{{"R", "A"}, {"A", "A"}},
		},
		{
			name:      "LeafWithoutEntry",
			mapping:   MappingOf(Entry{Name: "A", Children: []string{"X"}}),
			wantNodes: []string{"A", "X"},
			wantEdges: [][2]string{{"A", "X"}},
		},
		{
			name: "DuplicateChildInList",
			mapping: MappingOf(
				Entry{Name: "A", Children: []string{"B", "B"}},
			),
			wantNodes: []string{"A", "B"},
			wantEdges: [][2]string{{"A", "B"}, {"A", "B"}},
		},
		{
			name: "MultipleRoots",
			mapping: MappingOf(
				Entry{Name: "A", Children: []string{"C"}},
				Entry{Name: "B", Children: []string{"C"}},
			),
			wantNodes: []string{"A", "B", "C"},
			wantEdges: [][2]string{{"A", "C"}, {"B", "C"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.mapping)
			if got := nodeIDs(g); !slices.Equal(got, tt.wantNodes) {
				t.Errorf("nodes = %v, want %v", got, tt.wantNodes)
			}
			if got := edgePairs(g); !slices.Equal(got, tt.wantEdges) {
				t.Errorf("edges = %v, want %v", got, tt.wantEdges)
			}
		})
	}
}

func TestBuildDepths(t *testing.T) {
	tests := []struct {
		name    string
		mapping *Mapping
		want    map[string]int
	}{
		{
			name:    "Diamond",
			mapping: diamond(),
			want:    map[string]int{"A": 0, "B": 1, "C": 1, "D": 2},
		},
		{
			name:    "LeafWithoutEntry",
			mapping: MappingOf(Entry{Name: "A", Children: []string{"X"}}),
			want:    map[string]int{"A": 0, "X": 1},
		},
		{
			name: "FirstDiscoveryWins",
			mapping: MappingOf(
				Entry{Name: "R", Children: []string{"A", "D"}},
				Entry{Name: "A", Children: []string{"B"}},
				Entry{Name: "B", Children: []string{"D"}},
			),
			want: map[string]int{"R": 0, "A": 1, "D": 1, "B": 2},
		},
		{
			name: "SelfLoopBelowRoot",
			mapping: MappingOf(
				Entry{Name: "R", Children: []string{"A"}},
				Entry{Name: "A", Children: []string{"A"}},
			),
			want: map[string]int{"R": 0, "A": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.mapping)
			if g.NodeCount() != len(tt.want) {
				t.Fatalf("NodeCount() = %d, want %d", g.NodeCount(), len(tt.want))
			}
			for id, depth := range tt.want {
				n, ok := g.Node(id)
				if !ok {
					t.Errorf("node %s missing", id)
					continue
				}
				if n.Depth != depth {
					t.Errorf("depth(%s) = %d, want %d", id, n.Depth, depth)
				}
			}
		})
	}
}

func TestBuildSlots(t *testing.T) {
	m := MappingOf(
		Entry{Name: "R1", Children: []string{"A", "B"}},
		Entry{Name: "R2", Children: []string{"C"}},
		Entry{Name: "B", Children: []string{"E", "F"}},
	)
	g := Build(m)

	want := map[string]int{"R1": 0, "R2": 1, "A": 0, "B": 1, "C": 1, "E": 1, "F": 2}
	for id, slot := range want {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("node %s missing", id)
		}
		if n.Slot != slot {
			t.Errorf("slot(%s) = %d, want %d", id, n.Slot, slot)
		}
	}
}

func TestBuildEdgeIDs(t *testing.T) {
	g := Build(diamond())
	want := []string{"edge-A-B", "edge-A-C", "edge-B-D", "edge-C-D"}
	var got []string
	for _, e := range g.Edges() {
		got = append(got, e.ID)
	}
	if !slices.Equal(got, want) {
		t.Errorf("edge IDs = %v, want %v", got, want)
	}
}

func TestBuildLabels(t *testing.T) {
	g := Build(diamond())
	for _, n := range g.Nodes() {
		if n.Label != n.ID {
			t.Errorf("label(%s) = %q, want class name", n.ID, n.Label)
		}
	}
}

func TestBuildDoesNotModifyMapping(t *testing.T) {
	m := diamond()
	before := m.Entries()
	Build(m)
	after := m.Entries()
	if len(before) != len(after) {
		t.Fatalf("entries changed: %v -> %v", before, after)
	}
	for i := range before {
		if before[i].Name != after[i].Name || !slices.Equal(before[i].Children, after[i].Children) {
			t.Errorf("entry %d changed: %v -> %v", i, before[i], after[i])
		}
	}
}
