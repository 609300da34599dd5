package hierarchy

// Build converts a mapping into a graph of deduplicated nodes and one edge per
// parent/child pair. Positions are left at the origin; run [Layout] (or use
// [BuildAndLayout]) to place the nodes.
//
// # Algorithm
//
// Build performs a breadth-first traversal from the mapping's roots:
//  1. Roots are the keys never listed as a child, in key order. Each root is
//     queued at depth 0 with its root index as slot.
//  2. Dequeue in FIFO order. Create the node if it does not exist yet; an
//     existing node keeps the depth and slot of its first discovery.
//  3. For every child of the dequeued name, in list order, append an edge
//     unconditionally. A child without an assigned depth is queued at
//     depth+1 with slot = parent slot + child index and is marked visited
//     immediately, so no name is ever queued twice.
//
// Names that appear only as children become leaves. A self-listing root gets
// a self-loop edge but no second node. Build terminates on any input, cyclic
// or not, because of the visited set.
//
// A nil or empty mapping, or one whose keys all appear as children, yields an
// empty graph.
//
// Build is a pure function of the mapping: the same input always produces the
// same nodes, slots, and edge order.
func Build(m *Mapping) *Graph {
	g := NewGraph()
	if m.Len() == 0 {
		return g
	}

	type item struct {
		name  string
		depth int
		slot  int
	}

	roots := m.Roots()
	queue := make([]item, 0, len(roots))
	visited := make(map[string]struct{}, m.Len())

	for i, root := range roots {
		queue = append(queue, item{name: root, depth: 0, slot: i})
		visited[root] = struct{}{}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, exists := g.index[cur.name]; !exists {
			_ = g.AddNode(Node{ID: cur.name, Depth: cur.depth, Slot: cur.slot})
		}

		for idx, child := range m.Children(cur.name) {
			g.edges = append(g.edges, Edge{
				ID:     EdgeID(cur.name, child),
				Source: cur.name,
				Target: child,
			})
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			queue = append(queue, item{name: child, depth: cur.depth + 1, slot: cur.slot + idx})
		}
	}

	return g
}
