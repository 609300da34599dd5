package hierarchy

// Spacing separates layers vertically and siblings horizontally.
type Spacing struct {
	Horizontal float64 `json:"horizontal" koanf:"horizontal"`
	Vertical   float64 `json:"vertical" koanf:"vertical"`
}

// DefaultSpacing is the spacing used by the class explorer.
var DefaultSpacing = Spacing{Horizontal: 180, Vertical: 100}

// Size is the rendered size of a node box.
type Size struct {
	Width  float64 `json:"width" koanf:"width"`
	Height float64 `json:"height" koanf:"height"`
}

// DefaultNodeSize is a 128×128 box.
var DefaultNodeSize = Size{Width: 128, Height: 128}

// Half returns the offset from a node's top-left corner to its center.
func (s Size) Half() Point { return Point{X: s.Width / 2, Y: s.Height / 2} }

// withDefaults fills zero fields from the defaults.
func (sp Spacing) withDefaults() Spacing {
	if sp.Horizontal == 0 {
		sp.Horizontal = DefaultSpacing.Horizontal
	}
	if sp.Vertical == 0 {
		sp.Vertical = DefaultSpacing.Vertical
	}
	return sp
}

// Position returns the layout position for a depth and slot.
func (sp Spacing) Position(depth, slot int) Point {
	sp = sp.withDefaults()
	return Point{
		X: float64(slot) * sp.Horizontal,
		Y: float64(depth) * sp.Vertical,
	}
}

// Layout places every node at (slot × horizontal, depth × vertical).
// Manually positioned nodes are skipped. Zero spacing fields fall back to
// [DefaultSpacing].
//
// Layout performs no collision resolution: siblings that reach the same slot
// through different parents overlap.
func Layout(g *Graph, sp Spacing) {
	for _, n := range g.nodes {
		if n.Manual {
			continue
		}
		n.Position = sp.Position(n.Depth, n.Slot)
	}
}

// BuildAndLayout builds the graph for m and lays it out in one step.
func BuildAndLayout(m *Mapping, sp Spacing) *Graph {
	g := Build(m)
	Layout(g, sp)
	return g
}

// Bounds returns the smallest rectangle containing every node box.
// Both corners are the origin for an empty graph.
func Bounds(g *Graph, size Size) (topLeft, bottomRight Point) {
	for i, n := range g.nodes {
		lo := n.Position
		hi := n.Position.Add(Point{X: size.Width, Y: size.Height})
		if i == 0 {
			topLeft, bottomRight = lo, hi
			continue
		}
		topLeft = Point{X: min(topLeft.X, lo.X), Y: min(topLeft.Y, lo.Y)}
		bottomRight = Point{X: max(bottomRight.X, hi.X), Y: max(bottomRight.Y, hi.Y)}
	}
	return topLeft, bottomRight
}
