package render

import (
	"math"
	"strings"

	"github.com/matzehuels/classview/pkg/hierarchy"
)

// CellKind classifies a canvas cell so front ends can style it.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellEdge
	CellBorder
	CellLabel
	CellActive // border of the highlighted node
)

// Viewport maps layout coordinates onto a character grid.
type Viewport struct {
	Origin     hierarchy.Point // layout coordinate of the top-left cell
	CellWidth  float64         // layout units per column
	CellHeight float64         // layout units per row
}

// DefaultViewport fits a 128×128 node into 16 columns by 8 rows.
var DefaultViewport = Viewport{CellWidth: 8, CellHeight: 16}

func (v Viewport) withDefaults() Viewport {
	if v.CellWidth <= 0 {
		v.CellWidth = DefaultViewport.CellWidth
	}
	if v.CellHeight <= 0 {
		v.CellHeight = DefaultViewport.CellHeight
	}
	return v
}

// Cell returns the grid cell containing layout point p.
func (v Viewport) Cell(p hierarchy.Point) (col, row int) {
	v = v.withDefaults()
	col = int(math.Floor((p.X - v.Origin.X) / v.CellWidth))
	row = int(math.Floor((p.Y - v.Origin.Y) / v.CellHeight))
	return col, row
}

// Point returns the layout coordinate at the center of a grid cell.
func (v Viewport) Point(col, row int) hierarchy.Point {
	v = v.withDefaults()
	return hierarchy.Point{
		X: v.Origin.X + (float64(col)+0.5)*v.CellWidth,
		Y: v.Origin.Y + (float64(row)+0.5)*v.CellHeight,
	}
}

// Pan returns the viewport shifted by a number of cells.
func (v Viewport) Pan(cols, rows int) Viewport {
	v = v.withDefaults()
	v.Origin.X += float64(cols) * v.CellWidth
	v.Origin.Y += float64(rows) * v.CellHeight
	return v
}

// boxCells returns the box extent of a node size in cells, at least 3×3 so
// borders and a label row always fit.
func (v Viewport) boxCells(size hierarchy.Size) (w, h int) {
	v = v.withDefaults()
	w = max(3, int(math.Round(size.Width/v.CellWidth)))
	h = max(3, int(math.Round(size.Height/v.CellHeight)))
	return w, h
}

// Canvas is a character grid the terminal surface draws graphs on.
type Canvas struct {
	width  int
	height int
	runes  [][]rune
	kinds  [][]CellKind
}

// NewCanvas returns a blank canvas of the given size in cells.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	c := &Canvas{width: width, height: height}
	c.runes = make([][]rune, height)
	c.kinds = make([][]CellKind, height)
	for r := range height {
		c.runes[r] = []rune(strings.Repeat(" ", width))
		c.kinds[r] = make([]CellKind, width)
	}
	return c
}

// Width returns the number of columns.
func (c *Canvas) Width() int { return c.width }

// Height returns the number of rows.
func (c *Canvas) Height() int { return c.height }

// Draw paints g: edges first, then node boxes in drawing order so later
// nodes cover earlier ones, matching hit-testing. The node named by active
// gets a distinct border.
func (c *Canvas) Draw(g *hierarchy.Graph, size hierarchy.Size, vp Viewport, active string) {
	for _, s := range Segments(g, size) {
		c0, r0 := vp.Cell(s.From)
		c1, r1 := vp.Cell(s.To)
		c.line(c0, r0, c1, r1)
	}
	w, h := vp.boxCells(size)
	for _, n := range g.Nodes() {
		col, row := vp.Cell(n.Position)
		c.box(col, row, w, h, n.Label, n.ID == active)
	}
}

// line draws a Bresenham line of edge cells.
func (c *Canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for {
		c.set(x0, y0, '·', CellEdge)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) box(col, row, w, h int, label string, active bool) {
	kind := CellBorder
	if active {
		kind = CellActive
	}
	right, bottom := col+w-1, row+h-1

	for r := row; r <= bottom; r++ {
		for x := col; x <= right; x++ {
			var ch rune
			switch {
			case r == row && x == col:
				ch = '┌'
			case r == row && x == right:
				ch = '┐'
			case r == bottom && x == col:
				ch = '└'
			case r == bottom && x == right:
				ch = '┘'
			case r == row || r == bottom:
				ch = '─'
			case x == col || x == right:
				ch = '│'
			default:
				c.set(x, r, ' ', CellEmpty)
				continue
			}
			c.set(x, r, ch, kind)
		}
	}

	text := []rune(label)
	if inner := w - 2; len(text) > inner {
		if inner > 1 {
			text = append(text[:inner-1], '…')
		} else {
			text = text[:inner]
		}
	}
	mid := row + h/2
	start := col + 1 + (w-2-len(text))/2
	for i, ch := range text {
		c.set(start+i, mid, ch, CellLabel)
	}
}

func (c *Canvas) set(col, row int, ch rune, kind CellKind) {
	if row < 0 || row >= c.height || col < 0 || col >= c.width {
		return
	}
	c.runes[row][col] = ch
	c.kinds[row][col] = kind
}

// At returns the rune and kind of a cell. Out-of-range cells are empty.
func (c *Canvas) At(col, row int) (rune, CellKind) {
	if row < 0 || row >= c.height || col < 0 || col >= c.width {
		return ' ', CellEmpty
	}
	return c.runes[row][col], c.kinds[row][col]
}

// String returns the canvas as plain text, one line per row.
func (c *Canvas) String() string {
	return c.Render(nil)
}

// Render returns the canvas text with each run of same-kind cells passed
// through style. A nil style returns plain text.
func (c *Canvas) Render(style func(CellKind, string) string) string {
	var b strings.Builder
	for r := range c.height {
		if r > 0 {
			b.WriteByte('\n')
		}
		if style == nil {
			b.WriteString(string(c.runes[r]))
			continue
		}
		start := 0
		for x := 1; x <= c.width; x++ {
			if x < c.width && c.kinds[r][x] == c.kinds[r][start] {
				continue
			}
			b.WriteString(style(c.kinds[r][start], string(c.runes[r][start:x])))
			start = x
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
