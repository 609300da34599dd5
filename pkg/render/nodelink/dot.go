package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/render"
)

// pointsPerInch is Graphviz's unit conversion for node sizes.
const pointsPerInch = 72

// Options configures node-link diagram rendering.
type Options struct {
	// Size is the rendered node box. Zero fields use hierarchy.DefaultNodeSize.
	Size hierarchy.Size

	// Detailed adds depth and slot to node labels.
	Detailed bool

	// Free ignores stored positions and lets Graphviz rank the nodes
	// top-down instead. Manually dragged nodes lose their placement.
	Free bool
}

func (o Options) size() hierarchy.Size {
	s := o.Size
	if s.Width == 0 {
		s.Width = hierarchy.DefaultNodeSize.Width
	}
	if s.Height == 0 {
		s.Height = hierarchy.DefaultNodeSize.Height
	}
	return s
}

// Layout returns the Graphviz engine matching the options: neato for pinned
// positions, dot for free ranking.
func (o Options) Layout() graphviz.Layout {
	if o.Free {
		return graphviz.DOT
	}
	return graphviz.NEATO
}

// ToDOT converts a positioned graph to Graphviz DOT source.
//
// By default every node is pinned at its layout (or dragged) position, so
// the output matches what an interactive surface shows. Graphviz's y axis
// points up, so y coordinates are negated. Manually positioned nodes are
// drawn with a dashed outline.
func ToDOT(g *hierarchy.Graph, opts Options) string {
	size := opts.size()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Free {
		buf.WriteString("  rankdir=TB;\n")
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
	} else {
		fmt.Fprintf(&buf, "  inputscale=%d;\n", pointsPerInch)
		buf.WriteString("  splines=line;\n")
	}
	fmt.Fprintf(&buf,
		"  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, fixedsize=true, width=%s, height=%s];\n",
		inches(size.Width), inches(size.Height))
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(n, size, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [id=%q];\n", e.Source, e.Target, e.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *hierarchy.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\ndepth: %d\nslot: %d", n.Label, n.Depth, n.Slot)
}

func fmtAttrs(n *hierarchy.Node, size hierarchy.Size, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if !opts.Free {
		c := render.Center(n, size)
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(-c.Y)))
	}
	if n.Manual {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func inches(px float64) string { return num(px / pointsPerInch) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Render builds DOT for g and renders it to SVG with the engine the options
// call for.
func Render(g *hierarchy.Graph, opts Options) ([]byte, error) {
	return RenderSVG(ToDOT(g, opts), opts.Layout())
}

// RenderSVG renders DOT source to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.Convert].
func RenderSVG(dot string, layout graphviz.Layout) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(layout)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag to a zero-origin viewBox with
// explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// Export renders g in any [render.Format]. DOT is returned as source text.
func Export(g *hierarchy.Graph, f render.Format, opts Options, scale float64) ([]byte, error) {
	if f == render.FormatDOT {
		return []byte(ToDOT(g, opts)), nil
	}
	svg, err := Render(g, opts)
	if err != nil {
		return nil, err
	}
	return render.Convert(svg, f, scale)
}
