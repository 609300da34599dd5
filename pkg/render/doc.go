// Package render draws positioned class hierarchies.
//
// # Overview
//
// Nothing in a [hierarchy.Graph] stores edge coordinates. Every renderer in
// this package derives them on demand from the current node positions, so
// an edge follows its endpoints through any number of drags:
//
//   - [Center], [EdgeEndpoints], and [Segments] resolve edges to points
//   - [Scene] is a JSON-ready snapshot for remote surfaces
//   - [Canvas] draws the graph on a character grid for terminal surfaces
//   - [Convert] turns SVG into PDF or PNG via rsvg-convert
//
// Graphviz export with pinned node positions lives in the [nodelink]
// subpackage.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Size: hierarchy.DefaultNodeSize})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := render.Convert(svg, render.FormatPNG, 2.0)
//
// [nodelink]: github.com/matzehuels/classview/pkg/render/nodelink
package render
