// Package nodelink exports positioned class hierarchies as Graphviz
// node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot, graphviz.NEATO)
//
// or in one step, for any export format:
//
//	png, err := nodelink.Export(g, render.FormatPNG, nodelink.Options{}, 2.0)
//
// # Positions
//
// By default each node is pinned at its current position (including manual
// drags) and rendered with the neato engine, so the exported picture matches
// the interactive one. With Options.Free the positions are dropped and the
// dot engine ranks the hierarchy top-down.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
