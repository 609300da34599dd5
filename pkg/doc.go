// Package pkg provides the core libraries for classview, an interactive
// viewer for class inheritance hierarchies.
//
// # Overview
//
// classview turns a mapping of class names to their direct subclasses into a
// layered graph, lays it out on a grid and lets users rearrange nodes by
// dragging them. The pkg directory is organized into these areas:
//
//  1. [hierarchy] - Domain model (mapping, graph building, grid layout)
//  2. [interact] - Pointer drag state machine
//  3. [render] - Scene geometry, terminal canvas and Graphviz export
//  4. [source] - Hierarchy sources (HTTP backend client, local files)
//  5. [view] - Sessions tying a source, a graph and a drag together
//  6. [pipeline] - Orchestration (fetch → build → render)
//  7. [cache], [store] - Infrastructure for fetched mappings and saved layouts
//
// # Architecture
//
// The typical data flow:
//
//	Backend / mapping file
//	         ↓
//	    [source] package (fetch the class → subclasses mapping)
//	         ↓
//	    [hierarchy] package (build graph, assign depth/slot, lay out)
//	         ↓
//	    [interact] + [view] packages (drag nodes, track session state)
//	         ↓
//	    [render] package (terminal canvas, SVG/DOT/PNG/PDF/JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/classview/pkg/hierarchy"
//	    "github.com/matzehuels/classview/pkg/render/nodelink"
//	)
//
//	m, _ := hierarchy.ReadMappingFile("zoo.hierarchy.json")
//	g := hierarchy.BuildAndLayout(m, hierarchy.Spacing{})
//	svg, _ := nodelink.Render(g, nodelink.Options{})
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/classview/pkg/hierarchy
// [interact]: https://pkg.go.dev/github.com/matzehuels/classview/pkg/interact
// [render]: https://pkg.go.dev/github.com/matzehuels/classview/pkg/render
// [source]: https://pkg.go.dev/github.com/matzehuels/classview/pkg/source
// [view]: https://pkg.go.dev/github.com/matzehuels/classview/pkg/view
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/classview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/classview/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/classview/pkg/store
package pkg
