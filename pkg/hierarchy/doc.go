// Package hierarchy turns class hierarchies into positioned graphs.
//
// # Overview
//
// The analysis backend describes a source file's classes as a [Mapping]: each
// class name maps to the ordered list of its direct children (subclasses).
// This package converts that mapping into a [Graph] of deduplicated nodes and
// directed edges, and assigns every node an initial 2-D position in a
// top-down layered layout.
//
// # Building
//
// [Build] walks the mapping breadth-first from its roots (keys that are never
// listed as anyone's child) and tags every node with the depth at which it was
// first discovered:
//
//	m := hierarchy.MappingOf(
//	    hierarchy.Entry{Name: "A", Children: []string{"B", "C"}},
//	    hierarchy.Entry{Name: "B", Children: []string{"D"}},
//	    hierarchy.Entry{Name: "C", Children: []string{"D"}},
//	)
//	g := hierarchy.Build(m)        // nodes A B C D, edges A→B A→C B→D C→D
//	hierarchy.Layout(g, hierarchy.DefaultSpacing)
//
// Nodes are created once per distinct class name. Edges are created for every
// parent/child pair in the mapping and are never deduplicated, so diamond
// inheritance yields one node with several incoming edges.
//
// A mapping without roots (empty, or where every key is someone's child)
// produces an empty graph. Cyclic hierarchies therefore render nothing; this
// follows directly from the root rule and is not special-cased.
//
// # Layout
//
// [Layout] maps a node's depth and traversal slot to coordinates using fixed
// [Spacing]. Siblings reached through different parents may share a slot and
// overlap; no collision resolution is performed. Nodes flagged as manually
// positioned are left where the user put them.
//
// # Serialization
//
// Mappings decode from JSON, YAML, and TOML documents while preserving key
// order ([ReadMapping], [ReadMappingFile]). Graphs round-trip through a
// node/edge JSON format ([WriteGraph], [ReadGraph]) whose wire types
// ([GraphData]) also carry BSON tags for document stores.
//
// # Concurrency
//
// Graph and Mapping values are not safe for concurrent mutation. Callers that
// share a graph between goroutines must synchronize access.
package hierarchy
