// Package interact implements free dragging of graph nodes.
//
// A [Controller] tracks at most one active drag. Pressing a node opens a
// [DragSession], which registers one move listener and one release listener
// on the whole [Surface] so the node keeps following the pointer after it
// leaves the node's box. While the session is open, each move places the
// node so that its center sits under the pointer. Release closes the session
// and removes both listeners.
//
// Releasing a drag flags the node as manually positioned, which
// [hierarchy.Layout] respects. A press and release without movement keeps
// the node where it was but still pins it there.
//
// Edges store no coordinates, so they follow dragged nodes without any
// explicit update: renderers derive endpoints from node positions.
package interact
