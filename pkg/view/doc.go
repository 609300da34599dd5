// Package view owns one interactive hierarchy visualization.
//
// A [Session] holds the current graph, the drag controller bound to it, and
// the load state shown to the user. It is the single writer of its graph:
// fetch completions, directly applied mappings, and pointer events are all
// serialized behind one lock, while the fetch itself runs outside it so the
// graph stays draggable while new data is on its way.
//
// # Stale responses
//
// Every [Session.Load] takes a new generation number. A response is applied
// only if no newer load was started (and no mapping was applied) while it
// was in flight, and only if the session is still open. Anything else is
// discarded with [ErrStale] or [ErrClosed].
//
// # States
//
//	empty -> loading -> ready
//	             \----> unavailable (graph kept, error recorded)
package view
