// Package dnd provides tagged drag-and-drop between screen regions.
//
// A Draggable marks a region as a drag source on a named channel; a
// Droppable marks a region as a drop target on a channel of its own.
// Sources and targets only interact when their channel tags match, so
// several independent drag-and-drop flows can share the screen without
// interfering. Payloads travel as JSON through a transfer.Store built
// fresh for each drag, and targets can read them during enter, over,
// and leave, not just at the drop itself.
//
// # Routing
//
// A Router owns the gesture detection: press on a source, travel past
// the deadzone, and the drag is live. Targets are hit-tested by
// geometry on every pointer step; enter and leave notifications are
// reconciled against the set of regions the pointer was previously
// inside, the way a retained-mode scene graph delivers hover changes.
// Channel filtering happens in the target, not the router, so a target
// under a foreign-channel drag simply never hears about it.
//
// # Hover Counting
//
// Droppable hovering is a counter, not a flag. Each entered region
// increments it and each left region decrements it, which keeps a
// target hovering while the pointer crosses between overlapping
// regions it owns. N enters followed by N leaves always lands back on
// not-hovering, and a drop resets the counter no matter what.
package dnd
