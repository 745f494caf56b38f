// Package topic provides hierarchical topic types and pattern matching for the event bus.
//
// # Topic Format
//
// Topics use dot-notation to create hierarchical namespaces:
//
//	drag.started
//	dnd.dropped
//	mouse.clicked
//	config.loaded
//
// # Wildcards
//
// Two wildcard patterns are supported:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	drag.*          matches drag.started, drag.ended (not drag.session.opened)
//	dnd.**          matches dnd.dropped, dnd.target.entered
//	*.started       matches drag.started, dnd.started
//	**              matches everything
package topic
