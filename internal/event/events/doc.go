// Package events defines strongly-typed event payloads for the Dragstorm event bus.
//
// Each event type has a corresponding topic constant and payload struct. Events are
// grouped by their source module:
//
//   - Mouse events: clicks, scrolls
//   - Drag events: gesture lifecycle from dead zone crossing to release
//   - DND events: tagged drag-and-drop lifecycle, target hover, drops
//
// # Usage
//
// Events are typically created using the event.NewEvent function:
//
//	import (
//	    "github.com/dshills/dragstorm/internal/event"
//	    "github.com/dshills/dragstorm/internal/event/events"
//	)
//
//	// Create and publish a drag start event
//	evt := event.NewEvent(events.TopicDragStarted,
//	    events.DragStarted{
//	        X:      10,
//	        Y:      4,
//	        Button: events.ButtonLeft,
//	    },
//	    "tracker",
//	)
//	bus.Publish(evt)
//
// # Topic Naming Convention
//
// Topics follow a hierarchical dot-notation:
//
//	<module>.<entity>.<action>
//
// Examples:
//   - drag.started
//   - dnd.target.entered
//   - mouse.clicked
//
// # Wildcard Subscriptions
//
// Subscribers can use wildcards to match multiple topics:
//   - "*" matches exactly one segment: "drag.*" matches "drag.started"
//   - "**" matches zero or more segments: "dnd.**" matches "dnd.target.entered"
package events
