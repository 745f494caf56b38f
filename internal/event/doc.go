// Package event provides the event bus for Dragstorm.
//
// The bus is the communication backbone between the interaction
// layer (drag tracking, drag-and-drop routing), the renderer, and
// extension points such as scripts, without direct dependencies
// between them.
//
// # Event Topics
//
// Events use hierarchical topics with dot notation:
//
//	drag.started          - A drag gesture crossed its dead zone
//	drag.moved            - The pointer moved during an active drag
//	dnd.target.entered    - A transfer drag entered a drop target
//	dnd.dropped           - A payload was dropped on a target
//
// # Wildcard Patterns
//
// Subscriptions support wildcard patterns for flexible matching:
//
//	drag.*       - matches drag.started, drag.ended (single segment)
//	dnd.**       - matches dnd.started, dnd.target.entered (multi-segment)
//	*.started    - matches drag.started, dnd.started (prefix wildcard)
//
// # Delivery
//
// All delivery is synchronous: handlers execute on the publisher's
// goroutine, in priority order, before Publish returns. Interaction
// events are strictly ordered, so a handler always observes every
// earlier event's effects. Handlers must not block.
//
// # Priority Ordering
//
// Handlers execute in priority order for deterministic behavior:
//
//   - Critical (0): Overlay and renderer handlers - executes first
//   - High (100): Application state
//   - Normal (200): Scripts, extensions - default priority
//   - Low (300): Logging - executes last
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	// Subscribe to events with options
//	sub, err := bus.Subscribe(
//	    topic.Topic("drag.*"),
//	    handler,
//	    event.WithPriority(event.PriorityCritical),
//	)
//
//	// Publish events
//	evt := event.NewEvent(events.TopicDragStarted, payload, "tracker")
//	if err := bus.Publish(evt); err != nil {
//	    log.Printf("publish failed: %v", err)
//	}
//
// # Type-Safe Events
//
// Use generics for compile-time type safety:
//
//	handler := event.AsHandlerFunc(func(evt event.Event[events.DragStarted]) error {
//	    fmt.Printf("drag from %d,%d\n", evt.Payload.X, evt.Payload.Y)
//	    return nil
//	})
//	bus.Subscribe(events.TopicDragStarted, handler)
//
// # Thread Safety
//
// The Bus and all public types are safe for concurrent use.
// Subscriptions can be added and removed while events are being
// published. Individual handlers must manage their own thread safety.
//
// # Subpackages
//
//   - events: Strongly-typed event payload definitions
//   - topic: Topic types and wildcard pattern matching
package event
