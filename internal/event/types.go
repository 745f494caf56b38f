package event

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for overlay and renderer handlers that must run first.
	PriorityCritical Priority = 0

	// PriorityHigh is for application state handlers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority for scripts and extensions.
	PriorityNormal Priority = 200

	// PriorityLow is for logging handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler is the interface for event handlers.
// Handlers run synchronously on the publisher's goroutine, so they
// must not block; the bus sits inside the interaction loop.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert.
	Handle(event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(event any) error {
	return f(event)
}

// TypedHandler provides type-safe event handling using generics.
type TypedHandler[T any] interface {
	Handle(event Event[T]) error
}

// TypedHandlerFunc is a function adapter for TypedHandler.
type TypedHandlerFunc[T any] func(event Event[T]) error

// Handle implements the TypedHandler interface.
func (f TypedHandlerFunc[T]) Handle(event Event[T]) error {
	return f(event)
}

// AsHandler converts a TypedHandler to a generic Handler.
func AsHandler[T any](h TypedHandler[T]) Handler {
	return HandlerFunc(func(event any) error {
		if e, ok := event.(Event[T]); ok {
			return h.Handle(e)
		}
		// Type mismatch - skip silently
		return nil
	})
}

// AsHandlerFunc converts a TypedHandlerFunc to a generic Handler.
func AsHandlerFunc[T any](fn TypedHandlerFunc[T]) Handler {
	return AsHandler[T](fn)
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event, false to filter it out.
type FilterFunc func(event any) bool

// Stats contains event bus statistics.
type Stats struct {
	// EventsPublished is the total number of events published.
	EventsPublished uint64

	// EventsDelivered is the total number of events delivered to handlers.
	EventsDelivered uint64

	// HandlersExecuted is the total number of handler executions.
	HandlersExecuted uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscribers is the current number of active subscriptions.
	ActiveSubscribers int
}

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, subscriptionID string, recovered any)
