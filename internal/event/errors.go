package event

import "errors"

// Bus sentinel errors.
var (
	// ErrInvalidEvent means Publish was given something with no
	// recoverable topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic means a subscription pattern failed validation.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidSubscription means a subscription handle did not come
	// from this bus.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound means the subscription was already
	// removed.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrHandlerPanic marks a recovered handler panic; match it with
	// errors.Is against the joined Publish error.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrNilHandler is returned by Subscribe for a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")
)

// HandlerError carries a handler failure back to the publisher with
// enough context to name the failing subscription.
type HandlerError struct {
	// SubscriptionID identifies the failing subscription.
	SubscriptionID string

	// Topic is the pattern the failing handler subscribed with.
	Topic string

	// Err is the handler's error.
	Err error
}

func (e *HandlerError) Error() string {
	return "handler error for subscription " + e.SubscriptionID + " on topic " + e.Topic + ": " + e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError is a recovered handler panic. The panic never propagates
// to the publisher; interaction dispatch keeps going past a broken
// handler.
type PanicError struct {
	// SubscriptionID identifies the panicking subscription.
	SubscriptionID string

	// Topic is the pattern the panicking handler subscribed with.
	Topic string

	// Value is the recovered panic value.
	Value any

	// Stack is the goroutine stack captured at recovery.
	Stack string
}

func (e *PanicError) Error() string {
	return "handler panic for subscription " + e.SubscriptionID + " on topic " + e.Topic
}

// Is matches PanicError against ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
