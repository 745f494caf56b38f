package event

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/dshills/dragstorm/internal/event/topic"
)

// Event is one published interaction event. Events are values and are
// never mutated after creation; a handler that wants a variant makes a
// copy.
type Event[T any] struct {
	// Type is the hierarchical topic, e.g. "dnd.target.entered".
	Type topic.Topic

	// Payload is the typed event body, usually one of the structs in
	// the events subpackage.
	Payload T

	// Metadata identifies this particular instance.
	Metadata Metadata
}

// Metadata travels with every event.
type Metadata struct {
	// ID is unique per event instance.
	ID string

	// Timestamp is when the event was created, not when it was
	// delivered.
	Timestamp time.Time

	// Source names the publishing component ("tracker", "router",
	// "app", "script").
	Source string
}

// NewEvent builds an event with fresh metadata.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        generateID(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// NewEventWithMetadata builds an event with caller-supplied metadata,
// filling in an ID and timestamp when absent.
func NewEventWithMetadata[T any](eventType topic.Topic, payload T, meta Metadata) Event[T] {
	if meta.ID == "" {
		meta.ID = generateID()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	return Event[T]{
		Type:     eventType,
		Payload:  payload,
		Metadata: meta,
	}
}

// EventTopic implements TopicProvider.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// EventMetadata implements MetadataProvider.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// WithSource returns a copy attributed to a different source.
func (e Event[T]) WithSource(source string) Event[T] {
	e.Metadata.Source = source
	return e
}

// TopicProvider is the minimum the bus needs from a published value:
// a topic to match subscriptions against.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// MetadataProvider exposes event metadata across the type-erased
// boundary.
type MetadataProvider interface {
	EventMetadata() Metadata
}

func generateID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; an ID
		// derived from the clock keeps events distinguishable.
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}

// Envelope is the type-erased view of an event, for handlers that
// subscribe across topics with wildcards and switch on Topic.
type Envelope struct {
	// Topic is the event topic.
	Topic topic.Topic

	// Payload is the type-erased body.
	Payload any

	// Metadata is the instance metadata.
	Metadata Metadata
}

// NewEnvelope erases a typed event.
func NewEnvelope[T any](e Event[T]) Envelope {
	return Envelope{
		Topic:    e.Type,
		Payload:  e.Payload,
		Metadata: e.Metadata,
	}
}

// ToEnvelope views any published value as an Envelope. Values without
// a topic come back empty; the delivered value itself is kept as the
// payload so a handler can still type-assert the concrete event.
func ToEnvelope(event any) Envelope {
	tp, ok := event.(TopicProvider)
	if !ok {
		return Envelope{}
	}

	env := Envelope{
		Topic:   tp.EventTopic(),
		Payload: event,
	}
	if mp, ok := event.(MetadataProvider); ok {
		env.Metadata = mp.EventMetadata()
	}
	return env
}
