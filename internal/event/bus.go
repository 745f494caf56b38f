package event

import (
	"errors"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/dragstorm/internal/event/topic"
)

// busConfig holds bus construction options.
type busConfig struct {
	panicHandler PanicHandler
}

func defaultBusConfig() busConfig {
	return busConfig{}
}

// BusOption configures a Bus.
type BusOption func(*busConfig)

// WithPanicHandler sets a callback invoked when a handler panics.
// The panic is always recovered and surfaced as an error regardless.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// Bus delivers events synchronously to subscribers in priority order.
//
// Delivery happens on the publisher's goroutine. The bus has no
// start/stop lifecycle; it is ready on construction. Interaction
// events are ordered, so every handler for one event completes
// before the next event is published.
type Bus struct {
	mu   sync.RWMutex
	subs []*subscription // kept sorted by priority, registration order within
	byID map[string]*subscription

	paused atomic.Bool
	config busConfig

	// Stats
	eventsPublished  atomic.Uint64
	eventsDelivered  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Bus{
		byID:   make(map[string]*subscription),
		config: config,
	}
}

// Subscribe creates a new subscription for the given topic pattern.
// Patterns support "*" (one segment) and "**" (any segments).
// This method is safe to call concurrently.
func (b *Bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(generateID(), topicPattern, handler, opts...)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.byID[sub.id] = sub
	// Stable sort keeps registration order within a priority band.
	sort.SliceStable(b.subs, func(i, j int) bool {
		return b.subs[i].config.Priority < b.subs[j].config.Priority
	})
	b.mu.Unlock()

	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *Bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
// This method is safe to call concurrently.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()
	if !b.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Pause temporarily stops event delivery.
// Events can still be published but will be silently dropped.
func (b *Bus) Pause() {
	b.paused.Store(true)
}

// Resume restarts event delivery after a pause.
func (b *Bus) Resume() {
	b.paused.Store(false)
}

// IsPaused returns true if the bus is paused.
func (b *Bus) IsPaused() bool {
	return b.paused.Load()
}

// Publish delivers an event to all matching subscribers.
// The call blocks until every handler completes. Handler errors do
// not stop delivery; they are collected and returned joined.
func (b *Bus) Publish(event any) error {
	if b.paused.Load() {
		return nil // Silently drop when paused
	}

	eventTopic := b.extractTopic(event)
	if eventTopic == "" {
		return ErrInvalidEvent
	}

	b.eventsPublished.Add(1)

	subs := b.match(eventTopic)
	if len(subs) == 0 {
		return nil // No subscribers
	}

	var errs []error
	for _, sub := range subs {
		if !sub.ShouldDeliver(event) {
			continue
		}

		err := b.dispatch(event, sub)
		b.handlersExecuted.Add(1)

		switch {
		case err != nil && errors.Is(err, ErrHandlerPanic):
			b.handlerPanics.Add(1)
			errs = append(errs, err)
		case err != nil:
			b.handlerErrors.Add(1)
			errs = append(errs, &HandlerError{
				SubscriptionID: sub.id,
				Topic:          sub.topic.String(),
				Err:            err,
			})
		default:
			b.eventsDelivered.Add(1)
		}

		// Handle one-time subscriptions
		if sub.config.Once && err == nil {
			sub.Cancel()
			b.remove(sub.id)
		}
	}

	return errors.Join(errs...)
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.countActive(),
	}
}

// dispatch runs a single handler, converting panics into errors.
func (b *Bus) dispatch(event any, sub *subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				SubscriptionID: sub.id,
				Topic:          sub.topic.String(),
				Value:          r,
				Stack:          string(debug.Stack()),
			}
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, sub.id, r)
			}
		}
	}()
	return sub.handler.Handle(event)
}

// match returns subscriptions whose pattern matches the topic,
// in priority order.
func (b *Bus) match(eventTopic topic.Topic) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var matched []*subscription
	for _, sub := range b.subs {
		if eventTopic.Matches(sub.topic) {
			matched = append(matched, sub)
		}
	}
	return matched
}

// remove deletes a subscription by ID. Returns false if not found.
func (b *Bus) remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.byID[id]; !ok {
		return false
	}
	delete(b.byID, id)
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			break
		}
	}
	return true
}

// countActive returns the number of active subscriptions.
func (b *Bus) countActive() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, sub := range b.subs {
		if sub.IsActive() {
			count++
		}
	}
	return count
}

// extractTopic extracts the topic from an event.
func (b *Bus) extractTopic(event any) topic.Topic {
	// First try TopicProvider interface
	if tp, ok := event.(TopicProvider); ok {
		return tp.EventTopic()
	}

	// Try Envelope
	if env, ok := event.(Envelope); ok {
		return env.Topic
	}

	// Cannot determine topic
	return ""
}
