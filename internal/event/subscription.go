package event

import (
	"sync/atomic"

	"github.com/dshills/dragstorm/internal/event/topic"
)

// SubscriptionState is the lifecycle state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive delivers matching events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStatePaused keeps the subscription registered but
	// skips delivery. A paused subscriber misses events outright;
	// nothing is queued for it.
	SubscriptionStatePaused

	// SubscriptionStateCancelled is terminal. A cancelled subscription
	// never receives another event; Unsubscribe removes it from the
	// bus table.
	SubscriptionStateCancelled
)

func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Subscription is the handle returned by Subscribe. All methods are
// safe to call from handlers, including the subscription's own.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the pattern the subscription matches against.
	Topic() topic.Topic

	// State returns the current lifecycle state.
	State() SubscriptionState

	// IsActive reports whether events are currently delivered.
	IsActive() bool

	// IsPaused reports whether delivery is suspended.
	IsPaused() bool

	// Pause suspends delivery. A no-op unless active.
	Pause()

	// Resume restores delivery. A no-op unless paused.
	Resume()

	// Cancel ends the subscription. Cancelled subscriptions cannot be
	// resumed.
	Cancel()
}

// SubscriptionConfig holds per-subscription delivery settings.
type SubscriptionConfig struct {
	// Priority orders handlers within one publish; lower runs first.
	Priority Priority

	// Filter, when set, must return true for an event to be delivered.
	Filter FilterFunc

	// Once cancels the subscription after its first delivery.
	Once bool
}

// DefaultSubscriptionConfig returns the settings used when no options
// are given: normal priority, no filter, persistent.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

// SubscriptionOption adjusts subscription settings at Subscribe time.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the handler ordering priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter installs a delivery predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce makes the subscription single-shot.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

type subscription struct {
	id      string
	topic   topic.Topic
	handler Handler
	config  SubscriptionConfig
	state   atomic.Int32
}

func newSubscription(id string, t topic.Topic, h Handler, opts ...SubscriptionOption) *subscription {
	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}

	s := &subscription{
		id:      id,
		topic:   t,
		handler: h,
		config:  config,
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Topic() topic.Topic {
	return s.topic
}

func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

func (s *subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

func (s *subscription) IsPaused() bool {
	return s.State() == SubscriptionStatePaused
}

func (s *subscription) IsCancelled() bool {
	return s.State() == SubscriptionStateCancelled
}

// Pause and Resume transition through CAS so a Cancel racing either
// one always wins.
func (s *subscription) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStatePaused))
}

func (s *subscription) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionStatePaused), int32(SubscriptionStateActive))
}

func (s *subscription) Cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
}

// ShouldDeliver reports whether the event passes the subscription's
// state and filter checks.
func (s *subscription) ShouldDeliver(event any) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(event) {
		return false
	}
	return true
}
