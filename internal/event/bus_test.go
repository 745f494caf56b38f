package event

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dshills/dragstorm/internal/event/topic"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
}

func TestBus_PauseResume(t *testing.T) {
	bus := NewBus()

	if bus.IsPaused() {
		t.Error("expected bus to not be paused initially")
	}

	bus.Pause()
	if !bus.IsPaused() {
		t.Error("expected bus to be paused after Pause()")
	}

	bus.Resume()
	if bus.IsPaused() {
		t.Error("expected bus to not be paused after Resume()")
	}
}

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	handler := HandlerFunc(func(event any) error {
		return nil
	})

	sub, err := bus.Subscribe(topic.Topic("test.event"), handler)
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}
	if sub.Topic() != topic.Topic("test.event") {
		t.Errorf("expected topic 'test.event', got '%s'", sub.Topic())
	}
	if !sub.IsActive() {
		t.Error("expected subscription to be active")
	}
}

func TestBus_Subscribe_NilHandler(t *testing.T) {
	bus := NewBus()

	_, err := bus.Subscribe(topic.Topic("test.event"), nil)
	if err != ErrNilHandler {
		t.Errorf("expected ErrNilHandler, got %v", err)
	}
}

func TestBus_Subscribe_InvalidTopic(t *testing.T) {
	bus := NewBus()

	handler := HandlerFunc(func(event any) error {
		return nil
	})

	for _, pattern := range []topic.Topic{"", ".drag", "drag..started"} {
		_, err := bus.Subscribe(pattern, handler)
		if err != ErrInvalidTopic {
			t.Errorf("Subscribe(%q): expected ErrInvalidTopic, got %v", pattern, err)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	handler := HandlerFunc(func(event any) error {
		return nil
	})

	sub, _ := bus.Subscribe(topic.Topic("test.event"), handler)

	err := bus.Unsubscribe(sub)
	if err != nil {
		t.Fatalf("Unsubscribe() failed: %v", err)
	}

	// Subscription should be cancelled
	if sub.IsActive() {
		t.Error("expected subscription to be cancelled after Unsubscribe()")
	}

	// Should fail to unsubscribe again
	err = bus.Unsubscribe(sub)
	if err != ErrSubscriptionNotFound {
		t.Errorf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	received := make(chan struct{}, 1)

	_, err := bus.SubscribeFunc(topic.Topic("test.event"),
		func(event any) error {
			received <- struct{}{}
			return nil
		},
	)
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}

	event := NewEvent(topic.Topic("test.event"), "payload", "test")
	err = bus.Publish(event)
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	select {
	case <-received:
		// Success - handler was called synchronously
	default:
		t.Fatal("handler was not called synchronously")
	}
}

func TestBus_Publish_InvalidEvent(t *testing.T) {
	bus := NewBus()

	// A plain value carries no topic
	err := bus.Publish("not an event")
	if err != ErrInvalidEvent {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestBus_Publish_NoSubscribers(t *testing.T) {
	bus := NewBus()

	event := NewEvent(topic.Topic("test.event"), "payload", "test")
	if err := bus.Publish(event); err != nil {
		t.Fatalf("Publish() with no subscribers failed: %v", err)
	}
}

func TestBus_Publish_Paused(t *testing.T) {
	bus := NewBus()

	received := make(chan struct{}, 1)

	bus.SubscribeFunc(topic.Topic("test.event"),
		func(event any) error {
			received <- struct{}{}
			return nil
		},
	)

	bus.Pause()

	event := NewEvent(topic.Topic("test.event"), "payload", "test")
	err := bus.Publish(event)
	if err != nil {
		t.Fatalf("Publish() should not fail when paused, got: %v", err)
	}

	select {
	case <-received:
		t.Fatal("handler should not be called when paused")
	default:
		// Success - event was silently dropped
	}
}

func TestBus_WildcardSubscription(t *testing.T) {
	bus := NewBus()

	var received atomic.Int32

	// Subscribe to drag.*
	bus.SubscribeFunc(topic.Topic("drag.*"),
		func(event any) error {
			received.Add(1)
			return nil
		},
	)

	// Publish different drag events
	bus.Publish(NewEvent(topic.Topic("drag.started"), struct{}{}, "test"))
	bus.Publish(NewEvent(topic.Topic("drag.ended"), struct{}{}, "test"))
	bus.Publish(NewEvent(topic.Topic("mouse.clicked"), struct{}{}, "test")) // Should not match

	if received.Load() != 2 {
		t.Errorf("expected 2 events received, got %d", received.Load())
	}
}

func TestBus_Priority(t *testing.T) {
	bus := NewBus()

	var order []string
	var mu sync.Mutex

	// Subscribe with different priorities (out of order)
	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			mu.Lock()
			order = append(order, "normal")
			mu.Unlock()
			return nil
		},
		WithPriority(PriorityNormal),
	)

	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			mu.Lock()
			order = append(order, "critical")
			mu.Unlock()
			return nil
		},
		WithPriority(PriorityCritical),
	)

	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			mu.Lock()
			order = append(order, "low")
			mu.Unlock()
			return nil
		},
		WithPriority(PriorityLow),
	)

	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	expected := []string{"critical", "normal", "low"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d handlers, got %d", len(expected), len(order))
	}
	for i, e := range expected {
		if order[i] != e {
			t.Errorf("position %d: expected %s, got %s", i, e, order[i])
		}
	}
}

func TestBus_PriorityStableWithinBand(t *testing.T) {
	bus := NewBus()

	var order []string

	for _, name := range []string{"first", "second", "third"} {
		name := name
		bus.SubscribeFunc(topic.Topic("test"),
			func(event any) error {
				order = append(order, name)
				return nil
			},
			WithPriority(PriorityNormal),
		)
	}

	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	expected := []string{"first", "second", "third"}
	for i, e := range expected {
		if order[i] != e {
			t.Errorf("position %d: expected %s, got %s", i, e, order[i])
		}
	}
}

func TestBus_Filter(t *testing.T) {
	bus := NewBus()

	var received atomic.Int32

	// Subscribe with filter that only accepts certain events
	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			received.Add(1)
			return nil
		},
		WithFilter(func(event any) bool {
			e, ok := event.(Event[string])
			return ok && e.Payload == "accept"
		}),
	)

	// Publish events
	bus.Publish(NewEvent(topic.Topic("test"), "accept", "test"))
	bus.Publish(NewEvent(topic.Topic("test"), "reject", "test"))
	bus.Publish(NewEvent(topic.Topic("test"), "accept", "test"))

	if received.Load() != 2 {
		t.Errorf("expected 2 events received (filtered), got %d", received.Load())
	}
}

func TestBus_Once(t *testing.T) {
	bus := NewBus()

	var received atomic.Int32

	sub, _ := bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			received.Add(1)
			return nil
		},
		WithOnce(),
	)

	// Publish multiple events
	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))
	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))
	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	if received.Load() != 1 {
		t.Errorf("expected 1 event received (once), got %d", received.Load())
	}

	// Subscription should be cancelled
	if sub.IsActive() {
		t.Error("expected subscription to be cancelled after once")
	}
}

func TestBus_HandlerError(t *testing.T) {
	bus := NewBus()

	handlerErr := errors.New("handler error")
	var executed atomic.Int32

	// Subscribe two handlers - first returns error, second should still run
	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			executed.Add(1)
			return handlerErr
		},
		WithPriority(PriorityCritical),
	)

	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			executed.Add(1)
			return nil
		},
		WithPriority(PriorityNormal),
	)

	err := bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	// Both handlers should have executed
	if executed.Load() != 2 {
		t.Errorf("expected 2 handlers executed, got %d", executed.Load())
	}

	// The error should surface wrapped
	if !errors.Is(err, handlerErr) {
		t.Errorf("expected Publish error to wrap handler error, got %v", err)
	}
	var he *HandlerError
	if !errors.As(err, &he) {
		t.Errorf("expected *HandlerError in chain, got %v", err)
	}

	// Stats should reflect the error
	stats := bus.Stats()
	if stats.HandlerErrors == 0 {
		t.Error("expected handler errors to be tracked")
	}
}

func TestBus_HandlerPanic(t *testing.T) {
	bus := NewBus()

	var executed atomic.Int32

	// Subscribe two handlers - first panics, second should still run
	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			executed.Add(1)
			panic("test panic")
		},
		WithPriority(PriorityCritical),
	)

	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			executed.Add(1)
			return nil
		},
		WithPriority(PriorityNormal),
	)

	// Should not panic
	err := bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	// Both handlers should have executed
	if executed.Load() != 2 {
		t.Errorf("expected 2 handlers executed, got %d", executed.Load())
	}

	// The panic should surface as an error
	if !errors.Is(err, ErrHandlerPanic) {
		t.Errorf("expected ErrHandlerPanic in chain, got %v", err)
	}

	// Stats should reflect the panic
	stats := bus.Stats()
	if stats.HandlerPanics == 0 {
		t.Error("expected handler panics to be tracked")
	}
}

func TestBus_PanicHandlerCallback(t *testing.T) {
	var notified atomic.Int32
	bus := NewBus(WithPanicHandler(func(event any, subscriptionID string, recovered any) {
		notified.Add(1)
		if recovered != "boom" {
			t.Errorf("expected recovered value 'boom', got %v", recovered)
		}
	}))

	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			panic("boom")
		},
	)

	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	if notified.Load() != 1 {
		t.Errorf("expected panic handler called once, got %d", notified.Load())
	}
}

func TestBus_Stats(t *testing.T) {
	bus := NewBus()

	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			return nil
		},
	)

	// Publish some events
	for i := 0; i < 5; i++ {
		bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))
	}

	stats := bus.Stats()
	if stats.EventsPublished != 5 {
		t.Errorf("expected 5 events published, got %d", stats.EventsPublished)
	}
	if stats.EventsDelivered != 5 {
		t.Errorf("expected 5 events delivered, got %d", stats.EventsDelivered)
	}
	if stats.HandlersExecuted != 5 {
		t.Errorf("expected 5 handlers executed, got %d", stats.HandlersExecuted)
	}
	if stats.ActiveSubscribers != 1 {
		t.Errorf("expected 1 active subscriber, got %d", stats.ActiveSubscribers)
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var received atomic.Int32

	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			received.Add(1)
			return nil
		},
	)

	// Publish concurrently
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))
		}()
	}
	wg.Wait()

	if received.Load() != 100 {
		t.Errorf("expected 100 events received, got %d", received.Load())
	}
}

func TestBus_ConcurrentSubscribe(t *testing.T) {
	bus := NewBus()

	var subscribed atomic.Int32
	var wg sync.WaitGroup

	// Subscribe concurrently
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bus.SubscribeFunc(topic.Topic("test"),
				func(event any) error {
					return nil
				},
			)
			if err == nil {
				subscribed.Add(1)
			}
		}()
	}
	wg.Wait()

	if subscribed.Load() != 100 {
		t.Errorf("expected 100 subscriptions, got %d", subscribed.Load())
	}

	stats := bus.Stats()
	if stats.ActiveSubscribers != 100 {
		t.Errorf("expected 100 active subscribers, got %d", stats.ActiveSubscribers)
	}
}

func TestBus_Envelope(t *testing.T) {
	bus := NewBus()

	received := make(chan struct{}, 1)

	bus.SubscribeFunc(topic.Topic("test.event"),
		func(event any) error {
			received <- struct{}{}
			return nil
		},
	)

	// Publish using Envelope
	env := Envelope{
		Topic:   topic.Topic("test.event"),
		Payload: "payload",
		Metadata: Metadata{
			ID:     "test-id",
			Source: "test",
		},
	}
	err := bus.Publish(env)
	if err != nil {
		t.Fatalf("Publish() with Envelope failed: %v", err)
	}

	select {
	case <-received:
		// Success
	default:
		t.Fatal("handler was not called for Envelope")
	}
}

func TestBus_PausedSubscription(t *testing.T) {
	bus := NewBus()

	var received atomic.Int32

	sub, _ := bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error {
			received.Add(1)
			return nil
		},
	)

	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	sub.Pause()
	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	sub.Resume()
	bus.Publish(NewEvent(topic.Topic("test"), struct{}{}, "test"))

	if received.Load() != 2 {
		t.Errorf("expected 2 events received across pause, got %d", received.Load())
	}
}

func BenchmarkBus_Publish(b *testing.B) {
	bus := NewBus()

	bus.SubscribeFunc(topic.Topic("test"),
		func(event any) error { return nil },
	)

	event := NewEvent(topic.Topic("test"), struct{}{}, "bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bus.Publish(event)
	}
}

func BenchmarkBus_Subscribe(b *testing.B) {
	bus := NewBus()

	handler := HandlerFunc(func(event any) error { return nil })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bus.Subscribe(topic.Topic("test"), handler)
	}
}

func BenchmarkBus_ManySubscribers(b *testing.B) {
	bus := NewBus()

	// Add many subscribers
	for i := 0; i < 100; i++ {
		bus.SubscribeFunc(topic.Topic("test"),
			func(event any) error { return nil },
		)
	}

	event := NewEvent(topic.Topic("test"), struct{}{}, "bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bus.Publish(event)
	}
}
