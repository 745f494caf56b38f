package drag

import (
	"sync"

	"github.com/dshills/dragstorm/internal/input/mouse"
)

// DefaultDeadZone is the pointer travel, in cells, a gesture must exceed
// before it is reported as a drag.
const DefaultDeadZone = 3

// State describes where a tracker is in the gesture lifecycle.
type State uint8

const (
	// StateIdle means no button is held.
	StateIdle State = iota
	// StatePending means a button is held but the pointer has not left
	// the deadzone.
	StatePending
	// StateActive means the gesture crossed the deadzone and drag
	// callbacks are being delivered.
	StateActive
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	default:
		return "idle"
	}
}

// Config configures drag tracking behavior.
type Config struct {
	// Button is the button that arms a gesture. ButtonNone accepts any
	// non-scroll button.
	Button mouse.Button

	// DeadZone is the Euclidean distance, in cells, the pointer must
	// exceed before the gesture becomes a drag. Zero activates on the
	// first cell of travel.
	DeadZone int

	// Cursor names the pointer style shown while a drag is active.
	// Empty leaves the cursor alone. The tracker itself never touches
	// the screen; the value is read by whoever mounts the capture layer.
	Cursor string
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Button:   mouse.ButtonLeft,
		DeadZone: DefaultDeadZone,
	}
}

// Callbacks are the hooks a tracker drives as a gesture progresses.
// Any field may be nil.
type Callbacks struct {
	// OnStart fires once, when the pointer first leaves the deadzone.
	// It receives the press position, not the current one. Returning
	// false abandons the gesture: no move or end callbacks follow.
	OnStart func(start mouse.Position) bool

	// OnMove fires for every pointer step while the drag is active.
	// The delta is the movement since the previous callback; for the
	// first callback it is the full offset from the press position, so
	// summing deltas always yields the total displacement.
	OnMove func(pos mouse.Position, delta mouse.Delta)

	// OnEnd fires when the arming button is released, only if the drag
	// activated.
	OnEnd func(pos mouse.Position)
}

// Mounter is notified when a drag needs the capture layer up. Mount is
// called after a gesture activates and Unmount when it ends or is
// canceled. Implementations typically raise a full-screen transparent
// overlay so the drag owns the pointer.
type Mounter interface {
	Mount()
	Unmount()
}

// session is the per-gesture state between a press and its release.
type session struct {
	start  mouse.Position
	last   mouse.Position
	button mouse.Button
	active bool
}

// Tracker turns press, motion, and release events into drag gestures.
//
// Handle must be called from a single goroutine. Callbacks run on that
// goroutine with no internal lock held, so they are free to call back
// into the tracker.
type Tracker struct {
	mu        sync.Mutex
	config    Config
	callbacks Callbacks
	mounter   Mounter
	session   *session
}

// New creates a drag tracker with the given configuration and callbacks.
func New(config Config, callbacks Callbacks) *Tracker {
	if config.DeadZone < 0 {
		config.DeadZone = 0
	}
	return &Tracker{
		config:    config,
		callbacks: callbacks,
	}
}

// SetMounter installs the capture layer hook. Passing nil removes it.
func (t *Tracker) SetMounter(m Mounter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mounter = m
}

// Handle processes a mouse event and reports whether it belonged to a
// gesture: the arming press, any motion while a gesture is pending or
// active, and the ending release. Capture policy on top of that, such
// as swallowing unrelated input while a drag is active, is left to the
// caller.
func (t *Tracker) Handle(ev mouse.Event) bool {
	switch ev.Action {
	case mouse.ActionPress:
		return t.handlePress(ev)
	case mouse.ActionMove, mouse.ActionDrag:
		return t.handleMotion(ev)
	case mouse.ActionRelease:
		return t.handleRelease(ev)
	default:
		return false
	}
}

func (t *Tracker) handlePress(ev mouse.Event) bool {
	if ev.Button == mouse.ButtonNone || ev.Button.IsScroll() {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != nil {
		return false
	}
	if t.config.Button != mouse.ButtonNone && ev.Button != t.config.Button {
		return false
	}

	t.session = &session{
		start:  ev.Position,
		last:   ev.Position,
		button: ev.Button,
	}
	return true
}

func (t *Tracker) handleMotion(ev mouse.Event) bool {
	t.mu.Lock()
	s := t.session
	if s == nil {
		t.mu.Unlock()
		return false
	}

	activating := false
	if !s.active {
		if s.start.DistanceTo(ev.Position) <= float64(t.config.DeadZone) {
			// Still inside the deadzone; the gesture stays pending.
			t.mu.Unlock()
			return true
		}
		s.active = true
		activating = true
	}

	start := s.start
	delta := mouse.DeltaBetween(s.last, ev.Position)
	s.last = ev.Position
	onStart := t.callbacks.OnStart
	onMove := t.callbacks.OnMove
	t.mu.Unlock()

	if activating {
		accepted := true
		if onStart != nil {
			accepted = onStart(start)
		}

		t.mu.Lock()
		if t.session != s {
			// Canceled from inside the start callback.
			t.mu.Unlock()
			return true
		}
		if !accepted {
			t.session = nil
			t.mu.Unlock()
			return true
		}
		mounter := t.mounter
		t.mu.Unlock()

		if mounter != nil {
			mounter.Mount()
		}
	}

	if onMove != nil && !delta.IsZero() {
		onMove(ev.Position, delta)
	}
	return true
}

func (t *Tracker) handleRelease(ev mouse.Event) bool {
	t.mu.Lock()
	s := t.session
	if s == nil {
		t.mu.Unlock()
		return false
	}
	if ev.Button != s.button {
		t.mu.Unlock()
		return false
	}

	t.session = nil
	active := s.active
	onEnd := t.callbacks.OnEnd
	mounter := t.mounter
	t.mu.Unlock()

	if !active {
		// Press and release inside the deadzone. The gesture degrades
		// to a click and produces no drag callbacks.
		return true
	}

	if mounter != nil {
		mounter.Unmount()
	}
	if onEnd != nil {
		onEnd(ev.Position)
	}
	return true
}

// Cancel aborts any gesture in progress without firing the end callback.
// If the drag was active the capture layer is unmounted.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	s := t.session
	t.session = nil
	mounter := t.mounter
	t.mu.Unlock()

	if s != nil && s.active && mounter != nil {
		mounter.Unmount()
	}
}

// State returns where the tracker is in the gesture lifecycle.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.session == nil:
		return StateIdle
	case t.session.active:
		return StateActive
	default:
		return StatePending
	}
}

// IsDragging returns true while a drag is active.
func (t *Tracker) IsDragging() bool {
	return t.State() == StateActive
}

// Start returns the press position of the current gesture, if any.
func (t *Tracker) Start() (mouse.Position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return mouse.Position{}, false
	}
	return t.session.start, true
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config
}
