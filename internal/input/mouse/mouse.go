package mouse

import (
	"math"
	"sync"
	"time"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonScrollUp indicates scroll wheel up.
	ButtonScrollUp
	// ButtonScrollDown indicates scroll wheel down.
	ButtonScrollDown
	// ButtonScrollLeft indicates horizontal scroll left.
	ButtonScrollLeft
	// ButtonScrollRight indicates horizontal scroll right.
	ButtonScrollRight
	// ButtonBack is the back navigation button (mouse button 4).
	ButtonBack
	// ButtonForward is the forward navigation button (mouse button 5).
	ButtonForward
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonScrollUp:
		return "scroll-up"
	case ButtonScrollDown:
		return "scroll-down"
	case ButtonScrollLeft:
		return "scroll-left"
	case ButtonScrollRight:
		return "scroll-right"
	case ButtonBack:
		return "back"
	case ButtonForward:
		return "forward"
	default:
		return "none"
	}
}

// IsScroll returns true if this is a scroll button.
func (b Button) IsScroll() bool {
	return b == ButtonScrollUp || b == ButtonScrollDown ||
		b == ButtonScrollLeft || b == ButtonScrollRight
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates mouse movement (no button held).
	ActionMove
	// ActionDrag indicates mouse movement with a button held.
	ActionDrag
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	default:
		return "none"
	}
}

// Position represents a screen coordinate in terminal cells.
type Position struct {
	X int
	Y int
}

// Equal returns true if two positions are equal.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
// Manhattan distance is used for click proximity detection as it's computationally
// efficient and provides a reasonable approximation for UI purposes.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// DistanceTo returns the Euclidean distance between two positions.
// Euclidean distance is used for deadzone thresholding so diagonal travel
// counts the same as axis-aligned travel.
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(float64(p.X-other.X), float64(p.Y-other.Y))
}

// Shift returns the position offset by the given delta.
func (p Position) Shift(d Delta) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Delta represents a movement between two positions.
type Delta struct {
	DX int
	DY int
}

// IsZero returns true if the delta represents no movement.
func (d Delta) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

// DeltaBetween returns the delta that moves from one position to another.
func DeltaBetween(from, to Position) Delta {
	return Delta{DX: to.X - from.X, DY: to.Y - from.Y}
}

// Event represents a mouse input event.
type Event struct {
	// Position is the screen coordinates.
	Position Position

	// Button is the mouse button involved.
	Button Button

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers Modifier

	// Action is the type of mouse action.
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Config configures mouse handler behavior.
type Config struct {
	// DoubleClickTime is the maximum time between clicks for a double-click.
	DoubleClickTime time.Duration

	// DoubleClickDistance is the maximum distance between clicks for a double-click.
	DoubleClickDistance int

	// ScrollLines is the number of lines to scroll per wheel tick.
	ScrollLines int

	// ScrollLinesShift is the number of lines when Shift is held.
	ScrollLinesShift int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime:     400 * time.Millisecond,
		DoubleClickDistance: 4,
		ScrollLines:         3,
		ScrollLinesShift:    1,
	}
}

// Click describes a completed click with its position in a click sequence.
type Click struct {
	// Position is where the click occurred.
	Position Position

	// Button is the button that was clicked.
	Button Button

	// Modifiers are the keyboard modifiers held during the click.
	Modifiers Modifier

	// Count is 1 for a single click, 2 for a double, 3 for a triple.
	Count int

	// Timestamp is when the click occurred.
	Timestamp time.Time
}

// Type returns the click type for the click count.
func (c Click) Type() ClickType {
	switch c.Count {
	case 2:
		return ClickDouble
	case 3:
		return ClickTriple
	default:
		return ClickSingle
	}
}

// Handler turns raw mouse events into click reports.
// Press events on non-scroll buttons are counted into single/double/triple
// click sequences; everything else passes through untouched.
type Handler struct {
	mu     sync.Mutex
	config Config

	// Click tracking
	click *clickTracker
}

// NewHandler creates a new mouse handler with the given configuration.
func NewHandler(config Config) *Handler {
	return &Handler{
		config: config,
		click:  newClickTracker(config.DoubleClickTime, config.DoubleClickDistance),
	}
}

// Handle processes a mouse event and returns a click report (or nil).
// Only press events on non-scroll buttons produce clicks.
func (h *Handler) Handle(event Event) *Click {
	h.mu.Lock()
	defer h.mu.Unlock()

	if event.Action != ActionPress {
		return nil
	}
	if event.Button == ButtonNone || event.Button.IsScroll() {
		return nil
	}

	count := h.click.recordClick(event.Position, event.Timestamp)
	return &Click{
		Position:  event.Position,
		Button:    event.Button,
		Modifiers: event.Modifiers,
		Count:     count,
		Timestamp: event.Timestamp,
	}
}

// Reset clears all handler state.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.click.reset()
}

// LastClickCount returns the most recent click count.
func (h *Handler) LastClickCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.click.lastClickCount()
}
