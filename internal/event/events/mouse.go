package events

import (
	"time"

	"github.com/dshills/dragstorm/internal/event/topic"
)

// Mouse event topics.
const (
	// TopicMouseClicked is published when a mouse button is clicked.
	TopicMouseClicked topic.Topic = "mouse.clicked"

	// TopicMouseScrolled is published when the mouse wheel scrolls.
	TopicMouseScrolled topic.Topic = "mouse.scrolled"
)

// Modifier represents keyboard modifiers.
type Modifier string

// Keyboard modifiers.
const (
	ModifierCtrl  Modifier = "ctrl"
	ModifierShift Modifier = "shift"
	ModifierAlt   Modifier = "alt"
	ModifierMeta  Modifier = "meta" // Cmd on macOS, Win on Windows
)

// Button represents a mouse button.
type Button string

// Mouse buttons.
const (
	ButtonLeft    Button = "left"
	ButtonRight   Button = "right"
	ButtonMiddle  Button = "middle"
	ButtonBack    Button = "back"
	ButtonForward Button = "forward"
)

// MouseClicked is published when a mouse button is clicked.
type MouseClicked struct {
	// Button is the mouse button that was clicked.
	Button Button

	// X is the x coordinate in screen cells.
	X int

	// Y is the y coordinate in screen cells.
	Y int

	// Modifiers are the active modifier keys.
	Modifiers []Modifier

	// ClickCount is 1 for single click, 2 for double, etc.
	ClickCount int

	// Timestamp is when the click occurred.
	Timestamp time.Time
}

// MouseScrolled is published when the mouse wheel scrolls.
type MouseScrolled struct {
	// Direction is the scroll direction ("up", "down", "left", "right").
	Direction string

	// Lines is the number of lines to scroll.
	Lines int

	// X is the x coordinate in screen cells.
	X int

	// Y is the y coordinate in screen cells.
	Y int

	// Modifiers are the active modifier keys.
	Modifiers []Modifier
}
