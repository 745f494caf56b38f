package events

import (
	"time"

	"github.com/dshills/dragstorm/internal/event/topic"
)

// Drag gesture event topics.
const (
	// TopicDragStarted is published when a gesture crosses its dead zone.
	TopicDragStarted topic.Topic = "drag.started"

	// TopicDragMoved is published for each pointer movement during an active drag.
	TopicDragMoved topic.Topic = "drag.moved"

	// TopicDragEnded is published when the button is released during an active drag.
	TopicDragEnded topic.Topic = "drag.ended"

	// TopicDragCanceled is published when an active drag is programmatically canceled.
	TopicDragCanceled topic.Topic = "drag.canceled"
)

// DragStarted is published when a gesture crosses its dead zone.
type DragStarted struct {
	// X is the x coordinate where the button was pressed.
	X int

	// Y is the y coordinate where the button was pressed.
	Y int

	// Button is the mouse button driving the gesture.
	Button Button

	// Timestamp is when the gesture activated.
	Timestamp time.Time
}

// DragMoved is published for each pointer movement during an active drag.
type DragMoved struct {
	// X is the current pointer x coordinate.
	X int

	// Y is the current pointer y coordinate.
	Y int

	// DX is the horizontal movement since the previous event.
	DX int

	// DY is the vertical movement since the previous event.
	DY int
}

// DragEnded is published when the button is released during an active drag.
type DragEnded struct {
	// X is the x coordinate where the button was released.
	X int

	// Y is the y coordinate where the button was released.
	Y int

	// TotalDX is the horizontal displacement from the press position.
	TotalDX int

	// TotalDY is the vertical displacement from the press position.
	TotalDY int

	// Duration is how long the gesture lasted from press to release.
	Duration time.Duration
}

// DragCanceled is published when an active drag is programmatically canceled.
type DragCanceled struct {
	// X is the last known pointer x coordinate.
	X int

	// Y is the last known pointer y coordinate.
	Y int
}
