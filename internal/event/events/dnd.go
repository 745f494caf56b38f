package events

import (
	"github.com/dshills/dragstorm/internal/event/topic"
)

// Drag-and-drop event topics.
const (
	// TopicDNDStarted is published when a transfer drag begins from a source.
	TopicDNDStarted topic.Topic = "dnd.started"

	// TopicDNDTargetEntered is published when the pointer enters a matching drop target.
	TopicDNDTargetEntered topic.Topic = "dnd.target.entered"

	// TopicDNDTargetLeft is published when the pointer leaves a matching drop target.
	TopicDNDTargetLeft topic.Topic = "dnd.target.left"

	// TopicDNDDropped is published when a payload is dropped on a target.
	TopicDNDDropped topic.Topic = "dnd.dropped"

	// TopicDNDEnded is published when a transfer drag finishes, dropped or not.
	TopicDNDEnded topic.Topic = "dnd.ended"
)

// DNDStarted is published when a transfer drag begins from a source.
type DNDStarted struct {
	// Tag is the transfer channel the source publishes on.
	Tag string

	// X is the x coordinate where the drag started.
	X int

	// Y is the y coordinate where the drag started.
	Y int
}

// DNDTargetEntered is published when the pointer enters a matching drop target.
type DNDTargetEntered struct {
	// Tag is the transfer channel of the target.
	Tag string

	// X is the pointer x coordinate.
	X int

	// Y is the pointer y coordinate.
	Y int
}

// DNDTargetLeft is published when the pointer leaves a matching drop target.
type DNDTargetLeft struct {
	// Tag is the transfer channel of the target.
	Tag string

	// X is the pointer x coordinate.
	X int

	// Y is the pointer y coordinate.
	Y int
}

// DNDDropped is published when a payload is dropped on a target.
type DNDDropped struct {
	// Tag is the transfer channel the drop was delivered on.
	Tag string

	// X is the x coordinate of the drop.
	X int

	// Y is the y coordinate of the drop.
	Y int

	// Payload is the serialized payload delivered to the target.
	Payload []byte
}

// DNDEnded is published when a transfer drag finishes.
type DNDEnded struct {
	// Tag is the transfer channel of the finished drag.
	Tag string

	// Dropped indicates whether the drag ended on a matching target.
	Dropped bool
}
