package dnd

import (
	"sync"

	"github.com/dshills/dragstorm/internal/input/mouse"
	"github.com/dshills/dragstorm/internal/input/transfer"
)

// Region is a rectangle in screen cells. W and H are extents; an empty
// region contains nothing.
type Region struct {
	X int
	Y int
	W int
	H int
}

// Contains returns true if the position falls inside the region.
func (r Region) Contains(p mouse.Position) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// DragCallbacks are the hooks a drag source drives. Any field may be nil.
type DragCallbacks struct {
	// OnStart fires when a drag begins on the source and returns the
	// payload to carry. A nil payload carries the empty object.
	OnStart func() any

	// OnEnd fires when the drag finishes, dropped or not.
	OnEnd func()
}

// Draggable marks a screen element as a drag source on one channel.
type Draggable struct {
	mu        sync.Mutex
	tag       string
	enabled   bool
	callbacks DragCallbacks
}

// NewDraggable creates a drag source for the given channel tag.
func NewDraggable(tag string, callbacks DragCallbacks) *Draggable {
	return &Draggable{
		tag:       tag,
		enabled:   true,
		callbacks: callbacks,
	}
}

// Tag returns the source's channel tag.
func (d *Draggable) Tag() string {
	return d.tag
}

// Enabled returns true if the source can start drags.
func (d *Draggable) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// SetEnabled turns the source on or off. A disabled source never starts
// a drag; presses on it fall through.
func (d *Draggable) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// DragStart obtains the payload from the start callback and serializes
// it into the store under the source's channel tag.
func (d *Draggable) DragStart(store *transfer.Store) {
	var payload any
	if d.callbacks.OnStart != nil {
		payload = d.callbacks.OnStart()
	}
	if payload == nil {
		payload = struct{}{}
	}
	// Encode failures degrade to the empty object downstream; the
	// store never ends up with a missing entry for an active source.
	if err := store.Set(d.tag, payload); err != nil {
		store.SetRaw(d.tag, []byte("{}"))
	}
}

// DragEnd fires the end callback.
func (d *Draggable) DragEnd() {
	if d.callbacks.OnEnd != nil {
		d.callbacks.OnEnd()
	}
}

// DropCallbacks are the hooks a drop target drives. Every callback
// receives the pointer position and the payload decoded for the
// target's own channel tag. Any field may be nil.
type DropCallbacks struct {
	// OnEnter fires when a matching drag moves onto the target.
	OnEnter func(pos mouse.Position, payload transfer.Payload)

	// OnOver fires for every pointer step while a matching drag is
	// over the target, including the entering step.
	OnOver func(pos mouse.Position, payload transfer.Payload)

	// OnLeave fires when a matching drag moves off the target.
	OnLeave func(pos mouse.Position, payload transfer.Payload)

	// OnDrop fires when a matching drag releases over the target.
	OnDrop func(pos mouse.Position, payload transfer.Payload)
}

// Droppable marks a screen element as a drop target on one channel.
//
// A target keeps a hover counter rather than a boolean: enters
// increment it and leaves decrement it, so a target registered over
// several overlapping regions stays hovering while the pointer crosses
// between them. A drop resets the counter outright.
//
// Events for drags on another channel are no-ops: no callback fires
// and the counter never moves.
type Droppable struct {
	mu        sync.Mutex
	tag       string
	hover     int
	callbacks DropCallbacks
}

// NewDroppable creates a drop target for the given channel tag.
func NewDroppable(tag string, callbacks DropCallbacks) *Droppable {
	return &Droppable{
		tag:       tag,
		callbacks: callbacks,
	}
}

// Tag returns the target's channel tag.
func (d *Droppable) Tag() string {
	return d.tag
}

// Hovering returns true while a matching drag is over the target.
func (d *Droppable) Hovering() bool {
	return d.HoverCount() > 0
}

// HoverCount returns the current hover counter value.
func (d *Droppable) HoverCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hover
}

// Enter routes a drag entering the target. Drags on another channel
// are ignored.
func (d *Droppable) Enter(pos mouse.Position, tag string, store *transfer.Store) {
	if tag != d.tag {
		return
	}

	d.mu.Lock()
	d.hover++
	d.mu.Unlock()

	if d.callbacks.OnEnter != nil {
		d.callbacks.OnEnter(pos, store.Get(d.tag))
	}
}

// Over routes a drag moving over the target. Drags on another channel
// are ignored.
func (d *Droppable) Over(pos mouse.Position, tag string, store *transfer.Store) {
	if tag != d.tag {
		return
	}

	if d.callbacks.OnOver != nil {
		d.callbacks.OnOver(pos, store.Get(d.tag))
	}
}

// Leave routes a drag leaving the target. Drags on another channel are
// ignored. The counter is decremented before the callback runs so the
// callback observes the settled hovering state.
func (d *Droppable) Leave(pos mouse.Position, tag string, store *transfer.Store) {
	if tag != d.tag {
		return
	}

	d.mu.Lock()
	if d.hover > 0 {
		d.hover--
	}
	d.mu.Unlock()

	if d.callbacks.OnLeave != nil {
		d.callbacks.OnLeave(pos, store.Get(d.tag))
	}
}

// Drop routes a drag released over the target. Drags on another
// channel are ignored. The counter is reset before the callback runs.
func (d *Droppable) Drop(pos mouse.Position, tag string, store *transfer.Store) {
	if tag != d.tag {
		return
	}

	d.mu.Lock()
	d.hover = 0
	d.mu.Unlock()

	if d.callbacks.OnDrop != nil {
		d.callbacks.OnDrop(pos, store.Get(d.tag))
	}
}
