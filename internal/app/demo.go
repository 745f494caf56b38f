package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/dragstorm/internal/event/events"
	"github.com/dshills/dragstorm/internal/input/dnd"
	"github.com/dshills/dragstorm/internal/input/drag"
	"github.com/dshills/dragstorm/internal/input/mouse"
	"github.com/dshills/dragstorm/internal/input/transfer"
	"github.com/dshills/dragstorm/internal/renderer/backend"
	"github.com/dshills/dragstorm/internal/renderer/core"
	"github.com/dshills/dragstorm/internal/renderer/overlay"
)

// filePayload is what the file box carries across a drag.
type filePayload struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// taskPayload is what the task box carries across a drag.
type taskPayload struct {
	Title    string `json:"title"`
	Priority int    `json:"priority"`
}

// dragBox is a drag source with a screen rectangle.
type dragBox struct {
	source *dnd.Draggable
	region dnd.Region
	label  string
	style  core.Style
}

// dropZone is a drop target. A zone may span several regions; the
// "done" zone uses two overlapping ones to exercise hover counting.
type dropZone struct {
	target  *dnd.Droppable
	regions []dnd.Region
	label   string
	id      string
	style   core.Style
}

// Scene is the built-in demonstration: two drag-and-drop channels
// (files and tasks) plus a pane moved freely with the drag tracker.
type Scene struct {
	mu  sync.Mutex
	app *Application

	width  int
	height int

	pane      core.Rect
	paneStyle core.Style
	tracker   *drag.Tracker

	dragStart mouse.Position
	dragAt    time.Time
	lastPos   mouse.Position
	dropped   bool

	boxes  []*dragBox
	zones  []*dropZone
	status string
}

// Channel tags for the two demo transfer channels.
const (
	tagFiles = "files"
	tagTasks = "tasks"
)

// NewScene builds the demo scene and registers its sources and
// targets with the application's router.
func NewScene(app *Application, width, height int) *Scene {
	s := &Scene{
		app:    app,
		status: "drag a box onto a matching zone, or move the pane",
	}

	cfg := app.Config()
	s.tracker = drag.New(drag.Config{
		Button:   buttonFromName(cfg.Input.DragButton),
		DeadZone: cfg.Input.DragDeadZone,
		Cursor:   cfg.Input.DragCursor,
	}, drag.Callbacks{
		OnStart: s.paneDragStart,
		OnMove:  s.paneDragMove,
		OnEnd:   s.paneDragEnd,
	})
	s.tracker.SetMounter(&captureMounter{
		app:    app,
		cursor: cursorFromName(cfg.Input.DragCursor),
	})

	s.boxes = []*dragBox{
		s.newBox(tagFiles, "notes.txt", filePayload{Name: "notes.txt", Kind: "file"},
			core.NewStyle(core.ColorFromIndex(0), core.ColorFromIndex(6))),
		s.newBox(tagTasks, "deploy", taskPayload{Title: "deploy", Priority: 2},
			core.NewStyle(core.ColorFromIndex(0), core.ColorFromIndex(3))),
	}
	s.zones = []*dropZone{
		s.newZone(tagFiles, "archive", "zone-archive",
			core.NewStyle(core.DefaultColor(), core.ColorFromIndex(4))),
		s.newZone(tagTasks, "done", "zone-done",
			core.NewStyle(core.DefaultColor(), core.ColorFromIndex(2))),
	}

	s.Layout(width, height)

	for _, box := range s.boxes {
		app.router.AddSource(box.source, box.region)
	}
	for _, zone := range s.zones {
		for _, region := range zone.regions {
			app.router.AddTarget(zone.target, region)
		}
	}
	return s
}

// newBox builds a drag source whose callbacks publish dnd lifecycle
// events and carry the given payload.
func (s *Scene) newBox(tag, label string, payload any, style core.Style) *dragBox {
	box := &dragBox{label: label, style: style}
	box.source = dnd.NewDraggable(tag, dnd.DragCallbacks{
		OnStart: func() any {
			pos, _ := s.app.router.Position()
			s.mu.Lock()
			s.dropped = false
			s.status = fmt.Sprintf("dragging %q on channel %q", label, tag)
			s.mu.Unlock()
			s.app.publish(events.TopicDNDStarted, events.DNDStarted{
				Tag: tag, X: pos.X, Y: pos.Y,
			})
			return payload
		},
		OnEnd: func() {
			s.mu.Lock()
			dropped := s.dropped
			if !dropped {
				s.status = fmt.Sprintf("%q went nowhere", label)
			}
			s.mu.Unlock()
			s.app.publish(events.TopicDNDEnded, events.DNDEnded{
				Tag: tag, Dropped: dropped,
			})
		},
	})
	return box
}

// newZone builds a drop target whose callbacks keep the highlight
// overlay and status line in sync and publish dnd events.
func (s *Scene) newZone(tag, label, id string, style core.Style) *dropZone {
	zone := &dropZone{label: label, id: id, style: style}
	zone.target = dnd.NewDroppable(tag, dnd.DropCallbacks{
		OnEnter: func(pos mouse.Position, payload transfer.Payload) {
			s.app.overlays.SetHighlight(id, s.zoneBounds(zone))
			s.app.publish(events.TopicDNDTargetEntered, events.DNDTargetEntered{
				Tag: tag, X: pos.X, Y: pos.Y,
			})
		},
		OnLeave: func(pos mouse.Position, payload transfer.Payload) {
			if !zone.target.Hovering() {
				s.app.overlays.ClearHighlight(id)
			}
			s.app.publish(events.TopicDNDTargetLeft, events.DNDTargetLeft{
				Tag: tag, X: pos.X, Y: pos.Y,
			})
		},
		OnDrop: func(pos mouse.Position, payload transfer.Payload) {
			s.app.overlays.ClearHighlight(id)
			s.mu.Lock()
			s.dropped = true
			s.status = fmt.Sprintf("dropped %s into %q", payload.String(), label)
			s.mu.Unlock()
			s.app.publish(events.TopicDNDDropped, events.DNDDropped{
				Tag: tag, X: pos.X, Y: pos.Y, Payload: []byte(payload),
			})
		},
	})
	return zone
}

// Layout positions everything for the given viewport and updates the
// router's regions.
func (s *Scene) Layout(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height

	boxW, boxH := 14, 3
	zoneW, zoneH := 18, 5

	// Sources on the left, zones on the right, pane in the middle.
	for i, box := range s.boxes {
		box.region = dnd.Region{X: 2, Y: 2 + i*(boxH+1), W: boxW, H: boxH}
	}

	zoneX := width - zoneW - 2
	if zoneX < boxW+4 {
		zoneX = boxW + 4
	}
	for i, zone := range s.zones {
		base := dnd.Region{X: zoneX, Y: 2 + i*(zoneH+1), W: zoneW, H: zoneH}
		if zone.id == "zone-done" {
			// Two overlapping halves of one target.
			left := dnd.Region{X: base.X, Y: base.Y, W: zoneW/2 + 2, H: zoneH}
			right := dnd.Region{X: base.X + zoneW/2 - 2, Y: base.Y, W: zoneW/2 + 2, H: zoneH}
			zone.regions = []dnd.Region{left, right}
		} else {
			zone.regions = []dnd.Region{base}
		}
	}

	if s.pane.IsEmpty() {
		s.pane = core.NewRect(boxW+6, height/2, 16, 4)
	}
	s.pane = s.pane.Clamp(core.NewRect(0, 1, width, height-2))
	s.paneStyle = core.NewStyle(core.ColorFromIndex(15), core.ColorFromIndex(8))

	boxes := s.boxes
	zones := s.zones
	s.mu.Unlock()

	for _, box := range boxes {
		s.app.router.SetSourceRegion(box.source, box.region)
	}
	for _, zone := range zones {
		s.app.router.RemoveTarget(zone.target)
		for _, region := range zone.regions {
			s.app.router.AddTarget(zone.target, region)
		}
	}
}

// zoneBounds returns the union of a zone's regions as a screen rect.
func (s *Scene) zoneBounds(zone *dropZone) core.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bounds core.Rect
	for _, r := range zone.regions {
		rect := core.NewRect(r.X, r.Y, r.W, r.H)
		if bounds.IsEmpty() {
			bounds = rect
		} else {
			bounds = bounds.Union(rect)
		}
	}
	return bounds
}

// HandleMouse feeds the free-drag tracker. Presses only arm a gesture
// when they land on the pane; everything else passes through so an
// in-flight gesture sees its motion and release.
func (s *Scene) HandleMouse(ev mouse.Event) bool {
	if ev.Action == mouse.ActionPress {
		s.mu.Lock()
		onPane := s.pane.Contains(ev.Position.X, ev.Position.Y)
		s.mu.Unlock()
		if !onPane {
			return false
		}
	}
	return s.tracker.Handle(ev)
}

// GhostLabel names the payload carried on a channel for the ghost
// overlay.
func (s *Scene) GhostLabel(tag string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, box := range s.boxes {
		if box.source.Tag() == tag {
			return box.label
		}
	}
	return tag
}

// DragInProgress reports whether the pane gesture is pending or
// active.
func (s *Scene) DragInProgress() bool {
	return s.tracker.State() != drag.StateIdle
}

// CancelDrag aborts the pane gesture, publishing a cancellation when
// the drag had activated.
func (s *Scene) CancelDrag() {
	active := s.tracker.IsDragging()
	s.tracker.Cancel()
	if active {
		s.mu.Lock()
		pos := s.lastPos
		s.status = "drag canceled"
		s.mu.Unlock()
		s.app.publish(events.TopicDragCanceled, events.DragCanceled{X: pos.X, Y: pos.Y})
	}
}

// Pane returns the pane's current rectangle.
func (s *Scene) Pane() core.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pane
}

// Status returns the status line text.
func (s *Scene) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Scene) paneDragStart(start mouse.Position) bool {
	s.mu.Lock()
	s.dragStart = start
	s.lastPos = start
	s.dragAt = time.Now()
	s.status = "moving pane"
	s.mu.Unlock()

	s.app.publish(events.TopicDragStarted, events.DragStarted{
		X: start.X, Y: start.Y,
		Button:    events.Button(buttonFromName(s.app.Config().Input.DragButton).String()),
		Timestamp: time.Now(),
	})
	return true
}

func (s *Scene) paneDragMove(pos mouse.Position, delta mouse.Delta) {
	s.mu.Lock()
	moved := core.NewRect(s.pane.X+delta.DX, s.pane.Y+delta.DY, s.pane.W, s.pane.H)
	s.pane = moved.Clamp(core.NewRect(0, 1, s.width, s.height-2))
	s.lastPos = pos
	s.mu.Unlock()

	s.app.publish(events.TopicDragMoved, events.DragMoved{
		X: pos.X, Y: pos.Y, DX: delta.DX, DY: delta.DY,
	})
}

func (s *Scene) paneDragEnd(pos mouse.Position) {
	s.mu.Lock()
	start := s.dragStart
	began := s.dragAt
	s.status = "pane moved"
	s.mu.Unlock()

	s.app.publish(events.TopicDragEnded, events.DragEnded{
		X: pos.X, Y: pos.Y,
		TotalDX:  pos.X - start.X,
		TotalDY:  pos.Y - start.Y,
		Duration: time.Since(began),
	})
}

// Render paints the scene and composites overlays on top.
func (s *Scene) Render(screen *backend.BufferedBackend) {
	s.mu.Lock()
	width, height := s.width, s.height
	pane, paneStyle := s.pane, s.paneStyle
	status := s.status
	boxes := make([]*dragBox, len(s.boxes))
	copy(boxes, s.boxes)
	zones := make([]*dropZone, len(s.zones))
	copy(zones, s.zones)
	s.mu.Unlock()

	screen.Fill(core.NewRect(0, 0, width, height), core.EmptyCell())
	screen.SetString(1, 0, "dragstorm: drag boxes onto zones, drag the pane, q quits",
		core.DefaultStyle().Bold())

	for _, zone := range zones {
		for _, region := range zone.regions {
			drawBox(screen, core.NewRect(region.X, region.Y, region.W, region.H), zone.style, "")
		}
		bounds := s.zoneBounds(zone)
		drawLabel(screen, bounds, zone.style, zone.label)
	}
	for _, box := range boxes {
		rect := core.NewRect(box.region.X, box.region.Y, box.region.W, box.region.H)
		drawBox(screen, rect, box.style, box.label)
	}
	drawBox(screen, pane, paneStyle, "pane")

	if height > 1 {
		screen.SetString(1, height-1, status, core.DefaultStyle().Dim())
	}

	comp := overlay.NewCompositor(s.app.overlays)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			base := screen.GetCell(x, y)
			out := comp.CompositeCell(x, y, base)
			if !out.Equals(base) {
				screen.SetCell(x, y, out)
			}
		}
	}
}

// drawBox fills a rectangle and centers a label in it.
func drawBox(screen *backend.BufferedBackend, rect core.Rect, style core.Style, label string) {
	screen.Fill(rect, core.NewStyledCell(' ', style))
	drawLabel(screen, rect, style, label)
}

// drawLabel centers text in a rectangle, truncating when it overflows.
func drawLabel(screen *backend.BufferedBackend, rect core.Rect, style core.Style, label string) {
	if label == "" || rect.IsEmpty() {
		return
	}
	if len(label) > rect.W {
		label = label[:rect.W]
	}
	x := rect.X + (rect.W-len(label))/2
	y := rect.Y + rect.H/2
	screen.SetString(x, y, label, style)
}
