package dnd

import (
	"sync"

	"github.com/dshills/dragstorm/internal/input/mouse"
	"github.com/dshills/dragstorm/internal/input/transfer"
)

// RouterConfig configures gesture detection for a router.
type RouterConfig struct {
	// Button is the button that starts a drag. ButtonNone accepts any
	// non-scroll button.
	Button mouse.Button

	// DeadZone is the Euclidean distance, in cells, the pointer must
	// exceed before a press on a source becomes a drag.
	DeadZone int
}

// DefaultRouterConfig returns sensible default configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		Button:   mouse.ButtonLeft,
		DeadZone: 3,
	}
}

type sourceEntry struct {
	source *Draggable
	region Region
}

type targetEntry struct {
	target *Droppable
	region Region
}

// Router connects pointer events to registered sources and targets.
//
// A press on a source region arms a gesture; travel beyond the
// deadzone starts the drag and serializes the source payload. From
// then on every pointer step is reconciled against target regions by
// geometry alone; each target filters channel tags itself, so the
// router never inspects payloads. Release delivers one drop per
// distinct target under the pointer, then ends the drag on the source.
//
// Handle must be called from a single goroutine. Target and source
// callbacks run with no router lock held and may call back into the
// router, including moving regions around mid-drag.
type Router struct {
	mu      sync.Mutex
	config  RouterConfig
	sources []*sourceEntry
	targets []*targetEntry

	pressed  bool
	dragging bool
	button   mouse.Button
	origin   mouse.Position
	pos      mouse.Position
	armed    *Draggable
	tag      string
	store    *transfer.Store
	entered  []*targetEntry
}

// NewRouter creates a router with the given configuration.
func NewRouter(config RouterConfig) *Router {
	if config.DeadZone < 0 {
		config.DeadZone = 0
	}
	return &Router{config: config}
}

// AddSource registers a drag source over a screen region. Later
// registrations sit on top when regions overlap.
func (r *Router) AddSource(d *Draggable, region Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, &sourceEntry{source: d, region: region})
}

// RemoveSource unregisters every region of a source. An in-flight
// gesture on the source is not aborted; its end callback still fires
// on release.
func (r *Router) RemoveSource(d *Draggable) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.sources[:0]
	for _, entry := range r.sources {
		if entry.source != d {
			kept = append(kept, entry)
		}
	}
	r.sources = kept
}

// SetSourceRegion moves every registration of the source to a new
// region.
func (r *Router) SetSourceRegion(d *Draggable, region Region) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.sources {
		if entry.source == d {
			entry.region = region
		}
	}
}

// AddTarget registers a drop target over a screen region. A target may
// be registered over several regions; its hover counter then tracks
// how many of them the pointer is inside.
func (r *Router) AddTarget(d *Droppable, region Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, &targetEntry{target: d, region: region})
}

// RemoveTarget unregisters every region of a target. Regions the
// pointer is currently inside receive leaves, draining the target's
// hover counter: every enter the router delivered gets its matching
// leave, so a target re-registered mid-drag starts from a clean
// counter instead of double-counting its next enter.
func (r *Router) RemoveTarget(d *Droppable) {
	r.mu.Lock()

	kept := r.targets[:0]
	for _, entry := range r.targets {
		if entry.target != d {
			kept = append(kept, entry)
		}
	}
	r.targets = kept

	var pruned []*targetEntry
	keptEntered := r.entered[:0]
	for _, entry := range r.entered {
		if entry.target != d {
			keptEntered = append(keptEntered, entry)
		} else {
			pruned = append(pruned, entry)
		}
	}
	r.entered = keptEntered
	pos, tag, store := r.pos, r.tag, r.store
	r.mu.Unlock()

	for _, entry := range pruned {
		entry.target.Leave(pos, tag, store)
	}
}

// SetTargetRegion moves every registration of the target to a new
// region.
func (r *Router) SetTargetRegion(d *Droppable, region Region) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.targets {
		if entry.target == d {
			entry.region = region
		}
	}
}

// Handle processes a mouse event and reports whether it belonged to a
// drag-and-drop gesture.
func (r *Router) Handle(ev mouse.Event) bool {
	switch ev.Action {
	case mouse.ActionPress:
		return r.handlePress(ev)
	case mouse.ActionMove, mouse.ActionDrag:
		return r.handleMotion(ev)
	case mouse.ActionRelease:
		return r.handleRelease(ev)
	default:
		return false
	}
}

func (r *Router) handlePress(ev mouse.Event) bool {
	if ev.Button == mouse.ButtonNone || ev.Button.IsScroll() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pressed {
		return false
	}
	if r.config.Button != mouse.ButtonNone && ev.Button != r.config.Button {
		return false
	}

	source := r.topSourceAt(ev.Position)
	if source == nil {
		return false
	}

	r.pressed = true
	r.button = ev.Button
	r.origin = ev.Position
	r.pos = ev.Position
	r.armed = source
	return true
}

func (r *Router) handleMotion(ev mouse.Event) bool {
	r.mu.Lock()
	if !r.pressed {
		r.mu.Unlock()
		return false
	}
	r.pos = ev.Position

	if !r.dragging {
		if r.origin.DistanceTo(ev.Position) <= float64(r.config.DeadZone) {
			r.mu.Unlock()
			return true
		}
		source := r.armed
		store := transfer.NewStore()
		r.dragging = true
		r.tag = source.Tag()
		r.store = store
		r.mu.Unlock()

		// Serialize the payload before any target hears about the drag.
		source.DragStart(store)
		r.reconcile(ev.Position)
		return true
	}
	r.mu.Unlock()

	r.reconcile(ev.Position)
	return true
}

func (r *Router) handleRelease(ev mouse.Event) bool {
	r.mu.Lock()
	if !r.pressed || ev.Button != r.button {
		r.mu.Unlock()
		return false
	}

	source := r.armed
	dragging := r.dragging
	tag, store := r.tag, r.store
	entered := r.entered
	r.clearLocked()
	r.mu.Unlock()

	if !dragging {
		// Press and release inside the deadzone: a plain click on the
		// source, no drag ever started.
		return true
	}

	// One drop per target, even when several of its regions sit under
	// the pointer.
	delivered := make(map[*Droppable]bool, len(entered))
	for _, entry := range entered {
		if delivered[entry.target] {
			continue
		}
		delivered[entry.target] = true
		entry.target.Drop(ev.Position, tag, store)
	}

	source.DragEnd()
	return true
}

// Cancel aborts the gesture in progress, if any. Entered targets
// receive leaves so their hover counters drain, no drop is delivered,
// and the source still gets its end callback.
func (r *Router) Cancel() {
	r.mu.Lock()
	if !r.pressed {
		r.mu.Unlock()
		return
	}

	source := r.armed
	dragging := r.dragging
	tag, store := r.tag, r.store
	entered := r.entered
	pos := r.pos
	r.clearLocked()
	r.mu.Unlock()

	if !dragging {
		return
	}

	for _, entry := range entered {
		entry.target.Leave(pos, tag, store)
	}
	source.DragEnd()
}

// IsDragging returns true while a drag is active.
func (r *Router) IsDragging() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dragging
}

// ActiveTag returns the channel tag of the drag in progress.
func (r *Router) ActiveTag() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tag, r.dragging
}

// Position returns the last pointer position of the gesture in
// progress.
func (r *Router) Position() (mouse.Position, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos, r.pressed
}

// Payload returns the payload the active drag carries for the given
// channel tag, or the empty object when no drag is active.
func (r *Router) Payload(tag string) transfer.Payload {
	r.mu.Lock()
	store := r.store
	r.mu.Unlock()

	if store == nil {
		return transfer.Payload("{}")
	}
	return store.Get(tag)
}

// reconcile delivers enter, leave, and over notifications for the
// current pointer position. Enters go out before leaves: a target
// crossing between two of its own regions gains the new one before
// losing the old one, so its hover counter never touches zero
// mid-crossing.
func (r *Router) reconcile(pos mouse.Position) {
	r.mu.Lock()
	if !r.dragging {
		r.mu.Unlock()
		return
	}
	tag, store := r.tag, r.store

	var hits []*targetEntry
	for _, entry := range r.targets {
		if entry.region.Contains(pos) {
			hits = append(hits, entry)
		}
	}

	var enters, leaves []*targetEntry
	for _, entry := range hits {
		if !containsEntry(r.entered, entry) {
			enters = append(enters, entry)
		}
	}
	for _, entry := range r.entered {
		if !containsEntry(hits, entry) {
			leaves = append(leaves, entry)
		}
	}
	r.entered = hits
	r.mu.Unlock()

	for _, entry := range enters {
		entry.target.Enter(pos, tag, store)
	}
	for _, entry := range leaves {
		entry.target.Leave(pos, tag, store)
	}
	for _, entry := range hits {
		entry.target.Over(pos, tag, store)
	}
}

// topSourceAt returns the last registered enabled source whose region
// contains the position. Callers must hold the lock.
func (r *Router) topSourceAt(p mouse.Position) *Draggable {
	for i := len(r.sources) - 1; i >= 0; i-- {
		entry := r.sources[i]
		if entry.region.Contains(p) && entry.source.Enabled() {
			return entry.source
		}
	}
	return nil
}

func (r *Router) clearLocked() {
	r.pressed = false
	r.dragging = false
	r.button = mouse.ButtonNone
	r.armed = nil
	r.tag = ""
	r.store = nil
	r.entered = nil
}

func containsEntry(entries []*targetEntry, entry *targetEntry) bool {
	for _, e := range entries {
		if e == entry {
			return true
		}
	}
	return false
}
