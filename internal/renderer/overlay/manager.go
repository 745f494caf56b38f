package overlay

import (
	"errors"
	"sort"
	"sync"

	"github.com/dshills/dragstorm/internal/renderer/core"
)

// Well-known IDs for the singleton layers the manager owns.
const (
	captureOverlayID = "drag.capture"
	ghostOverlayID   = "drag.ghost"
)

var (
	// ErrNilOverlay is returned when adding a nil overlay.
	ErrNilOverlay = errors.New("nil overlay")

	// ErrEmptyOverlayID is returned when an overlay has no ID.
	ErrEmptyOverlayID = errors.New("empty overlay id")

	// ErrDuplicateOverlay is returned when an ID is already registered.
	ErrDuplicateOverlay = errors.New("duplicate overlay id")
)

// Manager owns the overlay set plus the two singleton layers a drag
// needs: the pointer capture sheet and the ghost label. The capture
// sheet exists only between BeginCapture and EndCapture, so the screen
// is untouched by drag machinery while nothing is being dragged.
//
// All methods are safe for concurrent use. Overlays handed out by the
// manager must be mutated through manager calls, not directly.
type Manager struct {
	mu sync.RWMutex

	// overlays contains all registered overlays, keyed by ID.
	overlays map[string]Overlay

	// sorted caches the overlays in paint order.
	sorted []Overlay

	// needsSort indicates the cache must be rebuilt.
	needsSort bool

	// config holds the overlay appearance settings.
	config Config

	// viewport is the current screen rectangle.
	viewport core.Rect

	// activeCapture is the mounted capture sheet, if any.
	activeCapture *Capture

	// activeGhost is the mounted ghost label, if any.
	activeGhost *Ghost
}

// NewManager creates an overlay manager with the default appearance.
func NewManager() *Manager {
	return NewManagerWithConfig(DefaultConfig())
}

// NewManagerWithConfig creates an overlay manager with the given
// appearance settings.
func NewManagerWithConfig(config Config) *Manager {
	return &Manager{
		overlays: make(map[string]Overlay),
		config:   config,
	}
}

// Config returns the current appearance settings.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SetConfig replaces the appearance settings. Overlays already mounted
// keep their styles.
func (m *Manager) SetConfig(config Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// SetViewport records the screen size. A mounted capture sheet is
// resized to match and the ghost is clamped back on screen.
func (m *Manager) SetViewport(viewport core.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.viewport = viewport
	if m.activeCapture != nil {
		m.activeCapture.Resize(viewport)
	}
	if m.activeGhost != nil && !viewport.IsEmpty() {
		m.activeGhost.ClampTo(viewport)
	}
}

// Viewport returns the recorded screen rectangle.
func (m *Manager) Viewport() core.Rect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

// Add registers an overlay.
func (m *Manager) Add(ov Overlay) error {
	if ov == nil {
		return ErrNilOverlay
	}
	if ov.ID() == "" {
		return ErrEmptyOverlayID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.overlays[ov.ID()]; exists {
		return ErrDuplicateOverlay
	}
	m.addLocked(ov)
	return nil
}

// Remove drops the overlay with the given ID.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.removeLocked(id) {
		return false
	}
	if m.activeCapture != nil && m.activeCapture.ID() == id {
		m.activeCapture = nil
	}
	if m.activeGhost != nil && m.activeGhost.ID() == id {
		m.activeGhost = nil
	}
	return true
}

// Get returns the overlay with the given ID.
func (m *Manager) Get(id string) (Overlay, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ov, ok := m.overlays[id]
	return ov, ok
}

// Count returns the number of registered overlays.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.overlays)
}

// Clear removes every overlay, including the singleton layers.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.overlays = make(map[string]Overlay)
	m.sorted = nil
	m.needsSort = false
	m.activeCapture = nil
	m.activeGhost = nil
}

// Overlays returns a copy of the overlay set in paint order.
func (m *Manager) Overlays() []Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sortLocked()
	out := make([]Overlay, len(m.sorted))
	copy(out, m.sorted)
	return out
}

// BeginCapture mounts the capture sheet across the viewport, replacing
// any sheet already mounted.
func (m *Manager) BeginCapture() *Capture {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeCapture != nil {
		m.removeLocked(m.activeCapture.ID())
	}
	c := NewCapture(captureOverlayID, m.viewport)
	m.activeCapture = c
	m.addLocked(c)
	return c
}

// EndCapture unmounts the capture sheet.
func (m *Manager) EndCapture() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeCapture == nil {
		return
	}
	m.removeLocked(m.activeCapture.ID())
	m.activeCapture = nil
}

// CaptureActive reports whether the capture sheet is mounted.
func (m *Manager) CaptureActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeCapture != nil
}

// WantsPointer reports whether the mounted capture sheet claims the
// pointer at the given position. With no sheet mounted it never does.
func (m *Manager) WantsPointer(x, y int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeCapture != nil && m.activeCapture.WantsPointer(x, y)
}

// ShowGhost raises the ghost label beside the pointer, replacing any
// label already mounted.
func (m *Manager) ShowGhost(label string, x, y int) *Ghost {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeGhost != nil {
		m.removeLocked(m.activeGhost.ID())
	}
	g := NewGhost(ghostOverlayID, label, m.config.GhostStyle, m.config.MaxGhostWidth)
	g.SetOffset(m.config.GhostOffsetX, m.config.GhostOffsetY)
	g.MoveTo(x, y)
	if !m.viewport.IsEmpty() {
		g.ClampTo(m.viewport)
	}
	m.activeGhost = g
	m.addLocked(g)
	return g
}

// MoveGhost repositions the ghost label beside the pointer.
func (m *Manager) MoveGhost(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeGhost == nil {
		return
	}
	m.activeGhost.MoveTo(x, y)
	if !m.viewport.IsEmpty() {
		m.activeGhost.ClampTo(m.viewport)
	}
}

// ClearGhost drops the ghost label.
func (m *Manager) ClearGhost() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeGhost == nil {
		return
	}
	m.removeLocked(m.activeGhost.ID())
	m.activeGhost = nil
}

// Ghost returns the mounted ghost label, if any.
func (m *Manager) Ghost() (*Ghost, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeGhost, m.activeGhost != nil
}

// SetHighlight tints a region under the given ID, replacing any
// highlight already using that ID.
func (m *Manager) SetHighlight(id string, bounds core.Rect) *Highlight {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(id)
	h := NewHighlight(id, bounds, m.config.HighlightStyle)
	m.addLocked(h)
	return h
}

// ClearHighlight removes the highlight with the given ID.
func (m *Manager) ClearHighlight(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(id)
}

// addLocked registers an overlay. Caller holds the write lock.
func (m *Manager) addLocked(ov Overlay) {
	m.overlays[ov.ID()] = ov
	m.needsSort = true
}

// removeLocked drops an overlay by ID. Caller holds the write lock.
func (m *Manager) removeLocked(id string) bool {
	if _, exists := m.overlays[id]; !exists {
		return false
	}
	delete(m.overlays, id)
	m.needsSort = true
	return true
}

// sortLocked rebuilds the paint-order cache. Ties break on ID so the
// order is deterministic across frames. Caller holds the write lock.
func (m *Manager) sortLocked() {
	if !m.needsSort {
		return
	}

	m.sorted = m.sorted[:0]
	for _, ov := range m.overlays {
		m.sorted = append(m.sorted, ov)
	}
	sort.SliceStable(m.sorted, func(i, j int) bool {
		if m.sorted[i].Priority() != m.sorted[j].Priority() {
			return m.sorted[i].Priority() < m.sorted[j].Priority()
		}
		return m.sorted[i].ID() < m.sorted[j].ID()
	})
	m.needsSort = false
}

// Compositor paints the overlay set over base cells. It reads the
// manager under its lock, so frames see a consistent overlay set.
type Compositor struct {
	manager *Manager
}

// NewCompositor creates a compositor over the given manager.
func NewCompositor(m *Manager) *Compositor {
	return &Compositor{manager: m}
}

// CompositeCell returns the cell to draw at x, y given the base cell.
func (c *Compositor) CompositeCell(x, y int, base core.Cell) core.Cell {
	m := c.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sortLocked()
	out := base
	for _, ov := range m.sorted {
		if !ov.Visible() || !ov.Bounds().Contains(x, y) {
			continue
		}
		out = applyCell(ov, x, y, out)
	}
	return out
}

// CompositeRow paints a full row and returns a new slice; the base row
// is left untouched.
func (c *Compositor) CompositeRow(y int, base []core.Cell) []core.Cell {
	m := c.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sortLocked()
	out := make([]core.Cell, len(base))
	copy(out, base)

	for _, ov := range m.sorted {
		if !ov.Visible() {
			continue
		}
		b := ov.Bounds()
		if y < b.Y || y >= b.Y+b.H {
			continue
		}
		x1 := max(b.X, 0)
		x2 := min(b.X+b.W, len(out))
		for x := x1; x < x2; x++ {
			out[x] = applyCell(ov, x, y, out[x])
		}
	}
	return out
}

// applyCell folds one overlay's contribution into the base cell.
func applyCell(ov Overlay, x, y int, base core.Cell) core.Cell {
	cell, mode := ov.CellAt(x, y)
	switch mode {
	case PaintReplace:
		return cell
	case PaintRestyle:
		return base.WithStyle(base.Style.Merge(cell.Style))
	default:
		return base
	}
}
