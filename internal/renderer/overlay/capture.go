package overlay

import (
	"github.com/dshills/dragstorm/internal/renderer/core"
)

// Capture is the full-viewport sheet mounted while a drag is in
// flight. It paints nothing and claims every cell for hit testing, so
// pointer events anywhere on screen keep feeding the drag instead of
// whatever sits underneath.
type Capture struct {
	*BaseOverlay
}

// NewCapture creates a capture sheet spanning the viewport.
func NewCapture(id string, viewport core.Rect) *Capture {
	return &Capture{
		BaseOverlay: NewBaseOverlay(id, KindCapture, PriorityHigh, viewport),
	}
}

// CellAt always declines to paint; the capture sheet is transparent.
func (c *Capture) CellAt(x, y int) (core.Cell, PaintMode) {
	return core.Cell{}, PaintNone
}

// WantsPointer reports whether the sheet swallows a pointer event at
// the given position. While mounted it swallows everything inside the
// viewport.
func (c *Capture) WantsPointer(x, y int) bool {
	return c.Visible() && c.Bounds().Contains(x, y)
}

// Resize follows a viewport change while the sheet is mounted.
func (c *Capture) Resize(viewport core.Rect) {
	c.SetBounds(viewport)
}
