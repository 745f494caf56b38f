// Package overlay manages the layers composited over the base frame:
// the pointer capture sheet raised while a drag is in flight, the ghost
// label that trails the pointer, and highlights over drop targets.
package overlay

import (
	"github.com/dshills/dragstorm/internal/renderer/core"
)

// Kind classifies an overlay.
type Kind uint8

const (
	// KindCapture is the invisible sheet that claims the pointer while
	// a drag is in flight.
	KindCapture Kind = iota

	// KindGhost is the floating label that trails the pointer.
	KindGhost

	// KindHighlight tints the cells of a drop target.
	KindHighlight
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindCapture:
		return "capture"
	case KindGhost:
		return "ghost"
	case KindHighlight:
		return "highlight"
	default:
		return "unknown"
	}
}

// Priority orders compositing. Higher priority overlays paint later
// and end up on top.
type Priority int

const (
	// PriorityLow sits under everything else. Highlights live here so
	// they never cover the ghost.
	PriorityLow Priority = 0

	// PriorityNormal is for ordinary decorations.
	PriorityNormal Priority = 50

	// PriorityHigh is for layers that must beat decorations. The
	// capture sheet lives here.
	PriorityHigh Priority = 100

	// PriorityTop paints last. The ghost label lives here.
	PriorityTop Priority = 200
)

// PaintMode tells the compositor how to apply an overlay's cell.
type PaintMode uint8

const (
	// PaintNone leaves the base cell untouched.
	PaintNone PaintMode = iota

	// PaintReplace substitutes the overlay cell for the base cell.
	PaintReplace

	// PaintRestyle keeps the base rune and merges the overlay style
	// over its style.
	PaintRestyle
)

// Overlay is a rectangular layer composited over the base frame.
type Overlay interface {
	// ID returns the unique identifier for this overlay.
	ID() string

	// Kind classifies the overlay.
	Kind() Kind

	// Priority returns the compositing priority.
	Priority() Priority

	// Visible reports whether the overlay should be painted.
	Visible() bool

	// SetVisible toggles painting without removing the overlay.
	SetVisible(visible bool)

	// Bounds returns the overlay's screen rectangle.
	Bounds() core.Rect

	// CellAt reports what the overlay contributes at absolute screen
	// coordinates. PaintNone means the position is transparent.
	CellAt(x, y int) (core.Cell, PaintMode)
}

// BaseOverlay provides the bookkeeping shared by overlay
// implementations. Once added to a manager, mutate it only through
// manager calls so painting observes a consistent overlay set.
type BaseOverlay struct {
	id       string
	kind     Kind
	priority Priority
	visible  bool
	bounds   core.Rect
}

// NewBaseOverlay creates a base overlay, visible by default.
func NewBaseOverlay(id string, kind Kind, priority Priority, bounds core.Rect) *BaseOverlay {
	return &BaseOverlay{
		id:       id,
		kind:     kind,
		priority: priority,
		visible:  true,
		bounds:   bounds,
	}
}

// ID returns the overlay ID.
func (o *BaseOverlay) ID() string {
	return o.id
}

// Kind returns the overlay kind.
func (o *BaseOverlay) Kind() Kind {
	return o.kind
}

// Priority returns the compositing priority.
func (o *BaseOverlay) Priority() Priority {
	return o.priority
}

// Visible reports whether the overlay should be painted.
func (o *BaseOverlay) Visible() bool {
	return o.visible
}

// SetVisible toggles painting.
func (o *BaseOverlay) SetVisible(visible bool) {
	o.visible = visible
}

// Bounds returns the overlay's screen rectangle.
func (o *BaseOverlay) Bounds() core.Rect {
	return o.bounds
}

// SetBounds moves or resizes the overlay.
func (o *BaseOverlay) SetBounds(bounds core.Rect) {
	o.bounds = bounds
}

// Config holds the appearance settings for the built-in overlays.
type Config struct {
	// GhostStyle paints the drag ghost label.
	GhostStyle core.Style

	// HighlightStyle tints hovered drop targets.
	HighlightStyle core.Style

	// GhostOffsetX and GhostOffsetY displace the ghost label from the
	// pointer so it does not sit under the cursor cell.
	GhostOffsetX int
	GhostOffsetY int

	// MaxGhostWidth caps the ghost label width in columns. Longer
	// labels are truncated with an ellipsis.
	MaxGhostWidth int
}

// DefaultConfig returns the default overlay appearance.
func DefaultConfig() Config {
	return Config{
		GhostStyle:     core.NewStyle(core.ColorFromIndex(15), core.ColorFromIndex(12)).Bold(),
		HighlightStyle: core.DefaultStyle().WithAttributes(core.AttrReverse),
		GhostOffsetX:   2,
		GhostOffsetY:   1,
		MaxGhostWidth:  24,
	}
}
