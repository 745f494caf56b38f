package overlay

import (
	"github.com/dshills/dragstorm/internal/renderer/core"
)

// Highlight tints a rectangular region, typically the bounds of a drop
// target while a compatible drag hovers over it. The underlying
// content keeps its runes; only the style changes.
type Highlight struct {
	*BaseOverlay

	style core.Style
}

// NewHighlight creates a highlight over the given region.
func NewHighlight(id string, bounds core.Rect, style core.Style) *Highlight {
	return &Highlight{
		BaseOverlay: NewBaseOverlay(id, KindHighlight, PriorityLow, bounds),
		style:       style,
	}
}

// Style returns the tint applied to the region.
func (h *Highlight) Style() core.Style {
	return h.style
}

// SetStyle replaces the tint.
func (h *Highlight) SetStyle(style core.Style) {
	h.style = style
}

// CellAt restyles every cell inside the region, keeping its content.
func (h *Highlight) CellAt(x, y int) (core.Cell, PaintMode) {
	if !h.Bounds().Contains(x, y) {
		return core.Cell{}, PaintNone
	}
	return core.Cell{Style: h.style}, PaintRestyle
}
