package overlay

import (
	"github.com/dshills/dragstorm/internal/renderer/core"
)

// Ghost is the floating label that trails the pointer during a drag,
// naming what is being carried. It occupies a single row.
type Ghost struct {
	*BaseOverlay

	// label is the raw text before truncation.
	label string

	// cells is the rendered label, padded one cell on each side.
	cells []core.Cell

	// style paints the label.
	style core.Style

	// offsetX, offsetY displace the label from the pointer so it stays
	// readable beside the cursor cell.
	offsetX int
	offsetY int

	// maxWidth caps the rendered width in columns.
	maxWidth int
}

// NewGhost creates a ghost label. Position it with MoveTo.
func NewGhost(id, label string, style core.Style, maxWidth int) *Ghost {
	g := &Ghost{
		BaseOverlay: NewBaseOverlay(id, KindGhost, PriorityTop, core.Rect{}),
		style:       style,
		offsetX:     2,
		offsetY:     1,
		maxWidth:    maxWidth,
	}
	g.SetLabel(label)
	return g
}

// Label returns the text shown in the ghost.
func (g *Ghost) Label() string {
	return g.label
}

// SetLabel replaces the ghost text, re-truncating as needed.
func (g *Ghost) SetLabel(label string) {
	g.label = label
	g.cells = renderLabel(label, g.style, g.maxWidth)

	b := g.Bounds()
	b.W = len(g.cells)
	b.H = 1
	g.SetBounds(b)
}

// SetOffset sets the label displacement from the pointer.
func (g *Ghost) SetOffset(dx, dy int) {
	g.offsetX = dx
	g.offsetY = dy
}

// MoveTo anchors the ghost beside the pointer at x, y.
func (g *Ghost) MoveTo(x, y int) {
	b := g.Bounds()
	b.X = x + g.offsetX
	b.Y = y + g.offsetY
	g.SetBounds(b)
}

// ClampTo keeps the ghost inside the viewport after a move.
func (g *Ghost) ClampTo(viewport core.Rect) {
	g.SetBounds(g.Bounds().Clamp(viewport))
}

// CellAt paints the label cell under the given screen position.
func (g *Ghost) CellAt(x, y int) (core.Cell, PaintMode) {
	b := g.Bounds()
	if y != b.Y || x < b.X || x >= b.X+len(g.cells) {
		return core.Cell{}, PaintNone
	}
	return g.cells[x-b.X], PaintReplace
}

// renderLabel lays out the ghost text with single-cell padding and an
// ellipsis when it overflows maxWidth.
func renderLabel(label string, style core.Style, maxWidth int) []core.Cell {
	// Room for the padding, one rune, and the ellipsis.
	if maxWidth < 5 {
		maxWidth = 5
	}

	cells := core.CellsFromString(label, style)
	if len(cells) > maxWidth-2 {
		cells = truncateCells(cells, maxWidth-3)
		cells = append(cells, core.NewStyledCell('…', style))
	}

	out := make([]core.Cell, 0, len(cells)+2)
	out = append(out, core.NewStyledCell(' ', style))
	out = append(out, cells...)
	out = append(out, core.NewStyledCell(' ', style))
	return out
}

// truncateCells cuts a cell run at width columns without splitting a
// wide rune.
func truncateCells(cells []core.Cell, width int) []core.Cell {
	if width < 0 {
		width = 0
	}
	if len(cells) <= width {
		return cells
	}
	cut := width
	if cut > 0 && cells[cut].IsContinuation() {
		cut--
	}
	return cells[:cut]
}
