package backend

import "github.com/dshills/dragstorm/internal/renderer/core"

// ScreenBuffer is a double buffer of terminal cells. Writes land in
// the back buffer; ComputeDiff reports the cells that differ from the
// front buffer and Sync promotes the back buffer after a flush. Not
// safe for concurrent use; the render loop owns it.
type ScreenBuffer struct {
	width, height int
	front         [][]core.Cell
	back          [][]core.Cell
	dirtyRows     []bool
	fullRedraw    bool
}

// Change is a single cell that must be repainted.
type Change struct {
	X, Y int
	Cell core.Cell
}

// NewScreenBuffer creates a buffer with the given dimensions.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	b := &ScreenBuffer{}
	b.allocate(width, height)
	b.fullRedraw = true
	return b
}

func (b *ScreenBuffer) allocate(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.width = width
	b.height = height
	b.front = newCellGrid(width, height)
	b.back = newCellGrid(width, height)
	b.dirtyRows = make([]bool, height)
}

// Size returns the buffer dimensions.
func (b *ScreenBuffer) Size() (width, height int) {
	return b.width, b.height
}

// Bounds returns the buffer extent as a rectangle at the origin.
func (b *ScreenBuffer) Bounds() core.Rect {
	return core.NewRect(0, 0, b.width, b.height)
}

// Resize grows or shrinks the buffer, preserving overlapping content
// and forcing a full repaint on the next flush.
func (b *ScreenBuffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	oldBack := b.back
	oldW, oldH := b.width, b.height
	b.allocate(width, height)
	for y := 0; y < min(oldH, height); y++ {
		copy(b.back[y], oldBack[y][:min(oldW, width)])
	}
	b.fullRedraw = true
}

// SetCell stages a cell in the back buffer. Out-of-range positions are
// ignored.
func (b *ScreenBuffer) SetCell(x, y int, cell core.Cell) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	if b.back[y][x].Equals(cell) {
		return
	}
	b.back[y][x] = cell
	b.dirtyRows[y] = true
}

// GetCell returns the staged cell at the given position.
func (b *ScreenBuffer) GetCell(x, y int) core.Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return core.EmptyCell()
	}
	return b.back[y][x]
}

// GetFrontCell returns the last flushed cell at the given position.
func (b *ScreenBuffer) GetFrontCell(x, y int) core.Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return core.EmptyCell()
	}
	return b.front[y][x]
}

// Fill stages a rectangular region of identical cells, clipped to the
// buffer.
func (b *ScreenBuffer) Fill(rect core.Rect, cell core.Cell) {
	clipped := rect.Intersection(b.Bounds())
	for y := clipped.Y; y < clipped.Y+clipped.H; y++ {
		for x := clipped.X; x < clipped.X+clipped.W; x++ {
			b.SetCell(x, y, cell)
		}
	}
}

// Clear stages an erase of the whole buffer.
func (b *ScreenBuffer) Clear() {
	b.Fill(b.Bounds(), core.EmptyCell())
}

// SetLine stages a row of cells starting at the given position,
// clipping at the right edge.
func (b *ScreenBuffer) SetLine(x, y int, cells []core.Cell) {
	for i, cell := range cells {
		b.SetCell(x+i, y, cell)
	}
}

// SetString stages a styled string starting at the given position.
// Wide runes occupy two columns and are replaced by a space when they
// would straddle the right edge.
func (b *ScreenBuffer) SetString(x, y int, s string, style core.Style) {
	col := x
	for _, cell := range core.CellsFromString(s, style) {
		if cell.IsContinuation() {
			// Placed together with its head below.
			continue
		}
		if cell.Width == 2 {
			if col+1 >= b.width {
				b.SetCell(col, y, core.NewStyledCell(' ', style))
				col++
				continue
			}
			b.SetCell(col, y, cell)
			b.SetCell(col+1, y, core.ContinuationCell(style))
			col += 2
			continue
		}
		b.SetCell(col, y, cell)
		col++
	}
}

// ComputeDiff returns the cells whose staged value differs from the
// last flush. After a resize or MarkFullRedraw every cell is reported.
func (b *ScreenBuffer) ComputeDiff() []Change {
	var changes []Change
	for y := 0; y < b.height; y++ {
		if !b.fullRedraw && !b.dirtyRows[y] {
			continue
		}
		for x := 0; x < b.width; x++ {
			if b.fullRedraw || !b.back[y][x].Equals(b.front[y][x]) {
				changes = append(changes, Change{X: x, Y: y, Cell: b.back[y][x]})
			}
		}
	}
	return changes
}

// Sync copies the back buffer onto the front buffer and clears the
// dirty state. Call after flushing the diff to the display.
func (b *ScreenBuffer) Sync() {
	for y := 0; y < b.height; y++ {
		copy(b.front[y], b.back[y])
		b.dirtyRows[y] = false
	}
	b.fullRedraw = false
}

// MarkFullRedraw forces every cell into the next diff, for recovery
// after the display state is unknown.
func (b *ScreenBuffer) MarkFullRedraw() {
	b.fullRedraw = true
}

// IsDirty reports whether any staged change awaits a flush.
func (b *ScreenBuffer) IsDirty() bool {
	if b.fullRedraw {
		return true
	}
	for _, dirty := range b.dirtyRows {
		if dirty {
			return true
		}
	}
	return false
}

// BufferedBackend wraps a Backend with a ScreenBuffer so callers can
// stage freely and flush minimal diffs.
type BufferedBackend struct {
	backend Backend
	buffer  *ScreenBuffer
}

// NewBufferedBackend creates a buffered wrapper around the given
// backend, sized from the backend once initialized.
func NewBufferedBackend(backend Backend) *BufferedBackend {
	return &BufferedBackend{
		backend: backend,
		buffer:  NewScreenBuffer(0, 0),
	}
}

// Init initializes the underlying backend and sizes the buffer to the
// terminal, tracking resizes from then on.
func (bb *BufferedBackend) Init() error {
	if err := bb.backend.Init(); err != nil {
		return err
	}
	w, h := bb.backend.Size()
	bb.buffer.Resize(w, h)
	bb.backend.OnResize(func(width, height int) {
		bb.buffer.Resize(width, height)
	})
	return nil
}

func (bb *BufferedBackend) Shutdown() {
	bb.backend.Shutdown()
}

func (bb *BufferedBackend) Size() (int, int) {
	return bb.backend.Size()
}

func (bb *BufferedBackend) OnResize(callback func(width, height int)) {
	bb.backend.OnResize(func(width, height int) {
		bb.buffer.Resize(width, height)
		if callback != nil {
			callback(width, height)
		}
	})
}

func (bb *BufferedBackend) SetCell(x, y int, cell core.Cell) {
	bb.buffer.SetCell(x, y, cell)
}

func (bb *BufferedBackend) GetCell(x, y int) core.Cell {
	return bb.buffer.GetCell(x, y)
}

func (bb *BufferedBackend) Fill(rect core.Rect, cell core.Cell) {
	bb.buffer.Fill(rect, cell)
}

func (bb *BufferedBackend) Clear() {
	bb.buffer.Clear()
}

// Show flushes only the cells that changed since the last flush.
func (bb *BufferedBackend) Show() {
	for _, change := range bb.buffer.ComputeDiff() {
		bb.backend.SetCell(change.X, change.Y, change.Cell)
	}
	bb.buffer.Sync()
	bb.backend.Show()
}

func (bb *BufferedBackend) ShowCursor(x, y int) {
	bb.backend.ShowCursor(x, y)
}

func (bb *BufferedBackend) HideCursor() {
	bb.backend.HideCursor()
}

func (bb *BufferedBackend) SetCursorStyle(style CursorStyle) {
	bb.backend.SetCursorStyle(style)
}

func (bb *BufferedBackend) PollEvent() Event {
	return bb.backend.PollEvent()
}

func (bb *BufferedBackend) PostEvent(event Event) {
	bb.backend.PostEvent(event)
}

func (bb *BufferedBackend) EnableMouse() {
	bb.backend.EnableMouse()
}

func (bb *BufferedBackend) DisableMouse() {
	bb.backend.DisableMouse()
}

func (bb *BufferedBackend) HasTrueColor() bool {
	return bb.backend.HasTrueColor()
}

func (bb *BufferedBackend) Beep() {
	bb.backend.Beep()
}

// SetString stages a styled string through the buffer.
func (bb *BufferedBackend) SetString(x, y int, s string, style core.Style) {
	bb.buffer.SetString(x, y, s, style)
}

// SetLine stages a row of cells through the buffer.
func (bb *BufferedBackend) SetLine(x, y int, cells []core.Cell) {
	bb.buffer.SetLine(x, y, cells)
}

// MarkFullRedraw forces the next Show to repaint every cell.
func (bb *BufferedBackend) MarkFullRedraw() {
	bb.buffer.MarkFullRedraw()
}

// Buffer exposes the underlying screen buffer.
func (bb *BufferedBackend) Buffer() *ScreenBuffer {
	return bb.buffer
}
