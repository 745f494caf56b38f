// Package backend abstracts the terminal so the render pipeline and
// the interaction loop can run against a real screen or an in-memory
// double.
package backend

import "github.com/dshills/dragstorm/internal/renderer/core"

// CursorStyle defines how the hardware cursor appears.
type CursorStyle int

const (
	// CursorDefault leaves the shape up to the terminal.
	CursorDefault CursorStyle = iota
	// CursorBlock is a solid block.
	CursorBlock
	// CursorUnderline is a low underscore.
	CursorUnderline
	// CursorBar is a thin vertical bar.
	CursorBar
	// CursorHidden removes the cursor entirely.
	CursorHidden
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventFocus
	EventInterrupt
)

// Event is a terminal event. Only the fields for the event's type are
// meaningful.
type Event struct {
	Type EventType

	// Key event fields.
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields. Buttons is the raw set of buttons held at
	// the time of the report, not an edge; consumers diff successive
	// events to recover presses and releases.
	MouseX, MouseY int
	Buttons        ButtonMask

	// Resize event fields.
	Width, Height int

	// Focus event fields.
	Focused bool
}

// Key identifies a keyboard key.
type Key int

const (
	KeyNone Key = iota
	// KeyRune is a printable character; see the Rune field.
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlL
	KeyCtrlQ
)

// ModMask is a bitmask of modifier keys.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// ButtonMask is a bitmask of mouse buttons and wheel impulses.
type ButtonMask int

const (
	ButtonNone ButtonMask = 0

	// ButtonLeft is the primary button.
	ButtonLeft ButtonMask = 1 << iota
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonMiddle is the wheel click.
	ButtonMiddle
	// ButtonBack is the back navigation button.
	ButtonBack
	// ButtonForward is the forward navigation button.
	ButtonForward

	// WheelUp is a scroll impulse away from the user.
	WheelUp
	// WheelDown is a scroll impulse toward the user.
	WheelDown
	// WheelLeft is a horizontal scroll impulse.
	WheelLeft
	// WheelRight is a horizontal scroll impulse.
	WheelRight
)

// Has reports whether the mask contains the given button.
func (b ButtonMask) Has(button ButtonMask) bool {
	return b&button != 0
}

// Held returns the mask with wheel impulses stripped, leaving only
// buttons that stay down between events.
func (b ButtonMask) Held() ButtonMask {
	return b &^ (WheelUp | WheelDown | WheelLeft | WheelRight)
}

// Backend is the terminal abstraction. Implementations draw cells and
// deliver input events.
type Backend interface {
	// Init prepares the backend for use. Must be called first.
	Init() error

	// Shutdown releases resources and restores the terminal state.
	Shutdown()

	// Size returns the current terminal dimensions in cells.
	Size() (width, height int)

	// OnResize registers a callback for terminal resize events.
	OnResize(callback func(width, height int))

	// SetCell stages a single cell. Positions outside the terminal are
	// silently ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns the cell at the given position, or an empty cell
	// outside the terminal.
	GetCell(x, y int) core.Cell

	// Fill stages a rectangular region of identical cells.
	Fill(rect core.Rect, cell core.Cell)

	// Clear stages an erase of the whole screen.
	Clear()

	// Show flushes staged changes to the display.
	Show()

	// ShowCursor positions and displays the hardware cursor.
	ShowCursor(x, y int)

	// HideCursor hides the hardware cursor.
	HideCursor()

	// SetCursorStyle changes the hardware cursor shape.
	SetCursorStyle(style CursorStyle)

	// PollEvent blocks until the next terminal event arrives.
	PollEvent() Event

	// PostEvent injects a synthetic event, waking PollEvent.
	PostEvent(event Event)

	// EnableMouse turns on mouse reporting, including motion events.
	EnableMouse()

	// DisableMouse turns mouse reporting off.
	DisableMouse()

	// HasTrueColor reports whether the display supports 24-bit color.
	HasTrueColor() bool

	// Beep sounds the terminal bell.
	Beep()
}

// NullBackend is an in-memory backend for tests. Events are delivered
// through an internal queue fed by PostEvent.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	cursorStyle   CursorStyle
	mouseEnabled  bool
	resizeHandler func(width, height int)
	events        chan Event
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 128),
	}
}

func (b *NullBackend) Init() error {
	b.cells = newCellGrid(b.width, b.height)
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) OnResize(callback func(width, height int)) {
	b.resizeHandler = callback
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(rect core.Rect, cell core.Cell) {
	clipped := rect.Intersection(core.NewRect(0, 0, b.width, b.height))
	for y := clipped.Y; y < clipped.Y+clipped.H; y++ {
		for x := clipped.X; x < clipped.X+clipped.W; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	empty := core.EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *NullBackend) Show() {}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) SetCursorStyle(style CursorStyle) {
	b.cursorStyle = style
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Queue full; drop rather than block a test.
	}
}

func (b *NullBackend) EnableMouse()  { b.mouseEnabled = true }
func (b *NullBackend) DisableMouse() { b.mouseEnabled = false }

func (b *NullBackend) HasTrueColor() bool { return true }
func (b *NullBackend) Beep()              {}

// CursorPosition returns the cursor state for assertions.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// CursorStyleValue returns the cursor style for assertions.
func (b *NullBackend) CursorStyleValue() CursorStyle {
	return b.cursorStyle
}

// MouseEnabled reports whether mouse reporting is on.
func (b *NullBackend) MouseEnabled() bool {
	return b.mouseEnabled
}

// Resize simulates a terminal resize, clearing the grid and posting an
// EventResize like a real terminal would.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	b.cells = newCellGrid(width, height)
	if b.resizeHandler != nil {
		b.resizeHandler(width, height)
	}
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func newCellGrid(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for y := range cells {
		cells[y] = make([]core.Cell, width)
		for x := range cells[y] {
			cells[y][x] = core.EmptyCell()
		}
	}
	return cells
}
