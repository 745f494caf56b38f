package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/dragstorm/internal/renderer/core"
)

// Terminal implements Backend on top of tcell.
type Terminal struct {
	screen        tcell.Screen
	resizeHandler func(width, height int)
	mu            sync.Mutex
}

// NewTerminal creates a terminal backend for the ambient terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing tcell screen, such as a
// simulation screen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableFocus()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) OnResize(callback func(width, height int)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resizeHandler = callback
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// tcell manages the trailing column of a wide rune itself.
	if cell.IsContinuation() {
		return
	}
	r := cell.Rune
	if r == 0 {
		r = ' '
	}
	t.screen.SetContent(x, y, r, nil, convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, _, style, width := t.screen.GetContent(x, y)
	return core.Cell{Rune: r, Width: width, Style: convertTcellStyle(style)}
}

func (t *Terminal) Fill(rect core.Rect, cell core.Cell) {
	w, h := t.screen.Size()
	clipped := rect.Intersection(core.NewRect(0, 0, w, h))
	for y := clipped.Y; y < clipped.Y+clipped.H; y++ {
		for x := clipped.X; x < clipped.X+clipped.W; x++ {
			t.SetCell(x, y, cell)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) SetCursorStyle(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch style {
	case CursorBlock:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	case CursorUnderline:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyUnderline)
	case CursorBar:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	case CursorHidden:
		t.screen.HideCursor()
	default:
		t.screen.SetCursorStyle(tcell.CursorStyleDefault)
	}
}

// PollEvent blocks for the next event. It returns EventNone once the
// screen has been finalized.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventNone}
		}
		converted := t.convertEvent(ev)
		if converted.Type != EventNone {
			return converted
		}
	}
}

func (t *Terminal) PostEvent(event Event) {
	var ev tcell.Event
	switch event.Type {
	case EventKey:
		ev = tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod))
	case EventMouse:
		ev = tcell.NewEventMouse(event.MouseX, event.MouseY, convertToTcellButtons(event.Buttons), convertToTcellMod(event.Mod))
	case EventInterrupt:
		ev = tcell.NewEventInterrupt(nil)
	default:
		return
	}
	_ = t.screen.PostEvent(ev) // best-effort; event queue may be full
}

func (t *Terminal) EnableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents | tcell.MouseMotionEvents)
}

func (t *Terminal) DisableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.DisableMouse()
}

func (t *Terminal) HasTrueColor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Colors() > 256
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep()
}

func (t *Terminal) convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key, r := convertKey(e)
		return Event{
			Type: EventKey,
			Key:  key,
			Rune: r,
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:    EventMouse,
			MouseX:  x,
			MouseY:  y,
			Buttons: convertButtons(e.Buttons()),
			Mod:     convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		t.screen.Sync()
		t.mu.Lock()
		handler := t.resizeHandler
		t.mu.Unlock()
		if handler != nil {
			handler(w, h)
		}
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{Type: EventNone}
	}
}

func convertKey(e *tcell.EventKey) (Key, rune) {
	switch e.Key() {
	case tcell.KeyRune:
		return KeyRune, e.Rune()
	case tcell.KeyEscape:
		return KeyEscape, 0
	case tcell.KeyEnter:
		return KeyEnter, 0
	case tcell.KeyTab:
		return KeyTab, 0
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace, 0
	case tcell.KeyDelete:
		return KeyDelete, 0
	case tcell.KeyHome:
		return KeyHome, 0
	case tcell.KeyEnd:
		return KeyEnd, 0
	case tcell.KeyPgUp:
		return KeyPageUp, 0
	case tcell.KeyPgDn:
		return KeyPageDown, 0
	case tcell.KeyUp:
		return KeyUp, 0
	case tcell.KeyDown:
		return KeyDown, 0
	case tcell.KeyLeft:
		return KeyLeft, 0
	case tcell.KeyRight:
		return KeyRight, 0
	case tcell.KeyCtrlC:
		return KeyCtrlC, 0
	case tcell.KeyCtrlL:
		return KeyCtrlL, 0
	case tcell.KeyCtrlQ:
		return KeyCtrlQ, 0
	default:
		return KeyNone, 0
	}
}

func convertToTcellKey(key Key) tcell.Key {
	switch key {
	case KeyRune:
		return tcell.KeyRune
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBackspace:
		return tcell.KeyBackspace
	case KeyDelete:
		return tcell.KeyDelete
	case KeyHome:
		return tcell.KeyHome
	case KeyEnd:
		return tcell.KeyEnd
	case KeyPageUp:
		return tcell.KeyPgUp
	case KeyPageDown:
		return tcell.KeyPgDn
	case KeyUp:
		return tcell.KeyUp
	case KeyDown:
		return tcell.KeyDown
	case KeyLeft:
		return tcell.KeyLeft
	case KeyRight:
		return tcell.KeyRight
	case KeyCtrlC:
		return tcell.KeyCtrlC
	case KeyCtrlL:
		return tcell.KeyCtrlL
	case KeyCtrlQ:
		return tcell.KeyCtrlQ
	default:
		return tcell.KeyRune
	}
}

func convertMod(mod tcell.ModMask) ModMask {
	var m ModMask
	if mod&tcell.ModShift != 0 {
		m |= ModShift
	}
	if mod&tcell.ModCtrl != 0 {
		m |= ModCtrl
	}
	if mod&tcell.ModAlt != 0 {
		m |= ModAlt
	}
	if mod&tcell.ModMeta != 0 {
		m |= ModMeta
	}
	return m
}

func convertToTcellMod(mod ModMask) tcell.ModMask {
	var m tcell.ModMask
	if mod.Has(ModShift) {
		m |= tcell.ModShift
	}
	if mod.Has(ModCtrl) {
		m |= tcell.ModCtrl
	}
	if mod.Has(ModAlt) {
		m |= tcell.ModAlt
	}
	if mod.Has(ModMeta) {
		m |= tcell.ModMeta
	}
	return m
}

// convertButtons translates the tcell button mask. Button1 is the
// primary button and Button2 the secondary, per tcell's numbering.
func convertButtons(buttons tcell.ButtonMask) ButtonMask {
	var b ButtonMask
	if buttons&tcell.Button1 != 0 {
		b |= ButtonLeft
	}
	if buttons&tcell.Button2 != 0 {
		b |= ButtonRight
	}
	if buttons&tcell.Button3 != 0 {
		b |= ButtonMiddle
	}
	if buttons&tcell.Button4 != 0 {
		b |= ButtonBack
	}
	if buttons&tcell.Button5 != 0 {
		b |= ButtonForward
	}
	if buttons&tcell.WheelUp != 0 {
		b |= WheelUp
	}
	if buttons&tcell.WheelDown != 0 {
		b |= WheelDown
	}
	if buttons&tcell.WheelLeft != 0 {
		b |= WheelLeft
	}
	if buttons&tcell.WheelRight != 0 {
		b |= WheelRight
	}
	return b
}

func convertToTcellButtons(buttons ButtonMask) tcell.ButtonMask {
	var b tcell.ButtonMask
	if buttons.Has(ButtonLeft) {
		b |= tcell.Button1
	}
	if buttons.Has(ButtonRight) {
		b |= tcell.Button2
	}
	if buttons.Has(ButtonMiddle) {
		b |= tcell.Button3
	}
	if buttons.Has(ButtonBack) {
		b |= tcell.Button4
	}
	if buttons.Has(ButtonForward) {
		b |= tcell.Button5
	}
	if buttons.Has(WheelUp) {
		b |= tcell.WheelUp
	}
	if buttons.Has(WheelDown) {
		b |= tcell.WheelDown
	}
	if buttons.Has(WheelLeft) {
		b |= tcell.WheelLeft
	}
	if buttons.Has(WheelRight) {
		b |= tcell.WheelRight
	}
	return b
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrBlink) {
		style = style.Blink(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}

	return style
}

func convertColor(c core.Color) tcell.Color {
	if c.IsIndexed {
		return tcell.PaletteColor(int(c.Index))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func convertTcellStyle(style tcell.Style) core.Style {
	fg, bg, attrs := style.Decompose()

	s := core.Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
	}

	if attrs&tcell.AttrBold != 0 {
		s.Attributes = s.Attributes.With(core.AttrBold)
	}
	if attrs&tcell.AttrDim != 0 {
		s.Attributes = s.Attributes.With(core.AttrDim)
	}
	if attrs&tcell.AttrItalic != 0 {
		s.Attributes = s.Attributes.With(core.AttrItalic)
	}
	if attrs&tcell.AttrUnderline != 0 {
		s.Attributes = s.Attributes.With(core.AttrUnderline)
	}
	if attrs&tcell.AttrBlink != 0 {
		s.Attributes = s.Attributes.With(core.AttrBlink)
	}
	if attrs&tcell.AttrReverse != 0 {
		s.Attributes = s.Attributes.With(core.AttrReverse)
	}
	if attrs&tcell.AttrStrikeThrough != 0 {
		s.Attributes = s.Attributes.With(core.AttrStrikethrough)
	}

	return s
}

// convertTcellColor maps back from tcell colors. Palette entries keep
// their index; anything else is carried as 24-bit RGB.
func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.DefaultColor()
	}
	if tc >= tcell.ColorValid && tc < tcell.ColorIsRGB {
		return core.ColorFromIndex(uint8(tc - tcell.ColorValid))
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return core.DefaultColor()
	}
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}
