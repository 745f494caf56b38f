package mouse

import (
	"testing"
	"time"
)

func TestButtonString(t *testing.T) {
	tests := []struct {
		button   Button
		expected string
	}{
		{ButtonNone, "none"},
		{ButtonLeft, "left"},
		{ButtonMiddle, "middle"},
		{ButtonRight, "right"},
		{ButtonScrollUp, "scroll-up"},
		{ButtonScrollDown, "scroll-down"},
		{ButtonScrollLeft, "scroll-left"},
		{ButtonScrollRight, "scroll-right"},
		{ButtonBack, "back"},
		{ButtonForward, "forward"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.button.String(); got != tt.expected {
				t.Errorf("Button.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestButtonIsScroll(t *testing.T) {
	scrollButtons := []Button{ButtonScrollUp, ButtonScrollDown, ButtonScrollLeft, ButtonScrollRight}
	nonScrollButtons := []Button{ButtonNone, ButtonLeft, ButtonMiddle, ButtonRight, ButtonBack, ButtonForward}

	for _, b := range scrollButtons {
		if !b.IsScroll() {
			t.Errorf("%s.IsScroll() = false, want true", b)
		}
	}

	for _, b := range nonScrollButtons {
		if b.IsScroll() {
			t.Errorf("%s.IsScroll() = true, want false", b)
		}
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionNone, "none"},
		{ActionPress, "press"},
		{ActionRelease, "release"},
		{ActionMove, "move"},
		{ActionDrag, "drag"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.action.String(); got != tt.expected {
				t.Errorf("Action.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPositionEqual(t *testing.T) {
	p1 := Position{X: 10, Y: 20}
	p2 := Position{X: 10, Y: 20}
	p3 := Position{X: 15, Y: 20}

	if !p1.Equal(p2) {
		t.Error("Equal positions not detected as equal")
	}

	if p1.Equal(p3) {
		t.Error("Different positions detected as equal")
	}
}

func TestPositionDistance(t *testing.T) {
	tests := []struct {
		p1, p2   Position
		expected int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 0}, Position{3, 4}, 7},   // Manhattan distance
		{Position{5, 5}, Position{2, 1}, 7},   // 3 + 4
		{Position{-1, -1}, Position{1, 1}, 4}, // 2 + 2
	}

	for _, tt := range tests {
		got := tt.p1.Distance(tt.p2)
		if got != tt.expected {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.p1, tt.p2, got, tt.expected)
		}
	}
}

func TestPositionDistanceTo(t *testing.T) {
	tests := []struct {
		p1, p2   Position
		expected float64
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 0}, Position{3, 4}, 5}, // 3-4-5 triangle
		{Position{0, 0}, Position{0, 7}, 7},
		{Position{2, 2}, Position{-1, -2}, 5},
	}

	for _, tt := range tests {
		got := tt.p1.DistanceTo(tt.p2)
		if got != tt.expected {
			t.Errorf("DistanceTo(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.expected)
		}
	}
}

func TestPositionShift(t *testing.T) {
	p := Position{X: 5, Y: 10}
	got := p.Shift(Delta{DX: 3, DY: -4})
	want := Position{X: 8, Y: 6}
	if !got.Equal(want) {
		t.Errorf("Shift = %v, want %v", got, want)
	}
}

func TestDeltaBetween(t *testing.T) {
	from := Position{X: 10, Y: 10}
	to := Position{X: 14, Y: 7}

	d := DeltaBetween(from, to)
	if d.DX != 4 || d.DY != -3 {
		t.Errorf("DeltaBetween = %v, want {4, -3}", d)
	}

	if !DeltaBetween(from, from).IsZero() {
		t.Error("DeltaBetween(p, p) should be zero")
	}
}

func TestClickTrackerSingleClick(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 4)

	pos := Position{X: 100, Y: 100}
	now := time.Now()

	count := tracker.recordClick(pos, now)
	if count != 1 {
		t.Errorf("First click count = %d, want 1", count)
	}
}

func TestClickTrackerDoubleClick(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 4)

	pos := Position{X: 100, Y: 100}
	now := time.Now()

	tracker.recordClick(pos, now)
	count := tracker.recordClick(pos, now.Add(100*time.Millisecond))

	if count != 2 {
		t.Errorf("Double click count = %d, want 2", count)
	}
}

func TestClickTrackerTripleClick(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 4)

	pos := Position{X: 100, Y: 100}
	now := time.Now()

	tracker.recordClick(pos, now)
	tracker.recordClick(pos, now.Add(100*time.Millisecond))
	count := tracker.recordClick(pos, now.Add(200*time.Millisecond))

	if count != 3 {
		t.Errorf("Triple click count = %d, want 3", count)
	}
}

func TestClickTrackerQuadClickWraps(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 4)

	pos := Position{X: 100, Y: 100}
	now := time.Now()

	tracker.recordClick(pos, now)
	tracker.recordClick(pos, now.Add(100*time.Millisecond))
	tracker.recordClick(pos, now.Add(200*time.Millisecond))
	count := tracker.recordClick(pos, now.Add(300*time.Millisecond))

	if count != 1 {
		t.Errorf("Quad click count = %d, want 1 (wrapped)", count)
	}
}

func TestClickTrackerTimeoutResets(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 4)

	pos := Position{X: 100, Y: 100}
	now := time.Now()

	tracker.recordClick(pos, now)
	// Wait longer than double-click timeout
	count := tracker.recordClick(pos, now.Add(500*time.Millisecond))

	if count != 1 {
		t.Errorf("Click after timeout = %d, want 1", count)
	}
}

func TestClickTrackerDistanceResets(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 4)

	now := time.Now()

	tracker.recordClick(Position{X: 100, Y: 100}, now)
	// Click far away
	count := tracker.recordClick(Position{X: 200, Y: 200}, now.Add(100*time.Millisecond))

	if count != 1 {
		t.Errorf("Click at different position = %d, want 1", count)
	}
}

func TestClickTrackerClockSkew(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 4)

	pos := Position{X: 100, Y: 100}
	now := time.Now()

	tracker.recordClick(pos, now)

	// Second click with earlier timestamp (clock skew)
	count := tracker.recordClick(pos, now.Add(-100*time.Millisecond))
	if count != 1 {
		t.Errorf("Click with negative elapsed time = %d, want 1 (clock skew)", count)
	}
}

func TestHandlerSingleClick(t *testing.T) {
	handler := NewHandler(DefaultConfig())

	event := Event{
		Position:  Position{X: 100, Y: 50},
		Button:    ButtonLeft,
		Modifiers: ModNone,
		Action:    ActionPress,
		Timestamp: time.Now(),
	}

	click := handler.Handle(event)
	if click == nil {
		t.Fatal("Expected click for left press")
	}

	if click.Count != 1 {
		t.Errorf("Count = %d, want 1", click.Count)
	}
	if click.Button != ButtonLeft {
		t.Errorf("Button = %v, want ButtonLeft", click.Button)
	}
	if !click.Position.Equal(event.Position) {
		t.Errorf("Position = %v, want %v", click.Position, event.Position)
	}
}

func TestHandlerDoubleClick(t *testing.T) {
	handler := NewHandler(DefaultConfig())

	now := time.Now()
	pos := Position{X: 100, Y: 50}

	handler.Handle(Event{Position: pos, Button: ButtonLeft, Action: ActionPress, Timestamp: now})

	click := handler.Handle(Event{
		Position:  pos,
		Button:    ButtonLeft,
		Action:    ActionPress,
		Timestamp: now.Add(100 * time.Millisecond),
	})

	if click == nil {
		t.Fatal("Expected click for second press")
	}
	if click.Count != 2 {
		t.Errorf("Count = %d, want 2", click.Count)
	}
	if click.Type() != ClickDouble {
		t.Errorf("Type = %v, want ClickDouble", click.Type())
	}
}

func TestHandlerTripleClick(t *testing.T) {
	handler := NewHandler(DefaultConfig())

	now := time.Now()
	pos := Position{X: 100, Y: 50}

	handler.Handle(Event{Position: pos, Button: ButtonLeft, Action: ActionPress, Timestamp: now})
	handler.Handle(Event{Position: pos, Button: ButtonLeft, Action: ActionPress, Timestamp: now.Add(100 * time.Millisecond)})

	click := handler.Handle(Event{
		Position:  pos,
		Button:    ButtonLeft,
		Action:    ActionPress,
		Timestamp: now.Add(200 * time.Millisecond),
	})

	if click == nil {
		t.Fatal("Expected click for third press")
	}
	if click.Type() != ClickTriple {
		t.Errorf("Type = %v, want ClickTriple", click.Type())
	}
}

func TestHandlerIgnoresNonPress(t *testing.T) {
	handler := NewHandler(DefaultConfig())

	events := []Event{
		{Position: Position{X: 1, Y: 1}, Button: ButtonLeft, Action: ActionRelease},
		{Position: Position{X: 1, Y: 1}, Button: ButtonLeft, Action: ActionMove},
		{Position: Position{X: 1, Y: 1}, Button: ButtonLeft, Action: ActionDrag},
		{Position: Position{X: 1, Y: 1}, Button: ButtonScrollUp, Action: ActionPress},
		{Position: Position{X: 1, Y: 1}, Button: ButtonNone, Action: ActionPress},
	}

	for _, ev := range events {
		if click := handler.Handle(ev); click != nil {
			t.Errorf("Handle(%v/%v) = %v, want nil", ev.Button, ev.Action, click)
		}
	}
}

func TestHandlerReset(t *testing.T) {
	handler := NewHandler(DefaultConfig())

	now := time.Now()
	pos := Position{X: 100, Y: 50}

	handler.Handle(Event{Position: pos, Button: ButtonLeft, Action: ActionPress, Timestamp: now})
	handler.Reset()

	// After reset the next press starts a new sequence
	click := handler.Handle(Event{
		Position:  pos,
		Button:    ButtonLeft,
		Action:    ActionPress,
		Timestamp: now.Add(100 * time.Millisecond),
	})
	if click == nil || click.Count != 1 {
		t.Errorf("Click after reset = %v, want count 1", click)
	}
}

func TestModifierHas(t *testing.T) {
	tests := []struct {
		mods     Modifier
		check    Modifier
		expected bool
	}{
		{ModNone, ModCtrl, false},
		{ModCtrl, ModCtrl, true},
		{ModCtrl | ModAlt, ModCtrl, true},
		{ModCtrl | ModAlt, ModAlt, true},
		{ModCtrl | ModAlt, ModShift, false},
		{ModCtrl | ModAlt | ModShift | ModMeta, ModMeta, true},
	}

	for _, tt := range tests {
		if got := tt.mods.Has(tt.check); got != tt.expected {
			t.Errorf("%v.Has(%v) = %v, want %v", tt.mods, tt.check, got, tt.expected)
		}
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mods     Modifier
		expected string
	}{
		{ModNone, ""},
		{ModCtrl, "Ctrl"},
		{ModAlt, "Alt"},
		{ModShift, "Shift"},
		{ModMeta, "Meta"},
		{ModCtrl | ModAlt, "Ctrl+Alt"},
		{ModCtrl | ModShift, "Ctrl+Shift"},
		{ModCtrl | ModAlt | ModShift | ModMeta, "Ctrl+Alt+Shift+Meta"},
	}

	for _, tt := range tests {
		if got := tt.mods.String(); got != tt.expected {
			t.Errorf("Modifier.String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestModifierNames(t *testing.T) {
	names := (ModCtrl | ModShift).Names()
	if len(names) != 2 || names[0] != "ctrl" || names[1] != "shift" {
		t.Errorf("Names() = %v, want [ctrl shift]", names)
	}

	if ModNone.Names() != nil {
		t.Errorf("ModNone.Names() = %v, want nil", ModNone.Names())
	}
}

func TestModifierWithWithout(t *testing.T) {
	var mod Modifier

	mod = mod.With(ModCtrl)
	if !mod.HasCtrl() {
		t.Error("With(ModCtrl) should set Ctrl")
	}

	mod = mod.With(ModAlt)
	if !mod.HasCtrl() || !mod.HasAlt() {
		t.Error("With(ModAlt) should keep Ctrl and add Alt")
	}

	mod = mod.Without(ModCtrl)
	if mod.HasCtrl() {
		t.Error("Without(ModCtrl) should remove Ctrl")
	}
	if !mod.HasAlt() {
		t.Error("Without(ModCtrl) should keep Alt")
	}
}

func TestScrollDirectionString(t *testing.T) {
	tests := []struct {
		dir      ScrollDirection
		expected string
	}{
		{ScrollNone, "none"},
		{ScrollUp, "up"},
		{ScrollDown, "down"},
		{ScrollLeft, "left"},
		{ScrollRight, "right"},
	}

	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.expected {
			t.Errorf("%v.String() = %q, want %q", tt.dir, got, tt.expected)
		}
	}
}

func TestParseScrollEvent(t *testing.T) {
	config := DefaultConfig()

	event := Event{
		Position: Position{X: 100, Y: 50},
		Button:   ButtonScrollUp,
		Action:   ActionPress,
	}

	scroll := ParseScrollEvent(event, config)
	if scroll == nil {
		t.Fatal("Expected scroll event")
	}

	if scroll.Direction != ScrollUp {
		t.Errorf("Direction = %v, want ScrollUp", scroll.Direction)
	}

	if scroll.Lines != config.ScrollLines {
		t.Errorf("Lines = %d, want %d", scroll.Lines, config.ScrollLines)
	}
}

func TestParseScrollEventShift(t *testing.T) {
	config := DefaultConfig()

	event := Event{
		Position:  Position{X: 100, Y: 50},
		Button:    ButtonScrollDown,
		Modifiers: ModShift,
		Action:    ActionPress,
	}

	scroll := ParseScrollEvent(event, config)
	if scroll == nil {
		t.Fatal("Expected scroll event")
	}

	if scroll.Lines != config.ScrollLinesShift {
		t.Errorf("Lines = %d, want %d", scroll.Lines, config.ScrollLinesShift)
	}
}

func TestParseScrollEventNonScroll(t *testing.T) {
	if scroll := ParseScrollEvent(Event{Button: ButtonLeft, Action: ActionPress}, DefaultConfig()); scroll != nil {
		t.Errorf("ParseScrollEvent(left press) = %v, want nil", scroll)
	}
}

func TestScrollEventIsHorizontalVertical(t *testing.T) {
	vertical := &ScrollEvent{Direction: ScrollUp}
	if !vertical.IsVertical() {
		t.Error("ScrollUp should be vertical")
	}
	if vertical.IsHorizontal() {
		t.Error("ScrollUp should not be horizontal")
	}

	horizontal := &ScrollEvent{Direction: ScrollLeft}
	if !horizontal.IsHorizontal() {
		t.Error("ScrollLeft should be horizontal")
	}
	if horizontal.IsVertical() {
		t.Error("ScrollLeft should not be vertical")
	}
}

func TestClickTypeString(t *testing.T) {
	tests := []struct {
		ct       ClickType
		expected string
	}{
		{ClickSingle, "single"},
		{ClickDouble, "double"},
		{ClickTriple, "triple"},
		{ClickType(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.expected {
			t.Errorf("%v.String() = %q, want %q", tt.ct, got, tt.expected)
		}
	}
}

func TestClickTypeFromCount(t *testing.T) {
	tests := []struct {
		count    int
		expected ClickType
	}{
		{1, ClickSingle},
		{2, ClickDouble},
		{3, ClickTriple},
		{0, ClickSingle},
	}

	for _, tt := range tests {
		c := Click{Count: tt.count}
		if got := c.Type(); got != tt.expected {
			t.Errorf("Click{Count: %d}.Type() = %v, want %v", tt.count, got, tt.expected)
		}
	}
}

// Benchmarks

func BenchmarkHandlerClick(b *testing.B) {
	handler := NewHandler(DefaultConfig())
	event := Event{
		Position: Position{X: 100, Y: 50},
		Button:   ButtonLeft,
		Action:   ActionPress,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Handle(event)
	}
}

func BenchmarkClickTrackerDoubleClick(b *testing.B) {
	tracker := newClickTracker(400*time.Millisecond, 4)
	pos := Position{X: 100, Y: 100}
	now := time.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tracker.recordClick(pos, now)
		tracker.recordClick(pos, now.Add(100*time.Millisecond))
		tracker.reset()
	}
}

func BenchmarkPositionDistanceTo(b *testing.B) {
	p1 := Position{X: 100, Y: 50}
	p2 := Position{X: 105, Y: 53}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p1.DistanceTo(p2)
	}
}
