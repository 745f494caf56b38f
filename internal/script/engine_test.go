package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/event/events"
	"github.com/dshills/dragstorm/internal/event/topic"
)

func newTestEngine(t *testing.T) (*Engine, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	eng := New(bus)
	t.Cleanup(func() { eng.Close() })
	return eng, bus
}

func publish(t *testing.T, bus *event.Bus, ev any) {
	t.Helper()
	if err := bus.Publish(ev); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func globalNumber(t *testing.T, eng *Engine, name string) float64 {
	t.Helper()
	v := eng.L.GetGlobal(name)
	num, ok := v.(glua.LNumber)
	if !ok {
		t.Fatalf("global %s = %v (%T), want number", name, v, v)
	}
	return float64(num)
}

func globalString(t *testing.T, eng *Engine, name string) string {
	t.Helper()
	v := eng.L.GetGlobal(name)
	str, ok := v.(glua.LString)
	if !ok {
		t.Fatalf("global %s = %v (%T), want string", name, v, v)
	}
	return string(str)
}

func globalBool(t *testing.T, eng *Engine, name string) bool {
	t.Helper()
	v := eng.L.GetGlobal(name)
	b, ok := v.(glua.LBool)
	if !ok {
		t.Fatalf("global %s = %v (%T), want bool", name, v, v)
	}
	return bool(b)
}

func TestNewEngine(t *testing.T) {
	eng, _ := newTestEngine(t)

	if eng.L == nil {
		t.Fatal("New() left L nil")
	}
	if eng.HookCount() != 0 {
		t.Errorf("HookCount() = %d, want 0", eng.HookCount())
	}
	if eng.Path() != "" {
		t.Errorf("Path() = %q, want empty", eng.Path())
	}
}

func TestEngineDoString(t *testing.T) {
	eng, _ := newTestEngine(t)

	if err := eng.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := globalNumber(t, eng, "x"); got != 2 {
		t.Errorf("x = %v, want 2", got)
	}
}

func TestEngineDoStringSyntaxError(t *testing.T) {
	eng, _ := newTestEngine(t)

	if err := eng.DoString(`invalid lua code !!!`); err == nil {
		t.Error("DoString() with invalid code should return error")
	}
}

func TestEngineLoadFile(t *testing.T) {
	eng, _ := newTestEngine(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "hooks.lua")
	source := `loaded_marker = 17
dragstorm.on("drag.started", function(e) end)
`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := eng.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := globalNumber(t, eng, "loaded_marker"); got != 17 {
		t.Errorf("loaded_marker = %v, want 17", got)
	}
	if eng.Path() != path {
		t.Errorf("Path() = %q, want %q", eng.Path(), path)
	}
	if eng.HookCount() != 1 {
		t.Errorf("HookCount() = %d, want 1", eng.HookCount())
	}
}

func TestEngineLoadMissingFile(t *testing.T) {
	eng, _ := newTestEngine(t)

	err := eng.Load(filepath.Join(t.TempDir(), "absent.lua"))
	if err == nil {
		t.Error("Load() of a missing file should return error")
	}
}

func TestEngineClose(t *testing.T) {
	bus := event.NewBus()
	eng := New(bus)

	if err := eng.DoString(`dragstorm.on("drag.started", function(e) end)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := bus.Stats().ActiveSubscribers; got != 1 {
		t.Fatalf("ActiveSubscribers = %d, want 1", got)
	}

	if err := eng.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := bus.Stats().ActiveSubscribers; got != 0 {
		t.Errorf("ActiveSubscribers after Close = %d, want 0", got)
	}

	if err := eng.DoString(`x = 1`); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("DoString() after Close error = %v, want ErrEngineClosed", err)
	}

	// Double close should not panic.
	if err := eng.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestHookReceivesDragStarted(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`
		dragstorm.on("drag.started", function(e)
			got_type = e.type
			got_x = e.x
			got_y = e.y
			got_button = e.button
		end)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	publish(t, bus, event.NewEvent(events.TopicDragStarted, events.DragStarted{
		X:         4,
		Y:         2,
		Button:    events.ButtonLeft,
		Timestamp: time.Now(),
	}, "test"))

	if got := globalString(t, eng, "got_type"); got != "drag.started" {
		t.Errorf("e.type = %q, want %q", got, "drag.started")
	}
	if got := globalNumber(t, eng, "got_x"); got != 4 {
		t.Errorf("e.x = %v, want 4", got)
	}
	if got := globalNumber(t, eng, "got_y"); got != 2 {
		t.Errorf("e.y = %v, want 2", got)
	}
	if got := globalString(t, eng, "got_button"); got != "left" {
		t.Errorf("e.button = %q, want %q", got, "left")
	}
}

func TestHookReceivesDragEnded(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`
		dragstorm.on("drag.ended", function(e)
			got_total_dx = e.total_dx
			got_total_dy = e.total_dy
			got_duration = e.duration_ms
		end)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	publish(t, bus, event.NewEvent(events.TopicDragEnded, events.DragEnded{
		X:        10,
		Y:        5,
		TotalDX:  6,
		TotalDY:  3,
		Duration: 1500 * time.Millisecond,
	}, "test"))

	if got := globalNumber(t, eng, "got_total_dx"); got != 6 {
		t.Errorf("e.total_dx = %v, want 6", got)
	}
	if got := globalNumber(t, eng, "got_total_dy"); got != 3 {
		t.Errorf("e.total_dy = %v, want 3", got)
	}
	if got := globalNumber(t, eng, "got_duration"); got != 1500 {
		t.Errorf("e.duration_ms = %v, want 1500", got)
	}
}

func TestHookReceivesDroppedPayload(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`
		dragstorm.on("dnd.dropped", function(e)
			drop_tag = e.tag
			drop_kind = dragstorm.json_get(e.payload, "kind")
			drop_count = dragstorm.json_get(e.payload, "count")
		end)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	publish(t, bus, event.NewEvent(events.TopicDNDDropped, events.DNDDropped{
		Tag:     "cargo",
		X:       5,
		Y:       6,
		Payload: []byte(`{"kind":"crate","count":2}`),
	}, "test"))

	if got := globalString(t, eng, "drop_tag"); got != "cargo" {
		t.Errorf("e.tag = %q, want %q", got, "cargo")
	}
	if got := globalString(t, eng, "drop_kind"); got != "crate" {
		t.Errorf("json_get kind = %q, want %q", got, "crate")
	}
	if got := globalNumber(t, eng, "drop_count"); got != 2 {
		t.Errorf("json_get count = %v, want 2", got)
	}
}

func TestHookReceivesMouseClicked(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`
		dragstorm.on("mouse.clicked", function(e)
			click_button = e.button
			click_count = e.clicks
			click_mod = e.modifiers[1]
		end)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	publish(t, bus, event.NewEvent(events.TopicMouseClicked, events.MouseClicked{
		Button:     events.ButtonLeft,
		X:          2,
		Y:          3,
		Modifiers:  []events.Modifier{events.ModifierCtrl},
		ClickCount: 2,
		Timestamp:  time.Now(),
	}, "test"))

	if got := globalString(t, eng, "click_button"); got != "left" {
		t.Errorf("e.button = %q, want %q", got, "left")
	}
	if got := globalNumber(t, eng, "click_count"); got != 2 {
		t.Errorf("e.clicks = %v, want 2", got)
	}
	if got := globalString(t, eng, "click_mod"); got != "ctrl" {
		t.Errorf("e.modifiers[1] = %q, want %q", got, "ctrl")
	}
}

func TestHookWildcardPattern(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`
		seen = 0
		dragstorm.on("dnd.**", function(e) seen = seen + 1 end)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	publish(t, bus, event.NewEvent(events.TopicDNDStarted, events.DNDStarted{Tag: "cargo", X: 1, Y: 1}, "test"))
	publish(t, bus, event.NewEvent(events.TopicDNDTargetEntered, events.DNDTargetEntered{Tag: "cargo", X: 2, Y: 2}, "test"))
	publish(t, bus, event.NewEvent(events.TopicDNDDropped, events.DNDDropped{Tag: "cargo", X: 3, Y: 3, Payload: []byte(`{}`)}, "test"))

	if got := globalNumber(t, eng, "seen"); got != 3 {
		t.Errorf("seen = %v, want 3", got)
	}
}

func TestHookOnce(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`
		fired = 0
		dragstorm.once("drag.started", function(e) fired = fired + 1 end)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if eng.HookCount() != 1 {
		t.Fatalf("HookCount() = %d, want 1", eng.HookCount())
	}

	ev := event.NewEvent(events.TopicDragStarted, events.DragStarted{X: 1, Y: 1, Button: events.ButtonLeft, Timestamp: time.Now()}, "test")
	publish(t, bus, ev)
	publish(t, bus, ev)

	if got := globalNumber(t, eng, "fired"); got != 1 {
		t.Errorf("fired = %v, want 1", got)
	}
	if eng.HookCount() != 0 {
		t.Errorf("HookCount() after delivery = %d, want 0", eng.HookCount())
	}
}

func TestHookOff(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`
		count = 0
		local id = dragstorm.on("drag.moved", function(e) count = count + 1 end)
		removed = dragstorm.off(id)
		removed_again = dragstorm.off(id)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if !globalBool(t, eng, "removed") {
		t.Error("off(id) = false, want true")
	}
	if globalBool(t, eng, "removed_again") {
		t.Error("second off(id) = true, want false")
	}

	publish(t, bus, event.NewEvent(events.TopicDragMoved, events.DragMoved{X: 1, Y: 1, DX: 1, DY: 0}, "test"))

	if got := globalNumber(t, eng, "count"); got != 0 {
		t.Errorf("count after off = %v, want 0", got)
	}
	if eng.HookCount() != 0 {
		t.Errorf("HookCount() = %d, want 0", eng.HookCount())
	}
}

func TestHookErrorSurfaces(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`dragstorm.on("drag.started", function(e) error("boom") end)`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	err = bus.Publish(event.NewEvent(events.TopicDragStarted, events.DragStarted{X: 1, Y: 1, Button: events.ButtonLeft, Timestamp: time.Now()}, "test"))
	if err == nil {
		t.Fatal("Publish() should surface the hook error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Publish() error = %v, want to contain %q", err, "boom")
	}
}

func TestEmitRoundTrip(t *testing.T) {
	eng, bus := newTestEngine(t)

	var got map[string]any
	_, err := bus.SubscribeFunc(topic.Topic("script.note"), func(ev any) error {
		if e, ok := ev.(event.Event[map[string]any]); ok {
			got = e.Payload
		}
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}

	err = eng.DoString(`
		dragstorm.on("script.note", function(e)
			note_msg = e.msg
			note_n = e.n
			note_type = e.type
		end)
		dragstorm.emit("note", { msg = "hi", n = 3, tags = {"a", "b"} })
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if gotMsg := globalString(t, eng, "note_msg"); gotMsg != "hi" {
		t.Errorf("e.msg = %q, want %q", gotMsg, "hi")
	}
	if gotN := globalNumber(t, eng, "note_n"); gotN != 3 {
		t.Errorf("e.n = %v, want 3", gotN)
	}
	if gotType := globalString(t, eng, "note_type"); gotType != "script.note" {
		t.Errorf("e.type = %q, want %q", gotType, "script.note")
	}

	if got == nil {
		t.Fatal("Go subscriber did not receive the script event")
	}
	if got["msg"] != "hi" {
		t.Errorf("payload msg = %v, want %q", got["msg"], "hi")
	}
	if got["n"] != float64(3) {
		t.Errorf("payload n = %v, want 3", got["n"])
	}
	tags, ok := got["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Errorf("payload tags = %v, want [a b]", got["tags"])
	}
}

func TestEmitFromHook(t *testing.T) {
	eng, bus := newTestEngine(t)

	err := eng.DoString(`
		dragstorm.on("drag.started", function(e)
			dragstorm.emit("relay", { from_x = e.x })
		end)
		dragstorm.on("script.relay", function(e)
			relay_x = e.from_x
		end)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	publish(t, bus, event.NewEvent(events.TopicDragStarted, events.DragStarted{X: 9, Y: 1, Button: events.ButtonLeft, Timestamp: time.Now()}, "test"))

	if got := globalNumber(t, eng, "relay_x"); got != 9 {
		t.Errorf("relay_x = %v, want 9", got)
	}
}

func TestEmitInvalidName(t *testing.T) {
	eng, _ := newTestEngine(t)

	if err := eng.DoString(`dragstorm.emit("")`); err == nil {
		t.Error("emit with an empty name should raise")
	}
}

func TestJSONGet(t *testing.T) {
	eng, _ := newTestEngine(t)

	err := eng.DoString(`
		local doc = '{"name":"crate","tags":["a","b"],"pos":{"x":3,"y":7},"heavy":true}'
		name = dragstorm.json_get(doc, "name")
		pos_x = dragstorm.json_get(doc, "pos.x")
		heavy = dragstorm.json_get(doc, "heavy")
		missing_is_nil = (dragstorm.json_get(doc, "absent") == nil)
		local tags = dragstorm.json_get(doc, "tags")
		tag_count = #tags
		first_tag = tags[1]
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if got := globalString(t, eng, "name"); got != "crate" {
		t.Errorf("json_get name = %q, want %q", got, "crate")
	}
	if got := globalNumber(t, eng, "pos_x"); got != 3 {
		t.Errorf("json_get pos.x = %v, want 3", got)
	}
	if !globalBool(t, eng, "heavy") {
		t.Error("json_get heavy = false, want true")
	}
	if !globalBool(t, eng, "missing_is_nil") {
		t.Error("json_get of a missing path should return nil")
	}
	if got := globalNumber(t, eng, "tag_count"); got != 2 {
		t.Errorf("tag count = %v, want 2", got)
	}
	if got := globalString(t, eng, "first_tag"); got != "a" {
		t.Errorf("first tag = %q, want %q", got, "a")
	}
}

func TestJSONSet(t *testing.T) {
	eng, _ := newTestEngine(t)

	err := eng.DoString(`
		out = dragstorm.json_set("{}", "pos.x", 4)
		out = dragstorm.json_set(out, "name", "crate")
		out = dragstorm.json_set(out, "tags", {"a", "b"})
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	doc := globalString(t, eng, "out")
	if got := gjson.Get(doc, "pos.x").Int(); got != 4 {
		t.Errorf("pos.x = %d, want 4", got)
	}
	if got := gjson.Get(doc, "name").String(); got != "crate" {
		t.Errorf("name = %q, want %q", got, "crate")
	}
	if got := gjson.Get(doc, "tags.#").Int(); got != 2 {
		t.Errorf("tags length = %d, want 2", got)
	}

	if err := eng.DoString(`dragstorm.json_set("{}", "", 1)`); err == nil {
		t.Error("json_set with an empty path should raise")
	}
}

func TestLogSink(t *testing.T) {
	bus := event.NewBus()

	var captured []string
	eng := New(bus, WithLogf(func(format string, args ...any) {
		captured = append(captured, fmt.Sprintf(format, args...))
	}))
	defer eng.Close()

	if err := eng.DoString(`dragstorm.log("moved", 42, true)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if len(captured) != 1 {
		t.Fatalf("captured %d log lines, want 1", len(captured))
	}
	if captured[0] != "moved 42 true" {
		t.Errorf("log line = %q, want %q", captured[0], "moved 42 true")
	}
}

func TestCallTimeout(t *testing.T) {
	bus := event.NewBus()
	eng := New(bus, WithCallTimeout(50*time.Millisecond))
	defer eng.Close()

	err := eng.DoString(`while true do end`)
	if !errors.Is(err, ErrCallTimeout) {
		t.Fatalf("DoString() error = %v, want ErrCallTimeout", err)
	}
	if !eng.Failed() {
		t.Error("Failed() = false after a timed out call")
	}

	if err := eng.DoString(`x = 1`); !errors.Is(err, ErrCallTimeout) {
		t.Errorf("DoString() on a failed engine error = %v, want ErrCallTimeout", err)
	}
}

func TestFailedEngineSkipsHooks(t *testing.T) {
	bus := event.NewBus()
	eng := New(bus, WithCallTimeout(50*time.Millisecond))
	defer eng.Close()

	if err := eng.DoString(`dragstorm.on("drag.started", function(e) end)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if err := eng.DoString(`while true do end`); !errors.Is(err, ErrCallTimeout) {
		t.Fatalf("DoString() error = %v, want ErrCallTimeout", err)
	}

	// Delivery to a failed engine is a silent no-op.
	err := bus.Publish(event.NewEvent(events.TopicDragStarted, events.DragStarted{X: 1, Y: 1, Button: events.ButtonLeft, Timestamp: time.Now()}, "test"))
	if err != nil {
		t.Errorf("Publish() to a failed engine error = %v", err)
	}
}

func BenchmarkHookDispatch(b *testing.B) {
	bus := event.NewBus()
	eng := New(bus, WithCallTimeout(0))
	defer eng.Close()

	if err := eng.DoString(`dragstorm.on("drag.moved", function(e) end)`); err != nil {
		b.Fatal(err)
	}
	ev := event.NewEvent(events.TopicDragMoved, events.DragMoved{X: 1, Y: 2, DX: 1, DY: 0}, "bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bus.Publish(ev)
	}
}
