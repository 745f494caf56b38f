package app

import (
	"time"

	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/event/events"
	"github.com/dshills/dragstorm/internal/event/topic"
	"github.com/dshills/dragstorm/internal/input/mouse"
	"github.com/dshills/dragstorm/internal/renderer/backend"
	"github.com/dshills/dragstorm/internal/renderer/core"
)

// eventLoop polls the backend and routes events until a quit is
// requested. Every interaction runs on this goroutine.
func (app *Application) eventLoop(screen *backend.BufferedBackend) error {
	incoming := app.startInputPolling(screen)
	app.render(screen)

	for {
		select {
		case <-app.done:
			return nil
		case ev := <-incoming:
			if err := app.handleBackendEvent(ev, screen); err != nil {
				return err
			}
			app.render(screen)
		}
	}
}

// startInputPolling moves the blocking PollEvent call off the loop
// goroutine. Shutdown posts an interrupt event to unblock it.
func (app *Application) startInputPolling(screen *backend.BufferedBackend) <-chan backend.Event {
	ch := make(chan backend.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			select {
			case ch <- ev:
			case <-app.done:
				return
			}
		}
	}()
	return ch
}

// handleBackendEvent dispatches one terminal event.
func (app *Application) handleBackendEvent(ev backend.Event, screen *backend.BufferedBackend) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev, screen)
	case backend.EventMouse:
		app.handleMouse(ev)
		return nil
	case backend.EventResize:
		app.handleResize(ev, screen)
		return nil
	case backend.EventFocus:
		if !ev.Focused {
			// Releases may happen while unfocused and never reach us.
			app.cancelGestures()
		}
		return nil
	default:
		return nil
	}
}

// handleKey maps the handful of keys the toolkit answers to.
func (app *Application) handleKey(ev backend.Event, screen *backend.BufferedBackend) error {
	switch ev.Key {
	case backend.KeyCtrlC, backend.KeyCtrlQ:
		return ErrQuit
	case backend.KeyEscape:
		// Escape cancels an in-flight gesture before it quits.
		if app.gestureInProgress() {
			app.cancelGestures()
			return nil
		}
		return ErrQuit
	case backend.KeyCtrlL:
		screen.MarkFullRedraw()
		return nil
	case backend.KeyRune:
		if ev.Rune == 'q' || ev.Rune == 'Q' {
			return ErrQuit
		}
		return nil
	default:
		return nil
	}
}

// handleMouse converts a raw button-state report into edge events and
// feeds them through the interaction stack: the drag-and-drop router
// first, the free-drag tracker when the router declines, and the
// click tracker for everything that reaches it.
func (app *Application) handleMouse(ev backend.Event) {
	sample := mouse.Sample{
		Position:  mouse.Position{X: ev.MouseX, Y: ev.MouseY},
		Buttons:   buttonSetFromMask(ev.Buttons),
		Modifiers: modifiersFromMask(ev.Mod),
		Timestamp: time.Now(),
	}

	for _, mev := range app.synth.Feed(sample) {
		app.routeMouseEvent(mev)
	}
}

func (app *Application) routeMouseEvent(mev mouse.Event) {
	if mev.Action == mouse.ActionPress && mev.Button.IsScroll() {
		if se := mouse.ParseScrollEvent(mev, app.mouseCfg); se != nil {
			app.publish(events.TopicMouseScrolled, events.MouseScrolled{
				Direction: se.Direction.String(),
				Lines:     se.Lines,
				X:         mev.Position.X,
				Y:         mev.Position.Y,
				Modifiers: modifierNames(mev.Modifiers),
			})
		}
		return
	}

	handled := app.router.Handle(mev)
	app.syncGhost()
	if !handled && app.scene != nil {
		app.scene.HandleMouse(mev)
	}

	if click := app.clicks.Handle(mev); click != nil {
		app.publish(events.TopicMouseClicked, events.MouseClicked{
			Button:     events.Button(click.Button.String()),
			X:          click.Position.X,
			Y:          click.Position.Y,
			Modifiers:  modifierNames(click.Modifiers),
			ClickCount: click.Count,
			Timestamp:  click.Timestamp,
		})
	}
}

func (app *Application) handleResize(ev backend.Event, screen *backend.BufferedBackend) {
	app.overlays.SetViewport(core.NewRect(0, 0, ev.Width, ev.Height))
	if app.scene != nil {
		app.scene.Layout(ev.Width, ev.Height)
	}
	screen.MarkFullRedraw()
}

// syncGhost keeps the ghost label tracking the drag-and-drop gesture.
func (app *Application) syncGhost() {
	if !app.config.Ghost.Enabled {
		return
	}

	pos, _ := app.router.Position()
	if tag, dragging := app.router.ActiveTag(); dragging {
		if _, shown := app.overlays.Ghost(); !shown {
			label := tag
			if app.scene != nil {
				label = app.scene.GhostLabel(tag)
			}
			app.overlays.ShowGhost(label, pos.X, pos.Y)
		} else {
			app.overlays.MoveGhost(pos.X, pos.Y)
		}
		return
	}
	app.overlays.ClearGhost()
}

// gestureInProgress reports whether any drag is pending or active.
func (app *Application) gestureInProgress() bool {
	if _, pressed := app.router.Position(); pressed {
		return true
	}
	return app.scene != nil && app.scene.DragInProgress()
}

// cancelGestures aborts every gesture in flight and forgets held
// button state.
func (app *Application) cancelGestures() {
	app.router.Cancel()
	if app.scene != nil {
		app.scene.CancelDrag()
	}
	app.synth.Reset()
	app.clicks.Reset()
	app.overlays.ClearGhost()
}

// render repaints the scene with overlays composited on top.
func (app *Application) render(screen *backend.BufferedBackend) {
	if app.scene != nil {
		app.scene.Render(screen)
	}
	screen.Show()
}

// publish sends an event on the bus, logging delivery failures.
func (app *Application) publish(t topic.Topic, payload any) {
	ev := event.NewEvent(t, payload, "app")
	if err := app.bus.Publish(ev); err != nil {
		app.Logger().WithComponent("bus").Warn("publish %s: %v", t, err)
	}
}

// buttonSetFromMask translates the backend's raw button mask into the
// mouse package's button set, wheel impulses included.
func buttonSetFromMask(mask backend.ButtonMask) mouse.ButtonSet {
	var set mouse.ButtonSet
	for _, m := range []struct {
		bit    backend.ButtonMask
		button mouse.Button
	}{
		{backend.ButtonLeft, mouse.ButtonLeft},
		{backend.ButtonRight, mouse.ButtonRight},
		{backend.ButtonMiddle, mouse.ButtonMiddle},
		{backend.ButtonBack, mouse.ButtonBack},
		{backend.ButtonForward, mouse.ButtonForward},
		{backend.WheelUp, mouse.ButtonScrollUp},
		{backend.WheelDown, mouse.ButtonScrollDown},
		{backend.WheelLeft, mouse.ButtonScrollLeft},
		{backend.WheelRight, mouse.ButtonScrollRight},
	} {
		if mask.Has(m.bit) {
			set = set.With(m.button)
		}
	}
	return set
}

// modifiersFromMask translates backend modifiers into mouse modifiers.
func modifiersFromMask(mod backend.ModMask) mouse.Modifier {
	var m mouse.Modifier
	if mod.Has(backend.ModShift) {
		m = m.With(mouse.ModShift)
	}
	if mod.Has(backend.ModCtrl) {
		m = m.With(mouse.ModCtrl)
	}
	if mod.Has(backend.ModAlt) {
		m = m.With(mouse.ModAlt)
	}
	if mod.Has(backend.ModMeta) {
		m = m.With(mouse.ModMeta)
	}
	return m
}

// modifierNames renders modifiers as event payload strings.
func modifierNames(m mouse.Modifier) []events.Modifier {
	var names []events.Modifier
	if m.HasCtrl() {
		names = append(names, events.ModifierCtrl)
	}
	if m.HasShift() {
		names = append(names, events.ModifierShift)
	}
	if m.HasAlt() {
		names = append(names, events.ModifierAlt)
	}
	if m.HasMeta() {
		names = append(names, events.ModifierMeta)
	}
	return names
}
