// Package mouse provides the pointer event model for dragstorm.
//
// The mouse package defines the shared vocabulary for all interaction
// primitives: buttons, actions, positions, deltas, and modifier keys. It
// also detects single, double, and triple clicks from raw press events.
//
// # Core Types
//
// Event represents a raw mouse input event with position, button,
// modifiers, and action type:
//
//	event := mouse.Event{
//	    Position:  mouse.Position{X: 100, Y: 50},
//	    Button:    mouse.ButtonLeft,
//	    Modifiers: mouse.ModNone,
//	    Action:    mouse.ActionPress,
//	    Timestamp: time.Now(),
//	}
//
// # Click Detection
//
// Handler counts press events into click sequences based on timing and
// position thresholds:
//
//	handler := mouse.NewHandler(mouse.DefaultConfig())
//	if click := handler.Handle(event); click != nil {
//	    fmt.Println(click.Count, click.Type())
//	}
//
// # State Synthesis
//
// Terminal mouse protocols report absolute button state rather than
// edges. Synthesizer diffs successive Samples and emits the presses,
// releases, moves, and drags in between:
//
//	synth := mouse.NewSynthesizer()
//	for _, event := range synth.Feed(sample) {
//	    tracker.Handle(event)
//	}
//
// # Distances
//
// Position carries two distance metrics: Distance (Manhattan) for click
// proximity and DistanceTo (Euclidean) for drag deadzone thresholding.
//
// # Thread Safety
//
// Handler is safe for concurrent use. All state mutations are properly
// synchronized with mutex protection.
package mouse
