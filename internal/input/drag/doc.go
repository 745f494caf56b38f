// Package drag turns raw pointer events into drag gestures.
//
// A Tracker arms on a button press, waits for the pointer to travel
// beyond a deadzone, and only then reports a drag. Presses that release
// inside the deadzone degrade to clicks with no drag callbacks at all,
// so click handling and drag handling can share a button without
// stepping on each other.
//
// # Gesture Lifecycle
//
// A gesture moves through three states:
//
//	idle -> pending      on a press of the arming button
//	pending -> active    when travel exceeds Config.DeadZone
//	pending -> idle      on release inside the deadzone (no callbacks)
//	active -> idle       on release (OnEnd) or Cancel (silent)
//
// OnStart fires exactly once per gesture, at the pending to active
// transition, and receives the original press position. Returning false
// from OnStart abandons the gesture on the spot.
//
// # Capture
//
// When a gesture activates, the tracker calls Mount on its Mounter so
// the application can raise a transparent full-screen layer and route
// all pointer input to the drag for its duration. Unmount is called
// when the gesture ends or is canceled. Trackers without a Mounter
// still work; they simply track.
//
// # Thread Safety
//
// Handle must be called from a single goroutine, normally the event
// loop. Accessors such as State and IsDragging are safe from any
// goroutine, and callbacks may call back into the tracker.
package drag
