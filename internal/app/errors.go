package app

import (
	"errors"
	"fmt"
)

// Sentinel errors for application lifecycle control.
var (
	// ErrQuit signals a normal, user-requested shutdown. Run returns
	// it (possibly wrapped) when the quit key is pressed.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning is returned when Run or SetBackend is called
	// while the event loop is live.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoBackend is returned by Run when no terminal backend was
	// installed.
	ErrNoBackend = errors.New("no backend set")
)

// InitError wraps a component initialization failure.
type InitError struct {
	// Component names the part that failed to come up.
	Component string
	// Err is the underlying failure.
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
