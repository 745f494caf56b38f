package script

import "errors"

// Errors for engine operations.
var (
	// ErrEngineClosed is returned when operating on a closed engine.
	ErrEngineClosed = errors.New("script engine is closed")

	// ErrCallTimeout is returned when a script call exceeds its time
	// budget. The engine stops running script code once this happens.
	ErrCallTimeout = errors.New("script call timed out")
)
