package engine

import "errors"

// Errors returned by engine operations. Callers match them with errors.Is;
// the returned error usually wraps one of these with the offending value.
var (
	// ErrInvalidConfiguration is returned by Initialize for a config that
	// cannot produce a well-formed game (grid size <= 1, goal <= 0, ...).
	ErrInvalidConfiguration = errors.New("engine: invalid configuration")

	// ErrInvalidDirection is returned by Move for a direction outside
	// up/down/left/right. The state passed in is returned unchanged.
	ErrInvalidDirection = errors.New("engine: invalid direction")

	// ErrCorruptState is returned by Restore when a loaded snapshot breaks
	// a state invariant.
	ErrCorruptState = errors.New("engine: corrupt state")
)
