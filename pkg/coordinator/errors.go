package coordinator

import "errors"

var (
	// ErrRunExists is returned when a run id is registered twice.
	ErrRunExists = errors.New("run already registered")

	// ErrRunNotRegistered is returned for operations on an unknown run id.
	ErrRunNotRegistered = errors.New("run not registered")

	// ErrCallDepthExceeded is returned when a nested run is deeper than the configured maximum.
	ErrCallDepthExceeded = errors.New("call depth exceeded")

	// ErrNoStore is returned by Checkpoint when no store is configured.
	ErrNoStore = errors.New("no run store configured")
)
