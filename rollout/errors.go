package rollout

import (
	"errors"
	"fmt"
)

// Sentinel errors for rollout operations.
var (
	// ErrUnknownSubsystem indicates the active subsystem at a node has no
	// registered Dynamics.
	ErrUnknownSubsystem = errors.New("rollout: no dynamics registered for active subsystem")

	// ErrInvalidHorizon indicates tf <= t0.
	ErrInvalidHorizon = errors.New("rollout: tf must be greater than t0")

	// ErrEmptyInitialState indicates x0 has zero length.
	ErrEmptyInitialState = errors.New("rollout: initial state is empty")

	// ErrControllerQueryPastHorizon indicates the controller was queried past
	// tf — a programmer error per spec.md §4.2, treated as fatal rather than
	// recoverable.
	ErrControllerQueryPastHorizon = errors.New("rollout: controller queried past tf")
)

const (
	opRollout = "rollout"
)

func rolloutErrorf(tag string, err error) error {
	return fmt.Errorf("rollout: %s: %w", tag, err)
}
