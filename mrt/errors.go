package mrt

import (
	"errors"
	"fmt"
)

// Sentinel errors for mrt operations.
var (
	// ErrNoLivePolicy indicates evaluate/reroll was called before any commit
	// has ever succeeded — a programmer error, fatal per spec.md §6.
	ErrNoLivePolicy = errors.New("mrt: evaluate/reroll before any successful commit")

	// ErrEmptyTrajectory indicates a staged/live policy record has no time
	// samples to interpolate.
	ErrEmptyTrajectory = errors.New("mrt: policy record has an empty trajectory")
)

const (
	opStage    = "Stage"
	opCommit   = "Commit"
	opEvaluate = "Evaluate"
	opReroll   = "Reroll"
)

func mrtErrorf(tag string, err error) error {
	return fmt.Errorf("mrt: %s: %w", tag, err)
}
