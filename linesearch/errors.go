package linesearch

import (
	"errors"
	"fmt"
)

// Sentinel errors for linesearch operations.
var (
	// ErrNoCandidates indicates no candidate step size was evaluated (e.g.
	// the time budget had already expired before the first one), or that
	// Evaluate was given no trajectories.
	ErrNoCandidates = errors.New("linesearch: no candidate step sizes to try")

	// ErrAllRejected indicates every candidate either errored or failed the
	// descent-fraction test; the smallest tested alpha is still returned as
	// a diagnostic (spec.md §4.6 failure semantics), this error reports that
	// no admissible improvement was found.
	ErrAllRejected = errors.New("linesearch: all candidate step sizes rejected")

	// ErrInvalidSettings indicates Beta is outside (0,1) or AlphaMin is
	// outside (0,1].
	ErrInvalidSettings = errors.New("linesearch: beta must lie in (0,1) and alpha_min in (0,1]")
)

const (
	opSearch   = "Search"
	opEvaluate = "Evaluate"
)

func linesearchErrorf(tag string, err error) error {
	return fmt.Errorf("linesearch: %s: %w", tag, err)
}
