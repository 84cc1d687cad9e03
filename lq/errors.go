package lq

import (
	"errors"
	"fmt"
)

// Sentinel errors for lq operations.
var (
	// ErrMismatchedStateDim indicates a Qv/Qm/Pm/A dimension disagreed with
	// the declared state dimension.
	ErrMismatchedStateDim = errors.New("lq: state dimension mismatch")

	// ErrMismatchedInputDim indicates an Rv/Rm/Pm/B dimension disagreed with
	// the declared input dimension.
	ErrMismatchedInputDim = errors.New("lq: input dimension mismatch")

	// ErrNonPositiveRankTol indicates rankTol <= 0 was supplied to the
	// pseudo-inverse step.
	ErrNonPositiveRankTol = errors.New("lq: rank tolerance must be positive")
)

const (
	opApproximate   = "ApproximateNode"
	opProject       = "Project"
	opMergeTerminal = "MergeTerminalConstraint"
)

func lqErrorf(tag string, err error) error {
	return fmt.Errorf("lq: %s: %w", tag, err)
}
