package riccati

import (
	"errors"
	"fmt"
)

// Sentinel errors for riccati operations.
var (
	// ErrEmptyNodes indicates a partition with zero LQ nodes, raw and
	// projected node slices of different lengths, or node times that are not
	// strictly increasing.
	ErrEmptyNodes = errors.New("riccati: partition has no LQ nodes")

	// ErrSingularRm indicates Rm could not be inverted at a node — spec.md
	// §4.6 "ill-conditioned Rm aborts the iteration as fatal".
	ErrSingularRm = errors.New("riccati: Rm is singular or ill-conditioned")

	// ErrMismatchedPartitionCount indicates the number of node slices did not
	// match the number of partitions in the schedule.
	ErrMismatchedPartitionCount = errors.New("riccati: node slice count does not match partition count")
)

const (
	opIntegratePartition = "IntegratePartition"
	opIntegrateAll       = "IntegrateAll"
)

func riccatiErrorf(tag string, err error) error {
	return fmt.Errorf("riccati: %s: %w", tag, err)
}
