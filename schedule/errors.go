package schedule

import (
	"errors"
	"fmt"
)

// Sentinel errors for schedule operations.
var (
	// ErrEmptyModes indicates a mode schedule with zero subsystems was supplied.
	ErrEmptyModes = errors.New("schedule: mode sequence is empty")

	// ErrEventCountMismatch indicates len(eventTimes) != len(modes)-1.
	ErrEventCountMismatch = errors.New("schedule: event time count must equal len(modes)-1")

	// ErrEventTimesNotIncreasing indicates the event times are not strictly increasing.
	ErrEventTimesNotIncreasing = errors.New("schedule: event times must be strictly increasing")

	// ErrEmptyPartitions indicates an empty partition-times sequence was supplied.
	ErrEmptyPartitions = errors.New("schedule: partition time sequence is empty")

	// ErrPartitionTimesNotIncreasing indicates the partition boundary times are not
	// strictly increasing.
	ErrPartitionTimesNotIncreasing = errors.New("schedule: partition times must be strictly increasing")

	// ErrPartitionIndexOutOfRange indicates a partition index outside [0, numPartitions).
	ErrPartitionIndexOutOfRange = errors.New("schedule: partition index out of range")

	// ErrNoScheduleSet indicates activeSubsystemAt was called before setModeSchedule.
	ErrNoScheduleSet = errors.New("schedule: no mode schedule has been set")
)

// Operation name constants for unified error wrapping.
const (
	opSetModeSchedule      = "setModeSchedule"
	opRebuildForPartitions = "rebuildForPartitions"
	opActiveSubsystemAt    = "activeSubsystemAt"
)

// scheduleErrorf wraps an underlying error with the given operation tag.
func scheduleErrorf(tag string, err error) error {
	return fmt.Errorf("schedule: %s: %w", tag, err)
}
