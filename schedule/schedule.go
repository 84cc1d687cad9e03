package schedule

import "sort"

// Engine maintains a mode sequence, its event times, and the current
// partition boundary times, answering "which subsystem is active at time t?"
// via binary search (spec.md §4.1).
//
// An Engine is not safe for concurrent use; callers that need a shared
// schedule across worker goroutines should deep-clone one Engine per worker
// the same way the rollout and Riccati engines clone dynamics/cost instances.
type Engine struct {
	modes      []int
	eventTimes []float64

	partitionTimes []float64
}

// New returns an Engine with no mode schedule and no partitions set yet;
// callers must call SetModeSchedule and RebuildForPartitions before
// ActiveSubsystemAt.
func New() *Engine {
	return &Engine{}
}

// SetModeSchedule installs an ordered sequence of subsystem identifiers and
// the strictly increasing event times separating them. len(eventTimes) must
// equal len(modes)-1.
//
// Tie-break: an event time belongs to the mode that starts at it (spec.md
// §4.1) — equivalently, ActiveSubsystemAt(t) for t == eventTimes[i] returns
// modes[i+1].
func (e *Engine) SetModeSchedule(modes []int, eventTimes []float64) error {
	if len(modes) == 0 {
		return scheduleErrorf(opSetModeSchedule, ErrEmptyModes)
	}
	if len(eventTimes) != len(modes)-1 {
		return scheduleErrorf(opSetModeSchedule, ErrEventCountMismatch)
	}
	if !sort.Float64sAreSorted(eventTimes) || hasDuplicateAdjacent(eventTimes) {
		return scheduleErrorf(opSetModeSchedule, ErrEventTimesNotIncreasing)
	}

	e.modes = append([]int(nil), modes...)
	e.eventTimes = append([]float64(nil), eventTimes...)

	return nil
}

// RebuildForPartitions installs a new strictly increasing sequence of
// partition boundary times. Calling this (re)sizes whatever per-partition
// caches a caller layers on top; the Engine itself holds no per-partition
// state beyond these boundaries, since mode lookup is global to the horizon.
func (e *Engine) RebuildForPartitions(partitionTimes []float64) error {
	if len(partitionTimes) < 2 {
		return scheduleErrorf(opRebuildForPartitions, ErrEmptyPartitions)
	}
	if !sort.Float64sAreSorted(partitionTimes) || hasDuplicateAdjacent(partitionTimes) {
		return scheduleErrorf(opRebuildForPartitions, ErrPartitionTimesNotIncreasing)
	}

	e.partitionTimes = append([]float64(nil), partitionTimes...)

	return nil
}

// NumPartitions returns the number of partitions currently installed.
func (e *Engine) NumPartitions() int {
	if len(e.partitionTimes) < 2 {
		return 0
	}

	return len(e.partitionTimes) - 1
}

// ActiveSubsystemAt returns the subsystem identifier active at time t within
// partitionIndex. Lookup is a binary search over event times restricted to
// [partitionTimes[partitionIndex], partitionTimes[partitionIndex+1]].
//
// Failure mode: if t lies outside partitionIndex's interval (even when it
// falls inside another partition), ActiveSubsystemAt clamps t to the nearest
// boundary of that partition, returns the subsystem active there, and
// reports recoverable=true so the caller can log a non-fatal
// warning instead of aborting the iteration (spec.md §4.1).
func (e *Engine) ActiveSubsystemAt(partitionIndex int, t float64) (subsystemID int, recoverable bool, err error) {
	if len(e.modes) == 0 {
		return 0, false, scheduleErrorf(opActiveSubsystemAt, ErrNoScheduleSet)
	}
	if e.NumPartitions() == 0 {
		return 0, false, scheduleErrorf(opActiveSubsystemAt, ErrEmptyPartitions)
	}
	if partitionIndex < 0 || partitionIndex >= e.NumPartitions() {
		return 0, false, scheduleErrorf(opActiveSubsystemAt, ErrPartitionIndexOutOfRange)
	}

	lo, hi := e.partitionTimes[partitionIndex], e.partitionTimes[partitionIndex+1]
	clamped := false
	switch {
	case t < lo:
		t = lo
		clamped = true
	case t > hi:
		t = hi
		clamped = true
	}

	return e.modeAt(t), clamped, nil
}

// modeAt returns the mode active at t via binary search over event times:
// the index of the first event time strictly greater than t gives the
// active mode (ties belong to the later mode per the tie-break rule).
func (e *Engine) modeAt(t float64) int {
	// sort.Search finds the smallest i such that eventTimes[i] > t.
	idx := sort.Search(len(e.eventTimes), func(i int) bool {
		return e.eventTimes[i] > t
	})

	return e.modes[idx]
}

// Modes returns the currently installed mode sequence (read-only view; the
// caller must not mutate the returned slice).
func (e *Engine) Modes() []int {
	return e.modes
}

// EventTimes returns the currently installed event-time sequence (read-only
// view; the caller must not mutate the returned slice).
func (e *Engine) EventTimes() []float64 {
	return e.eventTimes
}

// PartitionTimes returns the currently installed partition boundary times
// (read-only view; the caller must not mutate the returned slice).
func (e *Engine) PartitionTimes() []float64 {
	return e.partitionTimes
}

func hasDuplicateAdjacent(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return true
		}
	}

	return false
}
