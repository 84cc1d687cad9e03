package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/slq/schedule"
)

func newTwoModeEngine(t *testing.T) *schedule.Engine {
	t.Helper()
	e := schedule.New()
	require.NoError(t, e.SetModeSchedule([]int{1, 2}, []float64{0.1897}))
	require.NoError(t, e.RebuildForPartitions([]float64{0, 1, 2}))

	return e
}

func TestSetModeSchedule_ValidatesEventCount(t *testing.T) {
	e := schedule.New()
	err := e.SetModeSchedule([]int{1, 2, 3}, []float64{0.5})
	require.ErrorIs(t, err, schedule.ErrEventCountMismatch)
}

func TestSetModeSchedule_RejectsEmptyModes(t *testing.T) {
	e := schedule.New()
	err := e.SetModeSchedule(nil, nil)
	require.ErrorIs(t, err, schedule.ErrEmptyModes)
}

func TestSetModeSchedule_RejectsNonIncreasingEventTimes(t *testing.T) {
	e := schedule.New()
	err := e.SetModeSchedule([]int{1, 2, 3}, []float64{0.5, 0.3})
	require.ErrorIs(t, err, schedule.ErrEventTimesNotIncreasing)
}

func TestActiveSubsystemAt_BeforeAndAfterSwitch(t *testing.T) {
	e := newTwoModeEngine(t)

	before, recoverable, err := e.ActiveSubsystemAt(0, 0.1)
	require.NoError(t, err)
	require.False(t, recoverable)
	require.Equal(t, 1, before)

	after, recoverable, err := e.ActiveSubsystemAt(1, 0.5)
	require.NoError(t, err)
	require.False(t, recoverable)
	require.Equal(t, 2, after)
}

func TestActiveSubsystemAt_TieBreakBelongsToLaterMode(t *testing.T) {
	e := newTwoModeEngine(t)

	id, recoverable, err := e.ActiveSubsystemAt(0, 0.1897)
	require.NoError(t, err)
	require.False(t, recoverable)
	require.Equal(t, 2, id, "event time ties must belong to the later mode")
}

func TestActiveSubsystemAt_ClampsOutOfRangeTime(t *testing.T) {
	e := newTwoModeEngine(t)

	id, recoverable, err := e.ActiveSubsystemAt(0, -5.0)
	require.NoError(t, err)
	require.True(t, recoverable)
	require.Equal(t, 1, id)

	id, recoverable, err = e.ActiveSubsystemAt(1, 50.0)
	require.NoError(t, err)
	require.True(t, recoverable)
	require.Equal(t, 2, id)
}

func TestActiveSubsystemAt_RejectsBadPartitionIndex(t *testing.T) {
	e := newTwoModeEngine(t)
	_, _, err := e.ActiveSubsystemAt(7, 0.5)
	require.ErrorIs(t, err, schedule.ErrPartitionIndexOutOfRange)
}

func TestActiveSubsystemAt_RejectsBeforeScheduleSet(t *testing.T) {
	e := schedule.New()
	_, _, err := e.ActiveSubsystemAt(0, 0.0)
	require.ErrorIs(t, err, schedule.ErrNoScheduleSet)
}

func TestRebuildForPartitions_RejectsNonIncreasing(t *testing.T) {
	e := schedule.New()
	require.NoError(t, e.SetModeSchedule([]int{1}, nil))
	err := e.RebuildForPartitions([]float64{1, 0})
	require.ErrorIs(t, err, schedule.ErrPartitionTimesNotIncreasing)
}

func TestSingleModeSchedule_AlwaysActive(t *testing.T) {
	e := schedule.New()
	require.NoError(t, e.SetModeSchedule([]int{3}, nil))
	require.NoError(t, e.RebuildForPartitions([]float64{0, 1}))

	id, recoverable, err := e.ActiveSubsystemAt(0, 0.999)
	require.NoError(t, err)
	require.False(t, recoverable)
	require.Equal(t, 3, id)
}
