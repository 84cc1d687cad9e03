package mrt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/slq/mrt"
	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/ode"
	"github.com/katalvlaran/slq/rollout"
)

func zeroController(t0 float64) *model.Controller {
	return &model.Controller{
		StateDim: 1, InputDim: 1,
		Nodes: []model.Node{{Time: t0, K: []float64{0}, Uff: []float64{0}, DeltaUff: []float64{0}}},
	}
}

func policyAt(modes []int, events, partitions []float64) mrt.PolicyRecord {
	return mrt.PolicyRecord{
		InitObservation: []float64{0},
		Time:            []float64{0, 1},
		State:           [][]float64{{0}, {1}},
		Controller:      zeroController(0),
		Modes:           modes,
		EventTimes:      events,
		PartitionTimes:  partitions,
	}
}

func TestBuffer_CommitIsIdempotent(t *testing.T) {
	buf := mrt.NewBuffer(nil, rollout.Options{})

	buf.Stage(policyAt([]int{0}, nil, []float64{0, 1}))
	ok, err := buf.Commit()
	require.NoError(t, err)
	require.True(t, ok)

	ok2, err2 := buf.Commit()
	require.NoError(t, err2)
	require.False(t, ok2, "second commit without an intervening stage must be a no-op")
}

func TestBuffer_EvaluateBeforeCommitFails(t *testing.T) {
	buf := mrt.NewBuffer(nil, rollout.Options{})
	_, _, _, _, err := buf.Evaluate(0.5, []float64{0})
	require.ErrorIs(t, err, mrt.ErrNoLivePolicy)
}

func TestBuffer_EvaluateInterpolatesLiveTrajectory(t *testing.T) {
	buf := mrt.NewBuffer(nil, rollout.Options{})
	buf.Stage(policyAt([]int{0}, nil, []float64{0, 1}))
	ok, err := buf.Commit()
	require.NoError(t, err)
	require.True(t, ok)

	xRef, uRef, _, clamped, err := buf.Evaluate(0.5, []float64{0.4})
	require.NoError(t, err)
	require.False(t, clamped)
	require.InDelta(t, 0.5, xRef[0], 1e-9)
	require.Equal(t, []float64{0}, uRef)
}

func TestBuffer_SwapRaceObservesOnlyLatestCommit(t *testing.T) {
	buf := mrt.NewBuffer(nil, rollout.Options{})

	buf.Stage(policyAt([]int{0}, nil, []float64{0, 1}))
	_, err := buf.Commit()
	require.NoError(t, err)

	p2 := policyAt([]int{1}, nil, []float64{0, 1})
	p2.State = [][]float64{{10}, {20}}
	buf.Stage(p2)
	_, err = buf.Commit()
	require.NoError(t, err)

	p3 := policyAt([]int{2}, nil, []float64{0, 1})
	p3.State = [][]float64{{100}, {200}}
	buf.Stage(p3)
	_, err = buf.Commit()
	require.NoError(t, err)

	xRef, _, _, _, err := buf.Evaluate(0, []float64{0})
	require.NoError(t, err)
	require.Equal(t, 100.0, xRef[0], "must observe only P3's state, never a mix of P1/P2/P3")
}

func TestBuffer_ActiveScheduleAndDesiredCostBeforeCommit(t *testing.T) {
	buf := mrt.NewBuffer(nil, rollout.Options{})

	_, _, _, ok := buf.ActiveSchedule()
	require.False(t, ok)

	_, ok = buf.DesiredCost()
	require.False(t, ok)
}

func TestBuffer_ActiveScheduleAndDesiredCostReflectLiveCommit(t *testing.T) {
	buf := mrt.NewBuffer(nil, rollout.Options{})

	p := policyAt([]int{0, 1}, []float64{0.5}, []float64{0, 1})
	p.DesiredCost = "cost-handle-v1"
	buf.Stage(p)
	ok, err := buf.Commit()
	require.NoError(t, err)
	require.True(t, ok)

	modes, events, partitions, ok := buf.ActiveSchedule()
	require.True(t, ok)
	require.Equal(t, []int{0, 1}, modes)
	require.Equal(t, []float64{0.5}, events)
	require.Equal(t, []float64{0, 1}, partitions)

	desired, ok := buf.DesiredCost()
	require.True(t, ok)
	require.Equal(t, "cost-handle-v1", desired)
}

func TestBuffer_RerollFailsBeforeAnyCommit(t *testing.T) {
	buf := mrt.NewBuffer(map[int]model.Dynamics{}, rollout.Options{Integrator: ode.Dopri45{}, IntegratorOpts: ode.DefaultOptions(1e-6), StateDim: 1, InputDim: 1})
	_, _, _, err := buf.Reroll(context.Background(), 0, []float64{0}, 0.1)
	require.ErrorIs(t, err, mrt.ErrNoLivePolicy)
}
