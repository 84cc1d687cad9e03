package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/slq/model"
)

func twoNodeController() *model.Controller {
	return &model.Controller{
		StateDim: 1, InputDim: 1,
		Nodes: []model.Node{
			{Time: 0, K: []float64{-1}, Uff: []float64{0}, DeltaUff: []float64{2}},
			{Time: 1, K: []float64{-3}, Uff: []float64{4}, DeltaUff: []float64{0}},
		},
	}
}

func TestController_AtInterpolatesLinearly(t *testing.T) {
	c := twoNodeController()

	k, uff, deltaUff := c.At(0.5)
	require.InDelta(t, -2.0, k[0], 1e-12)
	require.InDelta(t, 2.0, uff[0], 1e-12)
	require.InDelta(t, 1.0, deltaUff[0], 1e-12)
}

func TestController_AtClampsOutsideRange(t *testing.T) {
	c := twoNodeController()

	kBefore, _, _ := c.At(-1)
	require.Equal(t, c.Nodes[0].K, kBefore)

	kAfter, _, _ := c.At(5)
	require.Equal(t, c.Nodes[1].K, kAfter)
}

func TestController_EvalCombinesGainFeedforwardAndAlpha(t *testing.T) {
	c := twoNodeController()

	u := c.Eval(0, []float64{3}, 1)
	// u = K*x + uff + alpha*deltaUff = -1*3 + 0 + 1*2 = -1
	require.InDelta(t, -1.0, u[0], 1e-12)
}

func TestTrajectory_FinalAndFinalTimeOnEmpty(t *testing.T) {
	var tr model.Trajectory
	require.Nil(t, tr.Final())
	require.Equal(t, 0.0, tr.FinalTime())
}

func TestTrajectory_FinalAndFinalTimeReturnLastSample(t *testing.T) {
	tr := model.Trajectory{
		Time:  []float64{0, 0.5, 1},
		State: [][]float64{{1}, {2}, {3}},
	}
	require.Equal(t, []float64{3}, tr.Final())
	require.Equal(t, 1.0, tr.FinalTime())
}
