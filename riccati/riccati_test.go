package riccati_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/ode"
	"github.com/katalvlaran/slq/riccati"
)

func scalarLQNode(t float64) (model.LQNode, model.ProjectedLQNode) {
	raw := model.LQNode{
		Time: t,
		A:    mat.NewDense(1, 1, []float64{-1}),
		B:    mat.NewDense(1, 1, []float64{1}),
		P:    0,
		Q:    0,
		Qv:   mat.NewDense(1, 1, []float64{0}),
		Qm:   mat.NewDense(1, 1, []float64{1}),
		Pm:   mat.NewDense(1, 1, []float64{0}),
		Rv:   mat.NewDense(1, 1, []float64{0}),
		Rm:   mat.NewDense(1, 1, []float64{1}),
	}
	proj := model.ProjectedLQNode{
		Time: t,
		Ac:   raw.A, Bc: raw.B,
		Qmc: raw.Qm, Qvc: raw.Qv, Pmc: raw.Pm, Rvc: raw.Rv,
		Rm: raw.Rm,
	}

	return raw, proj
}

func TestIntegratePartition_ScalarLQRStaysSymmetricAndFinite(t *testing.T) {
	var rawNodes []model.LQNode
	var projNodes []model.ProjectedLQNode
	for _, tt := range []float64{0, 0.5, 1.0} {
		raw, proj := scalarLQNode(tt)
		rawNodes = append(rawNodes, raw)
		projNodes = append(projNodes, proj)
	}

	terminal := model.ValueNode{
		Time: 1.0,
		Sm:   mat.NewDense(1, 1, []float64{1}),
		Sv:   mat.NewDense(1, 1, []float64{0}),
		S:    0,
		Sve:  mat.NewDense(1, 1, []float64{0}),
	}

	values, err := riccati.IntegratePartition(context.Background(), ode.Dopri45{}, ode.DefaultOptions(1e-8), rawNodes, projNodes, terminal, nil)
	require.NoError(t, err)
	require.Len(t, values, 3)

	for _, v := range values {
		require.False(t, isNaN(v.Sm.At(0, 0)))
		require.Greater(t, v.Sm.At(0, 0), 0.0, "scalar Riccati solution must stay positive for this stable LQR")
	}
}

func TestIntegrateAll_SequentialStitchesPartitions(t *testing.T) {
	raw0, proj0 := scalarLQNode(0)
	raw1, proj1 := scalarLQNode(1)

	terminal := model.ValueNode{
		Time: 2.0,
		Sm:   mat.NewDense(1, 1, []float64{1}),
		Sv:   mat.NewDense(1, 1, []float64{0}),
		S:    0,
		Sve:  mat.NewDense(1, 1, []float64{0}),
	}

	rawNodes := [][]model.LQNode{{raw0}, {raw1}}
	projNodes := [][]model.ProjectedLQNode{{proj0}, {proj1}}
	// Give each partition two nodes spanning its own sub-interval so segDt > 0.
	raw0b, proj0b := scalarLQNode(1)
	raw1b, proj1b := scalarLQNode(2)
	rawNodes[0] = append(rawNodes[0], raw0b)
	projNodes[0] = append(projNodes[0], proj0b)
	rawNodes[1] = append(rawNodes[1], raw1b)
	projNodes[1] = append(projNodes[1], proj1b)

	seeds := []model.ValueNode{{}, terminal}
	eventAt := []map[int]model.EventTerminal{nil, nil}

	values, err := riccati.IntegrateAll(context.Background(), ode.Dopri45{}, ode.DefaultOptions(1e-8), rawNodes, projNodes, seeds, eventAt, false)
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.Len(t, values[0], 2)
	require.Len(t, values[1], 2)

	// Partition 0's terminal boundary must equal partition 1's computed
	// earliest value exactly (stitching, not merely close).
	require.Equal(t, values[1][0].Sm.At(0, 0), values[0][1].Sm.At(0, 0))

	parSeeds := []model.ValueNode{values[1][0], terminal}
	parValues, err := riccati.IntegrateAll(context.Background(), ode.Dopri45{}, ode.DefaultOptions(1e-8), rawNodes, projNodes, parSeeds, eventAt, true)
	require.NoError(t, err)
	require.InDelta(t, values[0][0].Sm.At(0, 0), parValues[0][0].Sm.At(0, 0), 1e-6, "parallel mode seeded from the same boundaries should match sequential")
}

func isNaN(v float64) bool {
	return v != v
}
