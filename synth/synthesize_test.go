package synth_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/synth"
)

func TestSynthesizeNode_Unconstrained1D(t *testing.T) {
	raw := model.LQNode{
		Time: 0,
		A:    mat.NewDense(1, 1, []float64{-1}),
		B:    mat.NewDense(1, 1, []float64{1}),
		P:    0,
		Rm:   mat.NewDense(1, 1, []float64{1}),
	}
	proj := model.ProjectedLQNode{
		Time: 0,
		P:    mat.NewDense(1, 1, []float64{1}), // identity, unconstrained
		Ac:   raw.A, Bc: raw.B,
		Pmc: mat.NewDense(1, 1, []float64{0}),
		Rvc: mat.NewDense(1, 1, []float64{0}),
		Rm:  raw.Rm,
	}
	value := model.ValueNode{
		Time: 0,
		Sm:   mat.NewDense(1, 1, []float64{2}),
		Sv:   mat.NewDense(1, 1, []float64{0.5}),
		Sve:  mat.NewDense(1, 1, []float64{0}),
	}

	node, err := synth.SynthesizeNode(raw, proj, value, []float64{1}, []float64{0}, 1.0)
	require.NoError(t, err)

	// K = -P*Rm^-1*(Pmc+Bc'Sm) = -(1)*(1)*(0+1*2) = -2
	require.InDelta(t, -2.0, node.K[0], 1e-9)
	// Δu_ff = -Rm^-1*(Rvc+Bc'Sv) = -(0+1*0.5) = -0.5
	require.InDelta(t, -0.5, node.DeltaUff[0], 1e-9)
	// u_ff = u_nom - K*x_nom + eta*(Lve - De) = 0 - (-2*1) + 0 = 2
	require.InDelta(t, 2.0, node.Uff[0], 1e-9)
}

func TestSynthesizeNode_RejectsDimensionMismatch(t *testing.T) {
	raw := model.LQNode{Time: 0, A: mat.NewDense(1, 1, []float64{-1}), B: mat.NewDense(1, 1, []float64{1}), Rm: mat.NewDense(1, 1, []float64{1})}
	proj := model.ProjectedLQNode{
		P:   mat.NewDense(1, 1, []float64{1}),
		Ac:  raw.A, Bc: raw.B,
		Pmc: mat.NewDense(1, 1, []float64{0}),
		Rvc: mat.NewDense(1, 1, []float64{0}),
		Rm:  raw.Rm,
	}
	value := model.ValueNode{Sm: mat.NewDense(1, 1, []float64{1}), Sv: mat.NewDense(1, 1, []float64{0}), Sve: mat.NewDense(1, 1, []float64{0})}

	_, err := synth.SynthesizeNode(raw, proj, value, []float64{1, 2}, []float64{0}, 1.0)
	require.ErrorIs(t, err, synth.ErrMismatchedDims)
}
