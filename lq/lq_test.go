package lq_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/lq"
	"github.com/katalvlaran/slq/model"
)

func scalarNode(c, d, e float64, p int) model.LQNode {
	node := model.LQNode{
		A: mat.NewDense(1, 1, []float64{-1}),
		B: mat.NewDense(1, 1, []float64{2}),
		P: p,
		Qm: mat.NewDense(1, 1, []float64{3}),
		Qv: mat.NewDense(1, 1, []float64{0}),
		Pm: mat.NewDense(1, 1, []float64{0}),
		Rv: mat.NewDense(1, 1, []float64{0}),
		Rm: mat.NewDense(1, 1, []float64{1}),
	}
	if p > 0 {
		node.C = mat.NewDense(p, 1, repeat(c, p))
		node.D = mat.NewDense(p, 1, repeat(d, p))
		node.E = mat.NewDense(p, 1, repeat(e, p))
	}

	return node
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func TestProject_Unconstrained(t *testing.T) {
	node := scalarNode(0, 0, 0, 0)
	pr, err := lq.Project(node, 1e-9, 0.0)
	require.NoError(t, err)
	require.Equal(t, 0, pr.Rank)
	require.InDelta(t, 1.0, pr.P.At(0, 0), 1e-9, "unconstrained projector must be identity")
	require.InDelta(t, node.A.At(0, 0), pr.Ac.At(0, 0), 1e-9)
	require.InDelta(t, node.B.At(0, 0), pr.Bc.At(0, 0), 1e-9)
}

func TestProject_FullRankScalarConstraintZeroesProjector(t *testing.T) {
	// D=1 (full rank scalar): P = I - D+D = 1 - 1 = 0, so Bc = B*P = 0.
	node := scalarNode(1, 1, 0, 1)
	pr, err := lq.Project(node, 1e-9, 0.0)
	require.NoError(t, err)
	require.Equal(t, 1, pr.Rank)
	require.InDelta(t, 0.0, pr.P.At(0, 0), 1e-9)
	require.InDelta(t, 0.0, pr.Bc.At(0, 0), 1e-9)
}

func TestProject_RejectsNonPositiveRankTol(t *testing.T) {
	node := scalarNode(1, 1, 0, 1)
	_, err := lq.Project(node, 0, 0.0)
	require.ErrorIs(t, err, lq.ErrNonPositiveRankTol)
}

func TestProject_QmcStaysSymmetric(t *testing.T) {
	node := scalarNode(1, 0.5, 0.2, 1)
	pr, err := lq.Project(node, 1e-9, 0.0)
	require.NoError(t, err)
	r, c := pr.Qmc.Dims()
	require.Equal(t, r, c)
}
