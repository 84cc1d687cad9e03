package linalg_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/linalg"
)

func TestPseudoInverse_FullRank(t *testing.T) {
	// D = [1 0; 0 1] is already full rank; D+ should equal D (its own inverse).
	d := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	dPinv, rank, err := linalg.PseudoInverse(d, 1e-9)
	require.NoError(t, err)
	require.Equal(t, 2, rank)
	require.True(t, linalg.IsApproxEqual(d, dPinv, 1e-9))
}

func TestPseudoInverse_RankDeficient(t *testing.T) {
	// D = [1 0] has rank 1 and a 1x2 shape; D+ is 2x1 and satisfies D D+ D = D.
	d := mat.NewDense(1, 2, []float64{1, 0})
	dPinv, rank, err := linalg.PseudoInverse(d, 1e-9)
	require.NoError(t, err)
	require.Equal(t, 1, rank)

	ddPinv, err := linalg.Mul(d, dPinv)
	require.NoError(t, err)
	ddPinvD, err := linalg.Mul(ddPinv, d)
	require.NoError(t, err)
	require.True(t, linalg.IsApproxEqual(ddPinvD, d, 1e-9), "D D+ D must equal D")
}

func TestProjector_Idempotent(t *testing.T) {
	d := mat.NewDense(1, 2, []float64{1, 0})
	dPinv, _, err := linalg.PseudoInverse(d, 1e-9)
	require.NoError(t, err)

	p, err := linalg.Projector(dPinv, d)
	require.NoError(t, err)

	pp, err := linalg.Mul(p, p)
	require.NoError(t, err)
	require.True(t, linalg.IsApproxEqual(p, pp, 1e-9), "P*P must equal P")
}

func TestProjectPSD_ClipsNegativeEigenvalues(t *testing.T) {
	// A symmetric indefinite matrix with one negative eigenvalue (-1) and one
	// positive eigenvalue (3): diag(-1, 3) rotated is still diag(-1,3) since
	// it is already diagonal.
	q := mat.NewDense(2, 2, []float64{-1, 0, 0, 3})
	clipped, err := linalg.ProjectPSD(q, 0.0)
	require.NoError(t, err)

	var eig mat.EigenSym
	sym := mat.NewSymDense(2, nil)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			sym.SetSym(i, j, clipped.At(i, j))
		}
	}
	ok := eig.Factorize(sym, false)
	require.True(t, ok)
	for _, v := range eig.Values(nil) {
		require.GreaterOrEqual(t, v, -1e-9)
	}
}

func TestProjectPSD_LeavesAlreadyPSDUnchanged(t *testing.T) {
	q := mat.NewDense(2, 2, []float64{2, 0, 0, 3})
	clipped, err := linalg.ProjectPSD(q, 0.0)
	require.NoError(t, err)
	require.True(t, linalg.IsApproxEqual(q, clipped, 1e-9))
}

func TestSymmetrize(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 0, 1})
	sym, err := linalg.Symmetrize(m)
	require.NoError(t, err)
	require.InDelta(t, sym.At(0, 1), sym.At(1, 0), 1e-12)
}

func TestInverse_Singular(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	_, err := linalg.Inverse(m)
	require.ErrorIs(t, err, linalg.ErrSingular)
}
