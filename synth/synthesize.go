package synth

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/linalg"
	"github.com/katalvlaran/slq/model"
)

// SynthesizeNode computes the new controller sample at one rollout node from
// its raw/projected LQ tables, the Riccati value there, the nominal
// (rollout) state/input, and the constraint step size eta (spec.md §4.5):
//
//	K      = -P * Rm^-1 * (Pmc + Bc'Sm)  -  D†C
//	u_ff   = u_nom - K*x_nom + eta*(Lve - D†e)
//	Δu_ff  = -Rm^-1 * (Rvc + Bc'Sv)
//	Lve    = -Rm^-1 * Bc' * Sve
//
// Dimension note: the defining formula writes "(Pmc+Bc'Sm)·P" with P
// trailing the bracket; read as a strict right-multiplication this does not
// type-check (the bracket is m x n, P is m x m). P is applied on the left
// instead — it restricts K's range, the image of the linear map x -> Kx,
// which lives in R^m (the codomain), keeping the gain's range inside the
// admissible input subspace.
func SynthesizeNode(raw model.LQNode, proj model.ProjectedLQNode, value model.ValueNode, xNom, uNom []float64, eta float64) (model.Node, error) {
	n, _ := proj.Ac.Dims()
	_, m := proj.Bc.Dims()
	if len(xNom) != n || len(uNom) != m {
		return model.Node{}, synthErrorf(opSynthesize, ErrMismatchedDims)
	}

	rmInv, err := linalg.Inverse(proj.Rm)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, ErrSingularRm)
	}

	bcT, err := linalg.Transpose(proj.Bc)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}

	dc, de := constraintTerms(raw, proj, n, m)

	bcTSm, err := linalg.Mul(bcT, value.Sm)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	bracket, err := linalg.Add(proj.Pmc, bcTSm)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	rmInvBracket, err := linalg.Mul(rmInv, bracket)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	projected, err := linalg.Mul(proj.P, rmInvBracket)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	negProjected, err := linalg.Scale(-1, projected)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	k, err := linalg.Sub(negProjected, dc)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}

	bcTSv, err := linalg.Mul(bcT, value.Sv)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	rvcBracket, err := linalg.Add(proj.Rvc, bcTSv)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	deltaUffMat, err := linalg.Mul(rmInv, rvcBracket)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	deltaUffMat, err = linalg.Scale(-1, deltaUffMat)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}

	bcTSve, err := linalg.Mul(bcT, value.Sve)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	lve, err := linalg.Mul(rmInv, bcTSve)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}
	lve, err = linalg.Scale(-1, lve)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}

	xMat := mat.NewDense(n, 1, xNom)
	kx, err := linalg.Mul(k, xMat)
	if err != nil {
		return model.Node{}, synthErrorf(opSynthesize, err)
	}

	uff := make([]float64, m)
	for i := 0; i < m; i++ {
		uff[i] = uNom[i] - kx.At(i, 0) + eta*(lve.At(i, 0)-de.At(i, 0))
	}

	return model.Node{
		Time:     raw.Time,
		K:        flatten(k, m, n),
		Uff:      uff,
		DeltaUff: colSlice(deltaUffMat, m),
	}, nil
}

// constraintTerms returns D†C (m x n) and D†e (m x 1), both zero when the
// node is unconstrained (proj.DPinv == nil).
func constraintTerms(raw model.LQNode, proj model.ProjectedLQNode, n, m int) (*mat.Dense, *mat.Dense) {
	if proj.DPinv == nil || raw.P == 0 {
		return mat.NewDense(m, n, nil), mat.NewDense(m, 1, nil)
	}

	var dc, de mat.Dense
	dc.Mul(proj.DPinv, raw.C)
	de.Mul(proj.DPinv, raw.E)

	return &dc, &de
}

func flatten(m *mat.Dense, rows, cols int) []float64 {
	out := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[i*cols+j] = m.At(i, j)
		}
	}

	return out
}

func colSlice(m *mat.Dense, rows int) []float64 {
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = m.At(i, 0)
	}

	return out
}
