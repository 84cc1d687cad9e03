package riccati

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/model"
)

// flatState packs (Sm, Sv, s, Sve) into one vector for ode.Integrator: Sm is
// stored symmetric-flattened (upper triangle, row-major) to halve the state
// size and keep the integrated quantity exactly symmetric by construction.
type flatState struct {
	n int
}

func newFlatState(n int) flatState { return flatState{n: n} }

func (fs flatState) size() int {
	return fs.n*(fs.n+1)/2 + fs.n + 1 + fs.n
}

func (fs flatState) pack(sm, sv *mat.Dense, s float64, sve *mat.Dense) []float64 {
	n := fs.n
	out := make([]float64, fs.size())
	idx := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out[idx] = sm.At(i, j)
			idx++
		}
	}
	for i := 0; i < n; i++ {
		out[idx] = sv.At(i, 0)
		idx++
	}
	out[idx] = s
	idx++
	for i := 0; i < n; i++ {
		out[idx] = sve.At(i, 0)
		idx++
	}

	return out
}

func (fs flatState) unpack(v []float64) (sm, sv *mat.Dense, s float64, sve *mat.Dense) {
	n := fs.n
	sm = mat.NewDense(n, n, nil)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sm.Set(i, j, v[idx])
			sm.Set(j, i, v[idx])
			idx++
		}
	}
	sv = mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		sv.Set(i, 0, v[idx])
		idx++
	}
	s = v[idx]
	idx++
	sve = mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		sve.Set(i, 0, v[idx])
		idx++
	}

	return sm, sv, s, sve
}

// packInto writes the same layout pack() produces, but from
// pre-computed derivative pieces (used inside the ODE Func, where a
// symmetrized dSm is required so the packed/unpacked round trip stays exact
// even though dSm itself need not already be symmetric before averaging).
func (fs flatState) packInto(dst []float64, dsm, dsv *mat.Dense, ds float64, dsve *mat.Dense) {
	n := fs.n
	idx := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			dst[idx] = 0.5 * (dsm.At(i, j) + dsm.At(j, i))
			idx++
		}
	}
	for i := 0; i < n; i++ {
		dst[idx] = dsv.At(i, 0)
		idx++
	}
	dst[idx] = ds
	idx++
	for i := 0; i < n; i++ {
		dst[idx] = dsve.At(i, 0)
		idx++
	}
}

// coefficients is the held-constant (zero-order hold) set of projected LQ
// quantities used across one backward micro-segment.
type coefficients struct {
	ac, bc             *mat.Dense
	qvc, qmc, pmc, rvc *mat.Dense
	rmInv              *mat.Dense
	q                  float64
	b, dPinv, e        *mat.Dense // raw (unprojected) B, and D†, e, for the Sve source term
}

func coefficientsFrom(raw model.LQNode, proj model.ProjectedLQNode, rmInv *mat.Dense) coefficients {
	return coefficients{
		ac: proj.Ac, bc: proj.Bc,
		qvc: proj.Qvc, qmc: proj.Qmc, pmc: proj.Pmc, rvc: proj.Rvc,
		rmInv: rmInv,
		q:     raw.Q,
		b:     raw.B, dPinv: proj.DPinv, e: raw.E,
	}
}
