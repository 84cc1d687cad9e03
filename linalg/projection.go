package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PseudoInverse computes the Moore-Penrose minimum-norm right-inverse of m
// via SVD, restricted to m's numerical row rank. Singular values below
// rankTol * sigmaMax are treated as zero — this is what lets a rank-deficient
// D (a type-1 constraint matrix with linearly dependent rows) still produce a
// well-defined D† instead of blowing up.
//
// Contract:
//   - rankTol must be > 0; spec.md §4.3 step 1 / §7 "constraint infeasibility".
//
// Returns the pseudo-inverse and the numerical rank used.
func PseudoInverse(m *mat.Dense, rankTol float64) (*mat.Dense, int, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, 0, linalgErrorf(opPseudoInv, err)
	}
	rows, cols := m.Dims()

	var svd mat.SVD
	ok := svd.Factorize(m, mat.SVDFull)
	if !ok {
		return nil, 0, linalgErrorf(opPseudoInv, ErrSingular)
	}
	values := svd.Values(nil)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	sigmaMax := 0.0
	for _, s := range values {
		if s > sigmaMax {
			sigmaMax = s
		}
	}
	threshold := rankTol * sigmaMax

	rank := 0
	sigmaPlus := make([]float64, len(values))
	for i, s := range values {
		if s > threshold {
			sigmaPlus[i] = 1.0 / s
			rank++
		}
	}

	// D+ = V * Sigma+ * U^T, where Sigma+ is diag(sigmaPlus) zero-padded to
	// the rectangular shape (cols x rows).
	sigmaPlusMat := mat.NewDense(cols, rows, nil)
	n := len(values)
	for i := 0; i < n; i++ {
		if sigmaPlus[i] != 0 {
			sigmaPlusMat.Set(i, i, sigmaPlus[i])
		}
	}

	var tmp mat.Dense
	tmp.Mul(&v, sigmaPlusMat)
	var result mat.Dense
	result.Mul(&tmp, u.T())

	out := mat.NewDense(cols, rows, nil)
	out.CloneFrom(&result)

	return out, rank, nil
}

// Projector returns P = I - D+*D, the orthogonal projector onto the null
// space of D (equivalently: onto the subset of the input space admissible
// under the type-1 constraint C*x + D*u + e = 0).
//
// Invariant: P*P = P within tolerance (spec.md §8).
func Projector(dPinv, d *mat.Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(dPinv); err != nil {
		return nil, linalgErrorf(opProjector, err)
	}
	if err := ValidateNotNil(d); err != nil {
		return nil, linalgErrorf(opProjector, err)
	}
	dPinvD, err := Mul(dPinv, d)
	if err != nil {
		return nil, linalgErrorf(opProjector, err)
	}
	r, c := dPinvD.Dims()
	if r != c {
		return nil, linalgErrorf(opProjector, ErrNotSquare)
	}

	return Sub(Identity(r), dPinvD)
}

// ProjectPSD enforces Q ⪰ 0 by symmetric eigenvalue thresholding: eigenvalues
// below floor are clipped to floor (spec.md §4.3 step 4), then Q is
// reconstructed from the clipped spectrum. q must already be numerically
// symmetric (see Symmetrize).
//
// Invariant: the returned matrix's eigenvalues are >= floor - epsPSD, and it
// remains symmetric to machine precision.
func ProjectPSD(q *mat.Dense, floor float64) (*mat.Dense, error) {
	if err := ValidateNotNil(q); err != nil {
		return nil, linalgErrorf(opProjectPSD, err)
	}
	r, c := q.Dims()
	if r != c {
		return nil, linalgErrorf(opProjectPSD, ErrNotSquare)
	}

	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			v := 0.5 * (q.At(i, j) + q.At(j, i))
			sym.SetSym(i, j, v)
		}
	}

	var eig mat.EigenSym
	ok := eig.Factorize(sym, true)
	if !ok {
		return nil, linalgErrorf(opProjectPSD, ErrSingular)
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	clipped := make([]float64, len(values))
	anyClipped := false
	for i, v := range values {
		if v < floor {
			clipped[i] = floor
			anyClipped = true
		} else {
			clipped[i] = v
		}
	}
	if !anyClipped {
		out := mat.NewDense(r, r, nil)
		out.CloneFrom(q)

		return out, nil
	}

	// Reconstruct Q = V * diag(clipped) * V^T.
	diag := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		diag.Set(i, i, clipped[i])
	}
	var tmp mat.Dense
	tmp.Mul(&vectors, diag)
	var out mat.Dense
	out.Mul(&tmp, vectors.T())

	res := mat.NewDense(r, r, nil)
	res.CloneFrom(&out)

	return res, nil
}

// IsApproxEqual reports whether a and b are elementwise within tol.
func IsApproxEqual(a, b *mat.Dense, tol float64) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > tol {
				return false
			}
		}
	}

	return true
}
