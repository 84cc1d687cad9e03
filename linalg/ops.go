package linalg

import (
	"gonum.org/v1/gonum/mat"
)

// ValidateNotNil returns ErrNilMatrix if m is nil.
func ValidateNotNil(m *mat.Dense) error {
	if m == nil {
		return ErrNilMatrix
	}
	return nil
}

// ValidateSameShape returns ErrShapeMismatch if a and b do not have
// identical dimensions.
func ValidateSameShape(a, b *mat.Dense) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return ErrShapeMismatch
	}
	return nil
}

// Mul returns a*b. a.Cols() must equal b.Rows().
//
// Complexity: O(r*k*c) via gonum's BLAS-backed Dense.Mul.
func Mul(a, b *mat.Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, linalgErrorf(opMul, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, linalgErrorf(opMul, err)
	}
	_, ac := a.Dims()
	br, _ := b.Dims()
	if ac != br {
		return nil, linalgErrorf(opMul, ErrShapeMismatch)
	}
	ar, _ := a.Dims()
	_, bc := b.Dims()
	res := mat.NewDense(ar, bc, nil)
	res.Mul(a, b)

	return res, nil
}

// Transpose returns a copy of m transposed.
func Transpose(m *mat.Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, linalgErrorf(opTranspose, err)
	}
	r, c := m.Dims()
	res := mat.NewDense(c, r, nil)
	res.CloneFrom(m.T())

	return res, nil
}

// Scale returns a copy of m with every element multiplied by alpha.
func Scale(alpha float64, m *mat.Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, linalgErrorf(opScale(), err)
	}
	r, c := m.Dims()
	res := mat.NewDense(r, c, nil)
	res.Scale(alpha, m)

	return res, nil
}

func opScale() string { return "Scale" }

// Add returns a+b. a and b must share identical shapes.
func Add(a, b *mat.Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, linalgErrorf("Add", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, linalgErrorf("Add", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return nil, linalgErrorf("Add", err)
	}
	r, c := a.Dims()
	res := mat.NewDense(r, c, nil)
	res.Add(a, b)

	return res, nil
}

// Sub returns a-b. a and b must share identical shapes.
func Sub(a, b *mat.Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, linalgErrorf("Sub", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, linalgErrorf("Sub", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return nil, linalgErrorf("Sub", err)
	}
	r, c := a.Dims()
	res := mat.NewDense(r, c, nil)
	res.Sub(a, b)

	return res, nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) *mat.Dense {
	res := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		res.Set(i, i, 1)
	}

	return res
}

// Inverse returns the inverse of the square matrix m.
//
// Errors: ErrNotSquare if m is not square; ErrSingular if m is singular
// (gonum's LU-based Inverse reports this via a returned error).
func Inverse(m *mat.Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, linalgErrorf(opInverse, err)
	}
	r, c := m.Dims()
	if r != c {
		return nil, linalgErrorf(opInverse, ErrNotSquare)
	}
	res := mat.NewDense(r, c, nil)
	if err := res.Inverse(m); err != nil {
		return nil, linalgErrorf(opInverse, ErrSingular)
	}

	return res, nil
}

// Symmetrize returns (m + m^T) / 2, used to keep a matrix that should be
// symmetric numerically symmetric after an integration step.
func Symmetrize(m *mat.Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, linalgErrorf(opSymmetrize, err)
	}
	r, c := m.Dims()
	if r != c {
		return nil, linalgErrorf(opSymmetrize, ErrNotSquare)
	}
	t, err := Transpose(m)
	if err != nil {
		return nil, linalgErrorf(opSymmetrize, err)
	}
	sum, err := Add(m, t)
	if err != nil {
		return nil, linalgErrorf(opSymmetrize, err)
	}

	return Scale(0.5, sum)
}
