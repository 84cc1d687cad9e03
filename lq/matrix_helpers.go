package lq

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/linalg"
)

// These thin wrappers compose the projection formulas in terms the way
// linalg's facade functions already validate and shape-check; callers here
// trust that the LQ node's matrices were built with conformant dimensions
// (guaranteed by model.Dynamics/StageCost/Constraint implementations), the
// same trust boundary matrix package kernels place on their own validated
// inputs.

func mul(a, b *mat.Dense) *mat.Dense {
	out, err := linalg.Mul(a, b)
	if err != nil {
		panic(err)
	}

	return out
}

func add(a, b *mat.Dense) *mat.Dense {
	out, err := linalg.Add(a, b)
	if err != nil {
		panic(err)
	}

	return out
}

func sub(a, b *mat.Dense) *mat.Dense {
	out, err := linalg.Sub(a, b)
	if err != nil {
		panic(err)
	}

	return out
}

func transposeOf(a *mat.Dense) *mat.Dense {
	out, err := linalg.Transpose(a)
	if err != nil {
		panic(err)
	}

	return out
}

func identityMat(n int) *mat.Dense {
	return linalg.Identity(n)
}

func pseudoInverse(d *mat.Dense, rankTol float64) (*mat.Dense, int, error) {
	return linalg.PseudoInverse(d, rankTol)
}

func projector(dPinv, d *mat.Dense) (*mat.Dense, error) {
	return linalg.Projector(dPinv, d)
}

func projectPSD(q *mat.Dense, floor float64) (*mat.Dense, error) {
	return linalg.ProjectPSD(q, floor)
}
