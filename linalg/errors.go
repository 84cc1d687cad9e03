package linalg

import (
	"errors"
	"fmt"
)

// Sentinel errors for linalg operations.
var (
	// ErrNilMatrix indicates a required matrix argument was nil.
	ErrNilMatrix = errors.New("linalg: matrix is nil")

	// ErrShapeMismatch indicates operands did not have compatible shapes.
	ErrShapeMismatch = errors.New("linalg: shape mismatch")

	// ErrSingular indicates a matrix required to be invertible was not,
	// within the configured tolerance.
	ErrSingular = errors.New("linalg: matrix is singular or ill-conditioned")

	// ErrNotSquare indicates a square matrix was required but not provided.
	ErrNotSquare = errors.New("linalg: matrix is not square")
)

// Operation name constants for unified error wrapping.
const (
	opMul          = "Mul"
	opTranspose    = "Transpose"
	opInverse      = "Inverse"
	opPseudoInv    = "PseudoInverse"
	opProjector    = "Projector"
	opProjectPSD   = "ProjectPSD"
	opSymmetrize   = "Symmetrize"
	opCholeskySolv = "CholeskySolve"
)

// linalgErrorf wraps an underlying error with the given operation tag.
func linalgErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
