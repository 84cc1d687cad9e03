package synth

import (
	"errors"
	"fmt"
)

// Sentinel errors for synth operations.
var (
	// ErrSingularRm indicates Rm could not be inverted at this node.
	ErrSingularRm = errors.New("synth: Rm is singular")

	// ErrMismatchedDims indicates x_nom/u_nom lengths disagreed with the
	// node's declared state/input dimensions.
	ErrMismatchedDims = errors.New("synth: state or input dimension mismatch")
)

const opSynthesize = "SynthesizeNode"

func synthErrorf(tag string, err error) error {
	return fmt.Errorf("synth: %s: %w", tag, err)
}
