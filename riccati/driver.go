package riccati

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/ode"
)

// IntegrateAll runs the Riccati backward pass over every partition (spec.md
// §4.4 "Two execution modes"). rawNodes[i]/projNodes[i] are partition i's LQ
// tables in increasing time order; boundarySeeds[i] is the terminal boundary
// value for partition i — for the last partition this must be the true
// horizon terminal, for earlier partitions it is either computed on the fly
// (sequential) or supplied from the previous SLQ iteration's stitched result
// (parallel, per spec.md's warm-seed-then-fan-out description).
//
// Sequential mode walks partitions in reverse order, stitching each
// partition's computed t_i boundary into the next-earlier partition's
// terminal value — this is the authoritative, always-correct mode.
// Parallel mode integrates every partition concurrently from its supplied
// seed via errgroup, first-error-wins; both modes converge to the same
// fixed point across outer SLQ iterations, up to integration tolerance.
func IntegrateAll(ctx context.Context, integrator ode.Integrator, intOpts ode.Options, rawNodes [][]model.LQNode, projNodes [][]model.ProjectedLQNode, boundarySeeds []model.ValueNode, eventAt []map[int]model.EventTerminal, parallel bool) ([][]model.ValueNode, error) {
	p := len(rawNodes)
	if p == 0 || len(projNodes) != p || len(boundarySeeds) != p {
		return nil, riccatiErrorf(opIntegrateAll, ErrMismatchedPartitionCount)
	}

	values := make([][]model.ValueNode, p)

	if !parallel {
		boundary := boundarySeeds[p-1]
		for i := p - 1; i >= 0; i-- {
			if i < p-1 {
				boundary = values[i+1][0]
			}
			v, err := IntegratePartition(ctx, integrator, intOpts, rawNodes[i], projNodes[i], boundary, eventAt[i])
			if err != nil {
				return nil, err
			}
			values[i] = v
		}

		return values, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p; i++ {
		i := i
		g.Go(func() error {
			v, err := IntegratePartition(gctx, integrator, intOpts, rawNodes[i], projNodes[i], boundarySeeds[i], eventAt[i])
			if err != nil {
				return err
			}
			values[i] = v

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return values, nil
}
