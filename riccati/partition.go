package riccati

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/linalg"
	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/ode"
)

// IntegratePartition backward-integrates one partition's Riccati quantities,
// from terminalBoundary at rawNodes[last].Time down to rawNodes[0].Time
// (spec.md §4.4). eventAt maps a node index to the event-terminal quadratic
// contribution charged there; at such a node (Sm, Sv, s) receive an additive
// jump and Sve resets to zero before integration continues into the earlier
// segment.
func IntegratePartition(ctx context.Context, integrator ode.Integrator, intOpts ode.Options, rawNodes []model.LQNode, projNodes []model.ProjectedLQNode, terminalBoundary model.ValueNode, eventAt map[int]model.EventTerminal) ([]model.ValueNode, error) {
	if len(rawNodes) == 0 || len(rawNodes) != len(projNodes) {
		return nil, riccatiErrorf(opIntegratePartition, ErrEmptyNodes)
	}

	n, _ := rawNodes[0].A.Dims()
	fs := newFlatState(n)
	last := len(rawNodes) - 1

	values := make([]model.ValueNode, len(rawNodes))
	values[last] = terminalBoundary
	cur := terminalBoundary
	if et, ok := eventAt[last]; ok {
		cur = applyEventJump(cur, et, n)
		values[last] = cur
	}

	for k := last - 1; k >= 0; k-- {
		segDt := rawNodes[k+1].Time - rawNodes[k].Time
		if segDt <= 0 {
			return nil, riccatiErrorf(opIntegratePartition, ErrEmptyNodes)
		}

		rmInv, err := linalg.Inverse(projNodes[k].Rm)
		if err != nil {
			return nil, riccatiErrorf(opIntegratePartition, ErrSingularRm)
		}

		hasSve := rawNodes[k].P > 0
		coeffs := coefficientsFrom(rawNodes[k], projNodes[k], rmInv)
		f := rhs(fs, coeffs, segDt, hasSve)

		x0 := fs.pack(cur.Sm, cur.Sv, cur.S, cur.Sve)
		res, err := integrator.Integrate(ctx, f, 0, x0, 1, nil, nil, intOpts)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sm, sv, s, sve := fs.unpack(res.Samples[len(res.Samples)-1].X)
		cur = model.ValueNode{Time: rawNodes[k].Time, Sm: sm, Sv: sv, S: s, Sve: sve}
		if et, ok := eventAt[k]; ok {
			cur = applyEventJump(cur, et, n)
		}
		values[k] = cur
	}

	return values, nil
}

func applyEventJump(v model.ValueNode, et model.EventTerminal, n int) model.ValueNode {
	sm := matAdd(v.Sm, et.QmF)
	sv := matAdd(v.Sv, et.QvF)

	return model.ValueNode{
		Time: v.Time,
		Sm:   sm,
		Sv:   sv,
		S:    v.S + et.QF,
		Sve:  zeroVec(n),
	}
}

func zeroVec(n int) *mat.Dense {
	return matZero(n, 1)
}
