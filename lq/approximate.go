package lq

import (
	"github.com/katalvlaran/slq/model"
)

// ApproximateNode evaluates dynamics Jacobians, the stage-cost quadratic
// expansion, and the state-input constraint at one rollout node (spec.md
// §4.3, first paragraph).
func ApproximateNode(dyn model.Dynamics, stage model.StageCost, cons model.Constraint, t float64, x, u []float64) model.LQNode {
	a, b := dyn.Jacobians(t, x, u)
	q, qv, qm, pm, rv, rm := stage.Expansion(t, x, u)
	c, d, e, p := cons.Evaluate(t, x, u)

	return model.LQNode{
		Time: t,
		A:    a, B: b,
		C: c, D: d, E: e, P: p,
		Q: q, Qv: qv, Qm: qm, Pm: pm, Rv: rv, Rm: rm,
	}
}

// Project runs the four-step constraint-projection pipeline (spec.md §4.3)
// on an LQNode, producing the constrained LQ subproblem. p is the number of
// active constraint rows at this node (node.C.Dims() row count); p == 0
// means there is no active state-input constraint, in which case the
// projector is the identity and the constrained matrices equal the raw
// ones.
//
// Formula note: the constrained quadratic terms are derived by substituting
// the constraint's particular solution u = -D†Cx - D†e + Pv into the raw
// quadratic stage cost and collecting terms in x and the free input v (the
// spec's prose gives Qᶜ and states the rest are "analogous"; Qvᶜ, Pmᶜ, and
// Rvᶜ below come from the same substitution). Rm itself
// is never projected — the synthesizer (C5) uses Rm directly.
func Project(node model.LQNode, rankTol, psdFloor float64) (model.ProjectedLQNode, error) {
	if rankTol <= 0 {
		return model.ProjectedLQNode{}, lqErrorf(opProject, ErrNonPositiveRankTol)
	}

	n, _ := node.A.Dims()
	_, m := node.B.Dims()
	if qr, qc := node.Qm.Dims(); qr != n || qc != n {
		return model.ProjectedLQNode{}, lqErrorf(opProject, ErrMismatchedStateDim)
	}
	if rr, rc := node.Rm.Dims(); rr != m || rc != m {
		return model.ProjectedLQNode{}, lqErrorf(opProject, ErrMismatchedInputDim)
	}

	if node.P == 0 {
		return unconstrainedProjection(node, m), nil
	}

	dPinv, rank, err := pseudoInverse(node.D, rankTol)
	if err != nil {
		return model.ProjectedLQNode{}, lqErrorf(opProject, err)
	}

	proj, err := projector(dPinv, node.D)
	if err != nil {
		return model.ProjectedLQNode{}, lqErrorf(opProject, err)
	}

	dc := mul(dPinv, node.C) // m x n
	de := mul(dPinv, node.E) // m x 1
	ac := sub(node.A, mul(node.B, dc))
	bc := mul(node.B, proj)

	dcT := transposeOf(dc)
	pmT := transposeOf(node.Pm)

	qmc := add(node.Qm, sub(mul(mul(dcT, node.Rm), dc), add(mul(pmT, dc), mul(dcT, node.Pm))))
	qmc, err = projectPSD(qmc, psdFloor)
	if err != nil {
		return model.ProjectedLQNode{}, lqErrorf(opProject, err)
	}

	qvc := add(node.Qv, sub(mul(mul(dcT, node.Rm), de), add(mul(pmT, de), mul(dcT, node.Rv))))

	pmc := mul(proj, sub(node.Pm, mul(node.Rm, dc)))
	rvc := mul(proj, sub(node.Rv, mul(node.Rm, de)))

	return model.ProjectedLQNode{
		Time:  node.Time,
		DPinv: dPinv,
		Rank:  rank,
		P:     proj,
		Ac:    ac, Bc: bc,
		Qvc: qvc, Qmc: qmc, Pmc: pmc, Rvc: rvc,
		Rm: node.Rm,
	}, nil
}

func unconstrainedProjection(node model.LQNode, m int) model.ProjectedLQNode {
	return model.ProjectedLQNode{
		Time:  node.Time,
		DPinv: nil,
		Rank:  0,
		P:     identityMat(m),
		Ac:    node.A, Bc: node.B,
		Qvc: node.Qv, Qmc: node.Qm, Pmc: node.Pm, Rvc: node.Rv,
		Rm: node.Rm,
	}
}
